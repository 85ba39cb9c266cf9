package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/portfolio-site/internal/content"
	"github.com/jonathan/portfolio-site/internal/observability"
	"github.com/jonathan/portfolio-site/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a portfolio content file",
	Long: `Validates a content file against the portfolio JSON Schema (or the schema given with
--schema) and checks that it loads.`,
	RunE: runValidate,
}

var (
	validateContent string
	validateSchema  string
)

func init() {
	validateCmd.Flags().StringVarP(&validateContent, "content", "c", "", "Path to portfolio content JSON (required)")
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Path to a JSON Schema file (default: built-in portfolio schema)")

	if err := validateCmd.MarkFlagRequired("content"); err != nil {
		panic(fmt.Sprintf("failed to mark content flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(validateContent); os.IsNotExist(err) {
		return fmt.Errorf("content file not found: %s", validateContent)
	}

	if validateSchema != "" {
		if err := schemas.ValidateJSON(validateSchema, validateContent); err != nil {
			return validationFailed(err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
		return nil
	}

	portfolio, err := content.Load(validateContent)
	if err != nil {
		return validationFailed(err)
	}

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintPortfolio(portfolio)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}

func validationFailed(err error) error {
	var schemaErr *schemas.ValidationError
	var loadErr *schemas.SchemaLoadError
	if errors.As(err, &schemaErr) || errors.As(err, &loadErr) {
		return fmt.Errorf("validation failed: %w", err)
	}
	return err
}
