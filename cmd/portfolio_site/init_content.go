package main

import (
	"fmt"
	"os"

	"github.com/jonathan/portfolio-site/internal/content"
	"github.com/spf13/cobra"
)

var initContentCmd = &cobra.Command{
	Use:   "init-content",
	Short: "Write the built-in content as a starting point",
	RunE:  runInitContent,
}

var (
	initContentOutput string
	initContentForce  bool
)

func init() {
	initContentCmd.Flags().StringVarP(&initContentOutput, "out", "o", "portfolio.json", "Path to write")
	initContentCmd.Flags().BoolVar(&initContentForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(initContentCmd)
}

func runInitContent(cmd *cobra.Command, _ []string) error {
	if !initContentForce {
		if _, err := os.Stat(initContentOutput); err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite", initContentOutput)
		}
	}
	if err := os.WriteFile(initContentOutput, content.DefaultJSON(), 0o644); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", initContentOutput)
	return nil
}
