package main

import (
	"fmt"

	"github.com/jonathan/portfolio-site/internal/config"
	"github.com/jonathan/portfolio-site/internal/observability"
	"github.com/jonathan/portfolio-site/internal/rendering"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Export the site as static files",
	Long: `Pre-render the page, its menu and resume overlay variants and the static assets into a
directory that any static host can serve.`,
	RunE: runRender,
}

var (
	renderOutput     string
	renderContent    string
	renderResumeFile string
	renderSiteURL    string
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Output directory (required)")
	renderCmd.Flags().StringVar(&renderContent, "content", "", "Path to portfolio content JSON (default: built-in)")
	renderCmd.Flags().StringVar(&renderResumeFile, "resume", "", "Path to the resume PDF to copy (optional)")
	renderCmd.Flags().StringVar(&renderSiteURL, "site-url", "", "Public URL of the site, used for sharing")

	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, config.Config{
		Content: renderContent,
		SiteURL: renderSiteURL,
	})
	if err != nil {
		return err
	}

	portfolio, err := loadPortfolio(cfg.Content)
	if err != nil {
		return err
	}

	renderer, err := rendering.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	// The resume is only copied when asked for explicitly; the default path may not exist.
	result, err := renderer.Export(cmd.Context(), portfolio, rendering.ExportOptions{
		OutDir:     renderOutput,
		ResumeFile: renderResumeFile,
		SiteURL:    cfg.SiteURL,
	})
	if err != nil {
		return fmt.Errorf("failed to export site: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintExportResult(renderOutput, result)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files to %s\n", len(result.Files), renderOutput)
	return nil
}
