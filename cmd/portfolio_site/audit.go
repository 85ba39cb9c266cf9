package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/portfolio-site/internal/audit"
	"github.com/jonathan/portfolio-site/internal/observability"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check a running site's navigation state",
	Long: `Fetches the server-rendered page once per section and overlay and checks the highlight,
overlay and scroll lock. With --browser, also drives headless Chrome through the page and
checks that the highlight follows scrolling.

Requires Chrome/Chromium to be installed for --browser.`,
	RunE: runAudit,
}

var (
	auditURL     string
	auditBrowser bool
	auditOffsets []int
	auditTimeout time.Duration
	auditOutput  string
)

func init() {
	auditCmd.Flags().StringVarP(&auditURL, "url", "u", "", "URL of the running site (required)")
	auditCmd.Flags().BoolVar(&auditBrowser, "browser", false, "Also check scroll tracking in headless Chrome")
	auditCmd.Flags().IntSliceVar(&auditOffsets, "offsets", nil, "Scroll offsets to probe with --browser (default: every section's edges)")
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", audit.DefaultTimeout, "HTTP request timeout")
	auditCmd.Flags().StringVarP(&auditOutput, "out", "o", "", "Write the report as JSON to this path")

	if err := auditCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	opts := audit.DefaultOptions()
	opts.Timeout = auditTimeout

	reports := make([]*audit.Report, 0, 2)

	report, err := audit.ServerRendered(ctx, auditURL, opts)
	if err != nil {
		return fmt.Errorf("server-rendered audit failed: %w", err)
	}
	reports = append(reports, report)

	if auditBrowser {
		chromeOpts := audit.DefaultChromeOptions()
		chromeOpts.Verbose = verbose
		chrome, err := audit.OpenChrome(ctx, auditURL, chromeOpts)
		if err != nil {
			return err
		}
		defer chrome.Close()

		scrollReport, err := audit.Scroll(ctx, chrome, auditURL, auditOffsets)
		if err != nil {
			return fmt.Errorf("scroll audit failed: %w", err)
		}
		reports = append(reports, scrollReport)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	failed := 0
	for _, r := range reports {
		printer.PrintAuditReport(r)
		failed += len(r.Failures())
	}

	if auditOutput != "" {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := os.WriteFile(auditOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d audit checks failed", failed)
	}
	return nil
}
