package main

import (
	"fmt"

	"github.com/jonathan/portfolio-site/internal/config"
	"github.com/jonathan/portfolio-site/internal/observability"
	"github.com/jonathan/portfolio-site/internal/share"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Copy the portfolio link to the clipboard",
	Long: `Shares the portfolio link. A terminal has no native share sheet, so the link is
copied to the system clipboard, the same fallback the page uses.`,
	RunE: runShare,
}

var (
	shareURL     string
	shareContent string
)

// shareClipboard is replaced in tests.
var shareClipboard share.Clipboard = share.SystemClipboard{}

func init() {
	shareCmd.Flags().StringVar(&shareURL, "url", "", "Link to share (default: configured site URL, then the profile's)")
	shareCmd.Flags().StringVar(&shareContent, "content", "", "Path to portfolio content JSON (default: built-in)")
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, config.Config{
		SiteURL: shareURL,
		Content: shareContent,
	})
	if err != nil {
		return err
	}

	portfolio, err := loadPortfolio(cfg.Content)
	if err != nil {
		return err
	}

	link := cfg.SiteURL
	if link == "" {
		link = portfolio.Profile.SiteURL
	}
	if link == "" {
		return fmt.Errorf("no link to share: pass --url or set site_url")
	}

	svc := &share.Service{
		Clipboard: shareClipboard,
		Notifier: share.NotifierFunc(func(msg string) {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}),
	}

	result, err := svc.Share(cmd.Context(), share.Data{
		Title: portfolio.Profile.Name,
		Text:  portfolio.Profile.Headline,
		URL:   link,
	})
	observability.NewPrinter(cmd.OutOrStdout()).PrintShareResult(link, result)
	return err
}
