// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio-site/internal/audit"
	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/jonathan/portfolio-site/internal/rendering"
	"github.com/jonathan/portfolio-site/internal/share"
	"github.com/jonathan/portfolio-site/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintPortfolio outputs a summary of the loaded content.
func (p *Printer) PrintPortfolio(portfolio *types.Portfolio) {
	if portfolio == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", portfolio.Profile.Name))
	sb.WriteString(fmt.Sprintf("Headline:  %s\n", portfolio.Profile.Headline))
	sb.WriteString(fmt.Sprintf("Email:     %s\n", portfolio.Profile.Email))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Projects:     %d\n", len(portfolio.Projects)))
	count := min(len(portfolio.Projects), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", portfolio.Projects[i].Title))
	}
	if len(portfolio.Projects) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(portfolio.Projects)-maxItemsToShow))
	}

	sb.WriteString(fmt.Sprintf("Internships:  %d\n", len(portfolio.Internships)))
	sb.WriteString(fmt.Sprintf("Skill groups: %d\n", len(portfolio.SkillGroups)))
	sb.WriteString(fmt.Sprintf("Certificates: %d (%d achievements, %d courses, %d hackathons)\n",
		len(portfolio.Certificates),
		len(portfolio.CertificatesByCategory(types.CategoryAchievement)),
		len(portfolio.CertificatesByCategory(types.CategoryCourse)),
		len(portfolio.CertificatesByCategory(types.CategoryHackathon)),
	))
	sb.WriteString(fmt.Sprintf("Education:    %d\n", len(portfolio.Education)))

	p.printBox("PORTFOLIO CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutcome outputs the result of a contact submission as the visitor would see it.
func (p *Printer) PrintOutcome(outcome contact.Outcome) {
	var sb strings.Builder
	icon := "✓"
	if outcome.Kind != contact.Success {
		icon = "⚠"
	}
	sb.WriteString(fmt.Sprintf("%s %s (%s)\n", icon, outcome.Title(), outcome.Kind))
	sb.WriteString(outcome.UserMessage())
	if outcome.Err != nil {
		sb.WriteString(fmt.Sprintf("\nCause: %v", outcome.Err))
	}
	if outcome.KeepDraft() {
		sb.WriteString("\nDraft kept for retry")
	}

	p.printBox("CONTACT SUBMISSION", sb.String())
}

// PrintAuditReport outputs every check of an audit, failures first.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAuditReport(report *audit.Report) {
	if report == nil {
		return
	}

	failures := report.Failures()
	if len(failures) == 0 {
		border := strings.Repeat("─", boxWidth-2)
		fmt.Fprintf(p.out, "┌%s┐\n", border)
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ ALL %d CHECKS PASSED", len(report.Checks)))
		fmt.Fprintf(p.out, "└%s┘\n", border)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL: %s\n", report.URL))
	sb.WriteString(fmt.Sprintf("Failed %d of %d checks:\n\n", len(failures), len(report.Checks)))
	for i, c := range failures {
		sb.WriteString(fmt.Sprintf("⚠ %s", c.Name))
		if c.Offset != 0 {
			sb.WriteString(fmt.Sprintf(" @%dpx", c.Offset))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  expected %s, got %s\n", c.Expected, c.Observed))
		if i < len(failures)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("AUDIT FAILURES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExportResult outputs the files written by a static export.
func (p *Printer) PrintExportResult(dir string, result *rendering.ExportResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Output: %s\n", dir))
	sb.WriteString(fmt.Sprintf("Wrote %d files:\n", len(result.Files)))
	count := min(len(result.Files), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", result.Files[i]))
	}
	if len(result.Files) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Files)-maxItemsToShow))
	}

	p.printBox("STATIC EXPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintShareResult outputs how a link was shared.
func (p *Printer) PrintShareResult(url string, result share.Result) {
	var line string
	switch result {
	case share.Shared:
		line = "✓ Shared " + url
	case share.Copied:
		line = "✓ Copied " + url + " to clipboard"
	default:
		line = "⚠ Could not share " + url
	}
	p.printBox("SHARE", line)
}
