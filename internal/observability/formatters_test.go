package observability

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/portfolio-site/internal/audit"
	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/jonathan/portfolio-site/internal/rendering"
	"github.com/jonathan/portfolio-site/internal/share"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintPortfolio(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	portfolio := &types.Portfolio{
		Profile: types.Profile{Name: "Asha Rao", Headline: "Full-stack developer", Email: "asha@example.com"},
		Projects: []types.Project{
			{Title: "Weather Now"},
			{Title: "Quiz Arena"},
		},
		Certificates: []types.Certificate{
			{Title: "Smart India Hackathon", Category: types.CategoryHackathon},
			{Title: "Go Basics", Category: types.CategoryCourse},
			{Title: "Dean's List", Category: types.CategoryAchievement},
		},
	}

	p.PrintPortfolio(portfolio)
	output := buf.String()

	assert.Contains(t, output, "PORTFOLIO CONTENT")
	assert.Contains(t, output, "Asha Rao")
	assert.Contains(t, output, "Weather Now")
	assert.Contains(t, output, "Projects:     2")
	assert.Contains(t, output, "3 (1 achievements, 1 courses, 1 hackathons)")
}

func TestPrintPortfolio_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPortfolio(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPortfolio_Truncation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	portfolio := &types.Portfolio{}
	for i := 0; i < 8; i++ {
		portfolio.Projects = append(portfolio.Projects, types.Project{Title: fmt.Sprintf("project-%d", i)})
	}

	p.PrintPortfolio(portfolio)
	output := buf.String()

	assert.Contains(t, output, "project-4")
	assert.NotContains(t, output, "project-5")
	assert.Contains(t, output, "... and 3 more")
}

func TestPrintOutcome(t *testing.T) {
	tests := []struct {
		name     string
		outcome  contact.Outcome
		contains []string
		excludes []string
	}{
		{
			name:     "success",
			outcome:  contact.Succeeded(),
			contains: []string{"✓ Success! (success)", contact.SuccessMessage},
			excludes: []string{"Draft kept"},
		},
		{
			name:     "rejected",
			outcome:  contact.RejectedWith("Invalid access key"),
			contains: []string{"⚠ Error! (rejected)", "Invalid access key", "Draft kept for retry"},
		},
		{
			name:     "unreachable",
			outcome:  contact.UnreachableBecause(errors.New("dial tcp: timeout")),
			contains: []string{"(unreachable)", contact.NetworkErrorMessage, "Cause: dial tcp: timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintOutcome(tt.outcome)
			output := buf.String()

			assert.Contains(t, output, "CONTACT SUBMISSION")
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestPrintAuditReport_Passed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAuditReport(&audit.Report{Checks: []audit.Check{{Name: "section home", Expected: "home", Observed: "home", OK: true}}})
	output := buf.String()

	assert.Contains(t, output, "ALL 1 CHECKS PASSED")
}

func TestPrintAuditReport_Failures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &audit.Report{
		URL: "http://localhost:8080/",
		Checks: []audit.Check{
			{Name: "scroll", Offset: 0, Expected: "home", Observed: "home", OK: true},
			{Name: "scroll", Offset: 1000, Expected: "projects", Observed: "home"},
		},
	}

	p.PrintAuditReport(report)
	output := buf.String()

	assert.Contains(t, output, "AUDIT FAILURES")
	assert.Contains(t, output, "Failed 1 of 2 checks")
	assert.Contains(t, output, "⚠ scroll @1000px")
	assert.Contains(t, output, "expected projects, got home")
}

func TestPrintAuditReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAuditReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintExportResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExportResult("dist", &rendering.ExportResult{Files: []string{"index.html", "resume/index.html"}})
	output := buf.String()

	assert.Contains(t, output, "STATIC EXPORT")
	assert.Contains(t, output, "Output: dist")
	assert.Contains(t, output, "Wrote 2 files")
	assert.Contains(t, output, "resume/index.html")
}

func TestPrintShareResult(t *testing.T) {
	tests := []struct {
		result share.Result
		want   string
	}{
		{share.Shared, "✓ Shared https://asha.dev"},
		{share.Copied, "✓ Copied https://asha.dev to clipboard"},
		{share.Failed, "⚠ Could not share https://asha.dev"},
	}

	for _, tt := range tests {
		t.Run(tt.result.String(), func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintShareResult("https://asha.dev", tt.result)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "✓✓✓✓✓✓✓...", truncate(strings.Repeat("✓", 20), 10))
}
