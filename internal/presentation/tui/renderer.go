package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// SummaryMarkdown describes a report as a markdown document.
func SummaryMarkdown(r *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run %s\n\n", r.ID)
	fmt.Fprintf(&b, "- **Host:** %s\n", r.Host)
	fmt.Fprintf(&b, "- **Plan:** %s\n", r.Plan)
	fmt.Fprintf(&b, "- **Started:** %s\n", r.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Status:** %s (exit %d)\n\n", r.Status, r.ExitCode)

	b.WriteString("| Step | Outcome | Duration |\n|---|---|---|\n")
	for _, s := range r.Steps {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Step.Title(), s.Outcome, s.Duration.Round(100*time.Millisecond))
	}

	var findings []domain.Finding
	for _, f := range r.Findings() {
		if f.Severity != domain.SeverityInfo {
			findings = append(findings, f)
		}
	}
	if len(findings) > 0 {
		b.WriteString("\n## Findings\n\n")
		for _, f := range findings {
			first, _, _ := strings.Cut(f.Message, "\n")
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", f.Severity, f.Step.Title(), first)
		}
	}
	return b.String()
}

// PrintSummary writes the report summary to w, styled when w is a terminal.
func PrintSummary(w io.Writer, r *domain.Report) error {
	md := SummaryMarkdown(r)
	if !IsTerminal(w) {
		_, err := io.WriteString(w, md)
		return err
	}
	out, err := NewRenderer()(md)
	if err != nil {
		out = md
	}
	_, err = io.WriteString(w, out)
	return err
}
