package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/muesli/termenv"
)

// Printer writes live step progress for an operator.
type Printer struct {
	w       io.Writer
	profile termenv.Profile
	verbose bool
}

// NewPrinter creates a printer. Colors are used only when w is a terminal.
func NewPrinter(w io.Writer, verbose bool) *Printer {
	return &Printer{w: w, profile: profileFor(w), verbose: verbose}
}

// Hooks returns lifecycle hooks that print each step as it starts and finishes.
func (p *Printer) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart: func(_ context.Context, e *domain.StepEvent) {
			p.StepStart(e.Step)
		},
	}
}

// StepStart announces a step.
func (p *Printer) StepStart(id domain.StepID) {
	fmt.Fprintf(p.w, ">>> [%d/%d] %s...\n", position(id), len(domain.Steps), id.Title())
}

// StepResult prints the outcome of a step, its findings and any captured output.
func (p *Printer) StepResult(res domain.StepResult) {
	symbol, color := p.outcomeStyle(res.Outcome)
	line := fmt.Sprintf("  %s %s", symbol, res.Step.Title())
	if res.Outcome != domain.OutcomeSkipped && res.Duration > 0 {
		line += fmt.Sprintf(" (%s)", res.Duration.Round(100*time.Millisecond))
	}
	fmt.Fprintln(p.w, p.profile.String(line).Foreground(color))

	for _, f := range res.Findings {
		if f.Severity == domain.SeverityInfo && !p.verbose {
			continue
		}
		p.finding(f)
	}

	if out := strings.TrimRight(res.Output, "\n"); out != "" {
		for _, l := range strings.Split(out, "\n") {
			fmt.Fprintf(p.w, "    %s\n", l)
		}
	}
}

// Report prints every step result followed by the closing status line.
func (p *Printer) Report(r *domain.Report) {
	for _, s := range r.Steps {
		p.StepResult(s)
	}
	p.Status(r)
}

// Status prints the one-line verdict for a finished run.
func (p *Printer) Status(r *domain.Report) {
	advisories := r.Count(domain.SeverityAdvisory)
	var msg string
	var color termenv.Color
	switch r.Status {
	case domain.StatusSucceeded:
		msg, color = "Provisioning complete", p.profile.Color("#16a34a")
	case domain.StatusDegraded:
		msg, color = "Provisioning finished with failures; the host may be partially configured", p.profile.Color("#dc2626")
	case domain.StatusAborted:
		msg, color = "Provisioning aborted", p.profile.Color("#dc2626")
	case domain.StatusCancelled:
		msg, color = "Provisioning cancelled", p.profile.Color("#d97706")
	default:
		msg, color = string(r.Status), p.profile.Color("#6b7280")
	}
	if advisories > 0 {
		msg += fmt.Sprintf(" (%d advisories)", advisories)
	}
	fmt.Fprintln(p.w, p.profile.String(">>> "+msg).Foreground(color).Bold())
}

func (p *Printer) finding(f domain.Finding) {
	symbol, color := "•", p.profile.Color("#6b7280")
	switch f.Severity {
	case domain.SeverityAdvisory:
		symbol, color = "⚠", p.profile.Color("#d97706")
	case domain.SeverityError, domain.SeverityFatal:
		symbol, color = "✗", p.profile.Color("#dc2626")
	}

	lines := strings.Split(f.Message, "\n")
	fmt.Fprintln(p.w, p.profile.String(fmt.Sprintf("    %s %s", symbol, lines[0])).Foreground(color))
	for _, l := range lines[1:] {
		fmt.Fprintf(p.w, "      %s\n", l)
	}
}

func (p *Printer) outcomeStyle(o domain.Outcome) (string, termenv.Color) {
	switch o {
	case domain.OutcomeOK:
		return "✓", p.profile.Color("#16a34a")
	case domain.OutcomeAdvisory:
		return "⚠", p.profile.Color("#d97706")
	case domain.OutcomeFailed, domain.OutcomeFatal:
		return "✗", p.profile.Color("#dc2626")
	default:
		return "-", p.profile.Color("#6b7280")
	}
}

func position(id domain.StepID) int {
	for i, s := range domain.Steps {
		if s == id {
			return i + 1
		}
	}
	return 0
}
