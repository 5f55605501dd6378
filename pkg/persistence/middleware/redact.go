package middleware

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/ports"
)

// Mask replaces every redacted value.
const Mask = "***"

// DefaultSecretPatterns match credentials that commonly leak into pip and apt output.
// The first and second capture groups, when present, are kept around the mask.
var DefaultSecretPatterns = []string{
	// user:password@ in index URLs
	`(://[^:/\s@]+:)[^@\s]+(@)`,
	// KEY=value assignments
	`(?i)((?:api[_-]?key|access[_-]?key|token|secret|password)\s*[=:]\s*"?)[^\s"]+`,
	// Groq keys
	`gsk_[A-Za-z0-9]{16,}`,
}

type redactMiddleware struct {
	next     ports.ReportStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks secrets in finding messages and command output.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ReportStore) ports.ReportStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, report *domain.Report) error {
	// Clone so the caller's report is untouched
	return m.next.Save(ctx, rewrite(report, m.redact))
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*domain.Report, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) redact(s string) string {
	for _, p := range m.patterns {
		repl := Mask
		switch n := p.NumSubexp(); {
		case n >= 2:
			repl = "${1}" + Mask + "${2}"
		case n == 1:
			repl = "${1}" + Mask
		}
		s = p.ReplaceAllString(s, repl)
	}
	return s
}

type sanitizeMiddleware struct {
	next ports.ReportStore
}

// NewSanitizeMiddleware strips terminal escape sequences and control characters
// (except newline and tab) from captured text, so stored reports render safely.
func NewSanitizeMiddleware() Middleware {
	return func(next ports.ReportStore) ports.ReportStore {
		return &sanitizeMiddleware{next: next}
	}
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07`)

func (m *sanitizeMiddleware) Save(ctx context.Context, report *domain.Report) error {
	return m.next.Save(ctx, rewrite(report, Sanitize))
}

func (m *sanitizeMiddleware) Load(ctx context.Context, id string) (*domain.Report, error) {
	return m.next.Load(ctx, id)
}

func (m *sanitizeMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *sanitizeMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Sanitize removes ANSI sequences and unsafe control characters from s.
func Sanitize(s string) string {
	s = ansiEscape.ReplaceAllString(s, "")
	// Progress bars redraw with \r; keep only what the last redraw left
	if strings.ContainsRune(s, '\r') {
		lines := strings.Split(s, "\n")
		for i, l := range lines {
			if idx := strings.LastIndexByte(strings.TrimRight(l, "\r"), '\r'); idx >= 0 {
				l = l[idx+1:]
			}
			lines[i] = strings.TrimRight(l, "\r")
		}
		s = strings.Join(lines, "\n")
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// rewrite returns a copy of report with fn applied to every message and output.
func rewrite(report *domain.Report, fn func(string) string) *domain.Report {
	cloned := *report
	cloned.Steps = make([]domain.StepResult, len(report.Steps))
	for i, s := range report.Steps {
		s.Output = fn(s.Output)
		findings := make([]domain.Finding, len(s.Findings))
		for j, f := range s.Findings {
			f.Message = fn(f.Message)
			findings[j] = f
		}
		if s.Findings == nil {
			findings = nil
		}
		s.Findings = findings
		cloned.Steps[i] = s
	}
	return &cloned
}
