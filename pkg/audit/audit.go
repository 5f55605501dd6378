// Package audit checks the assistant's configuration for credentials that were never filled in.
package audit

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/plan"
	"github.com/joho/godotenv"
)

// Match is a sentinel found in the configuration file.
type Match struct {
	Sentinel plan.Sentinel
	Line     int
}

// Scan returns every sentinel contained in content, in sentinel order.
// It is a literal substring check; the content is never parsed.
func Scan(content []byte, sentinels []plan.Sentinel) []Match {
	var matches []Match
	for _, s := range sentinels {
		if s.Value == "" {
			continue
		}
		idx := bytes.Index(content, []byte(s.Value))
		if idx < 0 {
			continue
		}
		matches = append(matches, Match{
			Sentinel: s,
			Line:     bytes.Count(content[:idx], []byte("\n")) + 1,
		})
	}
	return matches
}

// ScanFile reads path and scans it. A missing file returns an error wrapping fs.ErrNotExist.
func ScanFile(path string, sentinels []plan.Sentinel) ([]Match, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	return Scan(content, sentinels), nil
}

// EnvIssue is a dotenv key that does not hold a usable value.
type EnvIssue struct {
	Key    string
	Reason string
}

// CheckEnvFile parses a dotenv file and reports keys that are missing, empty or still placeholders.
func CheckEnvFile(path string, keys []string, sentinels []plan.Sentinel) ([]EnvIssue, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file: %w", err)
	}

	var issues []EnvIssue
	for _, key := range keys {
		val, ok := values[key]
		switch {
		case !ok:
			issues = append(issues, EnvIssue{Key: key, Reason: "is not set"})
		case strings.TrimSpace(val) == "":
			issues = append(issues, EnvIssue{Key: key, Reason: "is empty"})
		case isPlaceholder(val, sentinels):
			issues = append(issues, EnvIssue{Key: key, Reason: "still holds a placeholder value"})
		}
	}
	return issues, nil
}

func isPlaceholder(val string, sentinels []plan.Sentinel) bool {
	for _, s := range sentinels {
		if s.Value != "" && strings.EqualFold(strings.TrimSpace(val), s.Value) {
			return true
		}
	}
	return false
}

// Run performs the configuration audit for a working directory and returns the step result.
// Every finding is advisory: the audit never fails a run.
func Run(cfg plan.AuditSpec, dir string) domain.StepResult {
	res := domain.StepResult{
		Step:      domain.StepConfigAudit,
		Outcome:   domain.OutcomeOK,
		StartedAt: time.Now(),
	}

	if cfg.ConfigFile != "" {
		path := resolve(dir, cfg.ConfigFile)
		matches, err := ScanFile(path, cfg.Sentinels)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			res.Advise(cfg.ConfigFile, "Configuration file %s not found; credentials were not checked", cfg.ConfigFile)
		case err != nil:
			res.Advise(cfg.ConfigFile, "Configuration file %s could not be read: %v", cfg.ConfigFile, err)
		default:
			for _, m := range matches {
				name := m.Sentinel.Credential
				if name == "" {
					name = m.Sentinel.Value
				}
				res.Advise(name, "%s is not configured (placeholder found in %s line %d)", name, cfg.ConfigFile, m.Line)
			}
		}
	}

	if cfg.EnvFile != "" && len(cfg.EnvKeys) > 0 {
		path := resolve(dir, cfg.EnvFile)
		if _, err := os.Stat(path); err == nil {
			issues, err := CheckEnvFile(path, cfg.EnvKeys, cfg.Sentinels)
			if err != nil {
				res.Advise(cfg.EnvFile, "Env file %s could not be parsed: %v", cfg.EnvFile, err)
			}
			for _, issue := range issues {
				res.Advise(issue.Key, "%s %s in %s", issue.Key, issue.Reason, cfg.EnvFile)
			}
		}
	}

	res.Duration = time.Since(res.StartedAt)
	return res
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
