package domain

import (
	"fmt"
	"time"
)

// StepID identifies one of the fixed provisioning steps.
type StepID string

const (
	StepPlatform       StepID = "platform"
	StepInterpreter    StepID = "interpreter"
	StepSystemPackages StepID = "system_packages"
	StepEnvironment    StepID = "environment"
	StepDependencies   StepID = "dependencies"
	StepConfigAudit    StepID = "config_audit"
	StepDevices        StepID = "devices"
)

// Steps lists every step in execution order.
var Steps = []StepID{
	StepPlatform,
	StepInterpreter,
	StepSystemPackages,
	StepEnvironment,
	StepDependencies,
	StepConfigAudit,
	StepDevices,
}

// Title returns a human readable label for the step.
func (s StepID) Title() string {
	switch s {
	case StepPlatform:
		return "Platform check"
	case StepInterpreter:
		return "Interpreter check"
	case StepSystemPackages:
		return "System packages"
	case StepEnvironment:
		return "Environment setup"
	case StepDependencies:
		return "Dependency installation"
	case StepConfigAudit:
		return "Configuration audit"
	case StepDevices:
		return "Audio devices"
	default:
		return string(s)
	}
}

// Outcome is the terminal result of a step.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeAdvisory Outcome = "advisory" // Completed, but the operator should act on a finding
	OutcomeFailed   Outcome = "failed"   // An external command or precondition failed
	OutcomeFatal    Outcome = "fatal"    // The run cannot continue
	OutcomeSkipped  Outcome = "skipped"  // Not attempted (a required step failed)
)

// Severity classifies a Finding.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityAdvisory Severity = "advisory"
	SeverityError    Severity = "error"
	SeverityFatal    Severity = "fatal"
)

// Finding is one operator-facing message produced by a step.
type Finding struct {
	Step     StepID   `json:"step"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// Subject names what the finding is about (a credential, a path, a command).
	Subject string `json:"subject,omitempty"`
}

// StepResult captures the outcome of a single step.
type StepResult struct {
	Step      StepID        `json:"step"`
	Outcome   Outcome       `json:"outcome"`
	Findings  []Finding     `json:"findings,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	// Output holds stdout captured from commands the operator is meant to see (e.g. the device list).
	Output string `json:"output,omitempty"`
}

// Advise appends an advisory finding and downgrades an OK outcome to advisory.
func (r *StepResult) Advise(subject, format string, args ...any) {
	r.add(SeverityAdvisory, subject, format, args...)
	if r.Outcome == "" || r.Outcome == OutcomeOK {
		r.Outcome = OutcomeAdvisory
	}
}

// Fail appends an error finding and marks the step failed.
func (r *StepResult) Fail(subject, format string, args ...any) {
	r.add(SeverityError, subject, format, args...)
	if r.Outcome != OutcomeFatal {
		r.Outcome = OutcomeFailed
	}
}

// Fatal appends a fatal finding and marks the step fatal.
func (r *StepResult) Fatal(subject, format string, args ...any) {
	r.add(SeverityFatal, subject, format, args...)
	r.Outcome = OutcomeFatal
}

// Info appends an informational finding without changing the outcome.
func (r *StepResult) Info(subject, format string, args ...any) {
	r.add(SeverityInfo, subject, format, args...)
}

// Count returns the number of findings with the given severity.
func (r *StepResult) Count(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

func (r *StepResult) add(sev Severity, subject, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	r.Findings = append(r.Findings, Finding{
		Step:     r.Step,
		Severity: sev,
		Message:  msg,
		Subject:  subject,
	})
}
