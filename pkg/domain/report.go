package domain

import "time"

// RunStatus summarizes a whole run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusSucceeded RunStatus = "succeeded" // Every step was ok or advisory
	StatusDegraded  RunStatus = "degraded"  // At least one step failed; the host may be half-configured
	StatusAborted   RunStatus = "aborted"   // A fatal prerequisite stopped the run
	StatusCancelled RunStatus = "cancelled"
)

// Exit codes reported by the CLI.
const (
	ExitOK       = 0
	ExitFatal    = 1
	ExitDegraded = 2
)

// Report is the persisted record of one provisioning run.
type Report struct {
	ID         string       `json:"id"`
	Host       string       `json:"host"`
	Plan       string       `json:"plan"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Status     RunStatus    `json:"status"`
	ExitCode   int          `json:"exit_code"`
	Steps      []StepResult `json:"steps"`
}

// NewReport creates an empty running report.
func NewReport(id, host, plan string, now time.Time) *Report {
	return &Report{
		ID:        id,
		Host:      host,
		Plan:      plan,
		StartedAt: now,
		Status:    StatusRunning,
	}
}

// Step returns the result for the given step, or nil if it was not recorded.
func (r *Report) Step(id StepID) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Step == id {
			return &r.Steps[i]
		}
	}
	return nil
}

// Findings returns every finding across all steps, in step order.
func (r *Report) Findings() []Finding {
	var out []Finding
	for _, s := range r.Steps {
		out = append(out, s.Findings...)
	}
	return out
}

// Count returns the number of findings with the given severity across all steps.
func (r *Report) Count(sev Severity) int {
	n := 0
	for i := range r.Steps {
		n += r.Steps[i].Count(sev)
	}
	return n
}

// Finish derives the overall status and exit code from the recorded steps.
func (r *Report) Finish(now time.Time) {
	r.FinishedAt = now
	if r.Status == StatusCancelled {
		r.ExitCode = ExitDegraded
		return
	}

	r.Status = StatusSucceeded
	r.ExitCode = ExitOK
	for _, s := range r.Steps {
		switch s.Outcome {
		case OutcomeFatal:
			r.Status = StatusAborted
			r.ExitCode = ExitFatal
			return
		case OutcomeFailed:
			r.Status = StatusDegraded
			r.ExitCode = ExitDegraded
		}
	}
}
