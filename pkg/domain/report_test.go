package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestReport_Finish(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		outcomes []domain.Outcome
		status   domain.RunStatus
		exitCode int
	}{
		{"all ok", []domain.Outcome{domain.OutcomeOK, domain.OutcomeOK}, domain.StatusSucceeded, domain.ExitOK},
		{"advisories only", []domain.Outcome{domain.OutcomeAdvisory, domain.OutcomeOK}, domain.StatusSucceeded, domain.ExitOK},
		{"failed step", []domain.Outcome{domain.OutcomeOK, domain.OutcomeFailed, domain.OutcomeSkipped}, domain.StatusDegraded, domain.ExitDegraded},
		{"fatal wins over failed", []domain.Outcome{domain.OutcomeFailed, domain.OutcomeFatal}, domain.StatusAborted, domain.ExitFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.NewReport("r1", "pi", "jarvis", now)
			for i, o := range tt.outcomes {
				r.Steps = append(r.Steps, domain.StepResult{Step: domain.Steps[i], Outcome: o})
			}
			r.Finish(now.Add(time.Second))

			assert.Equal(t, tt.status, r.Status)
			assert.Equal(t, tt.exitCode, r.ExitCode)
			assert.Equal(t, now.Add(time.Second), r.FinishedAt)
		})
	}
}

func TestReport_FinishCancelled(t *testing.T) {
	r := domain.NewReport("r1", "pi", "jarvis", time.Now())
	r.Status = domain.StatusCancelled
	r.Finish(time.Now())

	assert.Equal(t, domain.StatusCancelled, r.Status)
	assert.Equal(t, domain.ExitDegraded, r.ExitCode)
}

func TestStepResult_Findings(t *testing.T) {
	res := domain.StepResult{Step: domain.StepConfigAudit, Outcome: domain.OutcomeOK}

	res.Info("", "scanned %d sentinels", 3)
	assert.Equal(t, domain.OutcomeOK, res.Outcome)

	res.Advise("Groq API key", "Groq API key is not configured")
	assert.Equal(t, domain.OutcomeAdvisory, res.Outcome)

	res.Fail("jarvis/config.py", "cannot read")
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)

	// An advisory never upgrades a failed step.
	res.Advise("x", "y")
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)

	assert.Equal(t, 2, res.Count(domain.SeverityAdvisory))
	assert.Equal(t, 1, res.Count(domain.SeverityError))
	assert.Equal(t, "scanned 3 sentinels", res.Findings[0].Message)
	assert.Equal(t, domain.StepConfigAudit, res.Findings[1].Step)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnStepStart: func(context.Context, *domain.StepEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnStepStart:  func(context.Context, *domain.StepEvent) { calls = append(calls, "b") },
		OnCommandRun: func(context.Context, *domain.CommandEvent) { calls = append(calls, "cmd") },
	}

	merged := a.Merge(b)
	merged.OnStepStart(context.Background(), &domain.StepEvent{})
	merged.OnCommandRun(context.Background(), &domain.CommandEvent{})

	assert.Equal(t, []string{"a", "b", "cmd"}, calls)
	assert.Nil(t, merged.OnStepFinish)
}
