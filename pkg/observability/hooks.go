package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/hostprep/pkg/domain"
)

// LogHooks returns lifecycle hooks that log every event at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "Step Start", "run_id", e.RunID, "step", e.Step)
		},
		OnStepFinish: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "Step Finish", "run_id", e.RunID, "step", e.Step, "outcome", e.Outcome, "findings", len(e.Findings))
		},
		OnCommandRun: func(ctx context.Context, e *domain.CommandEvent) {
			logger.DebugContext(ctx, "Command Run", "step", e.Step, "command", e.Command, "args", e.Args)
		},
		OnCommandDone: func(ctx context.Context, e *domain.CommandEvent) {
			if e.ExitCode != 0 || e.Err != "" {
				logger.DebugContext(ctx, "Command Done (Error)", "step", e.Step, "command", e.Command, "exit_code", e.ExitCode, "err", e.Err)
			} else {
				logger.DebugContext(ctx, "Command Done (Success)", "step", e.Step, "command", e.Command)
			}
		},
	}
}
