package provision

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/hostprep/pkg/adapters/process"
	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/plan"
	"github.com/aretw0/hostprep/pkg/ports"
	"github.com/google/uuid"
)

// requires lists, per step, the steps that must have completed for it to be attempted.
var requires = map[domain.StepID][]domain.StepID{
	domain.StepDependencies: {domain.StepEnvironment},
}

// Provisioner executes a plan against the local host.
type Provisioner struct {
	plan     *plan.Plan
	dir      string
	runner   ports.CommandRunner
	lookup   ports.PathLookup
	devices  ports.DeviceLister
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
	hostname string
	newID    func() string
}

// New creates a Provisioner for p.
func New(p *plan.Plan, opts ...Option) *Provisioner {
	pr := &Provisioner{
		plan:   p,
		dir:    ".",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(pr)
	}

	if pr.runner == nil || pr.lookup == nil {
		local := process.NewRunner(process.WithBaseDir(pr.dir))
		if pr.runner == nil {
			pr.runner = local
		}
		if pr.lookup == nil {
			pr.lookup = local
		}
	}
	if pr.hostname == "" {
		if name, err := os.Hostname(); err == nil {
			pr.hostname = name
		}
	}
	return pr
}

// Plan returns the plan being executed.
func (p *Provisioner) Plan() *plan.Plan {
	return p.plan
}

// Run executes every step and returns the finished report.
//
// The report is always returned, even alongside an error. The error wraps
// domain.ErrPrerequisiteMissing when the interpreter is absent, or the
// context error when the run was interrupted.
func (p *Provisioner) Run(ctx context.Context) (*domain.Report, error) {
	report := domain.NewReport(p.newID(), p.hostname, p.plan.Name, p.now())
	p.logger.Info("Provisioning started", "run_id", report.ID, "plan", report.Plan, "dir", p.dir)

	var runErr error
	for _, id := range domain.Steps {
		if runErr != nil {
			report.Steps = append(report.Steps, p.skipped(id, "run stopped before this step"))
			continue
		}

		if err := ctx.Err(); err != nil {
			report.Status = domain.StatusCancelled
			runErr = fmt.Errorf("provisioning interrupted: %w", err)
			report.Steps = append(report.Steps, p.skipped(id, "run stopped before this step"))
			continue
		}

		if blocker := blockedBy(report, id); blocker != "" {
			report.Steps = append(report.Steps, p.skipped(id, fmt.Sprintf("%s did not complete", blocker.Title())))
			continue
		}

		res, err := p.execute(ctx, report.ID, id)
		report.Steps = append(report.Steps, res)

		switch {
		case err != nil:
			report.Status = domain.StatusCancelled
			runErr = fmt.Errorf("%s interrupted: %w", id.Title(), err)
		case res.Outcome == domain.OutcomeFatal:
			runErr = fmt.Errorf("%s: %w", lastMessage(res), domain.ErrPrerequisiteMissing)
		}
	}

	report.Finish(p.now())
	p.logger.Info("Provisioning finished",
		"run_id", report.ID,
		"status", report.Status,
		"exit_code", report.ExitCode,
		"advisories", report.Count(domain.SeverityAdvisory),
	)
	return report, runErr
}

// RunStep executes a single step outside of a full run.
// Prerequisites of the step are not checked.
func (p *Provisioner) RunStep(ctx context.Context, id domain.StepID) (domain.StepResult, error) {
	if stepFunc(id) == nil {
		return domain.StepResult{}, fmt.Errorf("unknown step %q", id)
	}
	return p.execute(ctx, "", id)
}

func (p *Provisioner) execute(ctx context.Context, runID string, id domain.StepID) (domain.StepResult, error) {
	res := domain.StepResult{Step: id, StartedAt: p.now()}

	if p.hooks.OnStepStart != nil {
		p.hooks.OnStepStart(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: res.StartedAt, Type: domain.EventStepStart, RunID: runID},
			Step:      id,
		})
	}

	s := &stepRun{p: p, runID: runID, res: &res}
	err := stepFunc(id)(s, ctx)
	if err != nil {
		res.Fail(string(id), "Interrupted: %v", err)
	}
	if res.Outcome == "" {
		res.Outcome = domain.OutcomeOK
	}
	res.Duration = p.now().Sub(res.StartedAt)

	if p.hooks.OnStepFinish != nil {
		p.hooks.OnStepFinish(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: p.now(), Type: domain.EventStepFinish, RunID: runID},
			Step:      id,
			Outcome:   res.Outcome,
			Duration:  res.Duration,
			Findings:  res.Findings,
		})
	}

	p.logger.Debug("Step finished", "step", id, "outcome", res.Outcome, "duration", res.Duration)
	return res, err
}

func (p *Provisioner) skipped(id domain.StepID, reason string) domain.StepResult {
	res := domain.StepResult{Step: id, Outcome: domain.OutcomeSkipped, StartedAt: p.now()}
	res.Info(string(id), "Skipped: %s", reason)
	return res
}

// blockedBy returns the first required step that did not complete, or "".
func blockedBy(report *domain.Report, id domain.StepID) domain.StepID {
	for _, dep := range requires[id] {
		res := report.Step(dep)
		if res == nil {
			return dep
		}
		if res.Outcome != domain.OutcomeOK && res.Outcome != domain.OutcomeAdvisory {
			return dep
		}
	}
	return ""
}

func lastMessage(res domain.StepResult) string {
	if len(res.Findings) == 0 {
		return string(res.Step)
	}
	return res.Findings[len(res.Findings)-1].Message
}

func (p *Provisioner) path(rel string) string {
	return resolve(p.dir, rel)
}
