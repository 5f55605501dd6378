package cli

import (
	"context"

	"github.com/aretw0/hostprep/pkg/domain"
)

// ExecuteAudit runs only the configuration audit, once or in watch mode.
// Findings never change the exit code.
func ExecuteAudit(ctx context.Context, opts Options) (int, error) {
	s, err := newSession(opts)
	if err != nil {
		return domain.ExitFatal, err
	}

	if opts.Watch {
		return domain.ExitOK, s.watchAudit(ctx)
	}

	res, err := s.runStep(ctx, domain.StepConfigAudit)
	if err != nil {
		return domain.ExitDegraded, err
	}
	if opts.JSON {
		return domain.ExitOK, writeJSON(opts.stdout(), res)
	}
	s.printer.StepResult(res)
	return domain.ExitOK, nil
}

// ExecuteDevices runs only the device enumeration.
func ExecuteDevices(ctx context.Context, opts Options) (int, error) {
	s, err := newSession(opts)
	if err != nil {
		return domain.ExitFatal, err
	}

	res, err := s.runStep(ctx, domain.StepDevices)
	if err != nil {
		return domain.ExitDegraded, err
	}
	if opts.JSON {
		return domain.ExitOK, writeJSON(opts.stdout(), res)
	}
	s.printer.StepResult(res)
	return domain.ExitOK, nil
}

func (s *session) runStep(ctx context.Context, id domain.StepID) (domain.StepResult, error) {
	p, err := s.provisioner()
	if err != nil {
		return domain.StepResult{}, err
	}
	return p.RunStep(ctx, id)
}
