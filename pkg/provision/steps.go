package provision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/hostprep/pkg/audit"
	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/ports"
)

// stderrLines bounds how much of a failed command's stderr is copied into a finding.
const stderrLines = 5

// stepRun carries the state of one step execution.
type stepRun struct {
	p     *Provisioner
	runID string
	res   *domain.StepResult
}

type stepHandler func(s *stepRun, ctx context.Context) error

func stepFunc(id domain.StepID) stepHandler {
	switch id {
	case domain.StepPlatform:
		return (*stepRun).platform
	case domain.StepInterpreter:
		return (*stepRun).interpreter
	case domain.StepSystemPackages:
		return (*stepRun).systemPackages
	case domain.StepEnvironment:
		return (*stepRun).environment
	case domain.StepDependencies:
		return (*stepRun).dependencies
	case domain.StepConfigAudit:
		return (*stepRun).configAudit
	case domain.StepDevices:
		return (*stepRun).devices
	default:
		return nil
	}
}

// exec runs one command, firing the command hooks around it.
// The returned error is non-nil only when ctx itself was cancelled;
// a per-command timeout is reported as a failed result.
func (s *stepRun) exec(ctx context.Context, name string, args ...string) (ports.CommandResult, error) {
	return s.run(ctx, ports.Command{Name: name, Args: args})
}

// run is exec for a prepared command. An empty Dir defaults to the working directory.
func (s *stepRun) run(ctx context.Context, cmd ports.Command) (ports.CommandResult, error) {
	p := s.p
	if cmd.Dir == "" {
		cmd.Dir = p.dir
	}
	name, args := cmd.Name, cmd.Args

	if p.hooks.OnCommandRun != nil {
		p.hooks.OnCommandRun(ctx, &domain.CommandEvent{
			EventBase: domain.EventBase{Timestamp: p.now(), Type: domain.EventCommandRun, RunID: s.runID},
			Step:      s.res.Step,
			Command:   name,
			Args:      args,
		})
	}

	result, err := p.runner.Run(ctx, cmd)
	if err != nil && ctx.Err() == nil {
		if result.Err == "" {
			result.Err = fmt.Sprintf("command did not finish: %v", err)
		}
		if result.ExitCode == 0 {
			result.ExitCode = -1
		}
		err = nil
	}

	if p.hooks.OnCommandDone != nil {
		p.hooks.OnCommandDone(ctx, &domain.CommandEvent{
			EventBase: domain.EventBase{Timestamp: p.now(), Type: domain.EventCommandDone, RunID: s.runID},
			Step:      s.res.Step,
			Command:   name,
			Args:      args,
			ExitCode:  result.ExitCode,
			Err:       result.Err,
		})
	}

	p.logger.Debug("Command finished", "step", s.res.Step, "command", name, "exit_code", result.ExitCode)
	return result, err
}

// failCommand records a failed command on the step.
func (s *stepRun) failCommand(name string, args []string, result ports.CommandResult) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	reason := fmt.Sprintf("exit code %d", result.ExitCode)
	if result.Err != "" {
		reason = result.Err
	}
	if tail := lastLines(result.Stderr, stderrLines); tail != "" {
		s.res.Fail(name, "%s failed (%s):\n%s", line, reason, tail)
		return
	}
	s.res.Fail(name, "%s failed (%s)", line, reason)
}

func (s *stepRun) platform(_ context.Context) error {
	cfg := s.p.plan.Platform
	if cfg.Vendor == "" {
		s.res.Info("platform", "No platform vendor configured; check skipped")
		return nil
	}

	for _, path := range cfg.ModelPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		model := strings.TrimSpace(string(bytes.TrimRight(data, "\x00")))
		if strings.Contains(model, cfg.Vendor) {
			s.res.Info(path, "Detected %s", model)
			return nil
		}
	}

	s.res.Advise("platform", "This host does not appear to be a %s; continuing anyway", cfg.Vendor)
	return nil
}

func (s *stepRun) interpreter(_ context.Context) error {
	name := s.p.plan.Interpreter.Command
	path, err := s.p.lookup.LookPath(name)
	if err != nil {
		s.res.Fatal(name, "%s is required but was not found on PATH", name)
		return nil
	}
	s.res.Info(name, "Found %s at %s", name, path)
	return nil
}

func (s *stepRun) systemPackages(ctx context.Context) error {
	cfg := s.p.plan.SystemPackages
	if len(cfg.Packages) == 0 {
		s.res.Info("system_packages", "No system packages listed")
		return nil
	}

	if cfg.Update {
		name, args := cfg.UpdateCommand()
		result, err := s.exec(ctx, name, args...)
		if err != nil {
			return err
		}
		if result.Failed() {
			s.failCommand(name, args, result)
		}
	}

	name, args := cfg.InstallCommand()
	result, err := s.exec(ctx, name, args...)
	if err != nil {
		return err
	}
	if result.Failed() {
		s.failCommand(name, args, result)
		return nil
	}
	s.res.Info(cfg.Manager, "Installed %d system packages", len(cfg.Packages))
	return nil
}

func (s *stepRun) environment(ctx context.Context) error {
	p := s.p
	cfg := p.plan.Environment
	target := p.path(cfg.Path)

	if _, err := os.Lstat(target); err == nil {
		if err := os.RemoveAll(target); err != nil {
			s.res.Fail(cfg.Path, "Failed to remove existing environment %s: %v", cfg.Path, err)
			return nil
		}
		s.res.Info(cfg.Path, "Removed existing environment %s", cfg.Path)
	}

	name := p.plan.Interpreter.Command
	args := []string{"-m", "venv"}
	if cfg.SystemSitePackages {
		args = append(args, "--system-site-packages")
	}
	args = append(args, cfg.Path)

	result, err := s.exec(ctx, name, args...)
	if err != nil {
		return err
	}
	if result.Failed() {
		s.failCommand(name, args, result)
		return nil
	}
	s.res.Info(cfg.Path, "Created environment %s", cfg.Path)
	return nil
}

func (s *stepRun) dependencies(ctx context.Context) error {
	p := s.p
	cfg := p.plan.Dependencies

	if _, err := os.Stat(p.path(cfg.Manifest)); err != nil {
		s.res.Fail(cfg.Manifest, "Dependency manifest %s not found", cfg.Manifest)
		return nil
	}

	pip, err := filepath.Abs(filepath.Join(p.path(p.plan.Environment.Path), "bin", "pip"))
	if err != nil {
		s.res.Fail("pip", "Failed to resolve pip: %v", err)
		return nil
	}

	if cfg.UpgradeInstaller {
		args := []string{"install", "--upgrade", "pip"}
		result, err := s.exec(ctx, pip, args...)
		if err != nil {
			return err
		}
		if result.Failed() {
			s.failCommand("pip", args, result)
		}
	}

	args := []string{"install", "-r", cfg.Manifest}
	result, err := s.exec(ctx, pip, args...)
	if err != nil {
		return err
	}
	if result.Failed() {
		s.failCommand("pip", args, result)
		return nil
	}
	s.res.Info(cfg.Manifest, "Installed dependencies from %s", cfg.Manifest)
	return nil
}

func (s *stepRun) configAudit(_ context.Context) error {
	audited := audit.Run(s.p.plan.Audit, s.p.dir)
	s.res.Outcome = audited.Outcome
	s.res.Findings = append(s.res.Findings, audited.Findings...)
	return nil
}

func (s *stepRun) devices(ctx context.Context) error {
	if s.p.devices != nil {
		found, err := s.p.devices.ListInputDevices(ctx)
		switch {
		case err == nil:
			s.recordDevices(found)
			return nil
		case errors.Is(err, domain.ErrNativeAudioUnavailable):
			s.p.logger.Debug("Native device listing unavailable, using listing utility")
		default:
			s.res.Advise("audio", "Could not list audio devices: %v", err)
			return nil
		}
	}

	cfg := s.p.plan.Devices
	if _, err := s.p.lookup.LookPath(cfg.Command); err != nil {
		s.res.Advise(cfg.Command, "%s not found; cannot list audio devices", cfg.Command)
		return nil
	}

	// The listing is printed from the step result, so keep it out of the live mirror
	result, err := s.run(ctx, ports.Command{Name: cfg.Command, Args: cfg.Args, Quiet: true})
	if err != nil {
		return err
	}
	if result.Failed() {
		s.res.Advise(cfg.Command, "%s exited with code %d: %s", cfg.Command, result.ExitCode, lastLines(result.Stderr, 1))
		return nil
	}
	s.res.Output = result.Stdout
	if strings.TrimSpace(result.Stdout) == "" {
		s.res.Advise(cfg.Command, "No audio capture devices reported")
	}
	return nil
}

func (s *stepRun) recordDevices(found []domain.AudioDevice) {
	if len(found) == 0 {
		s.res.Advise("audio", "No audio input devices found")
		return
	}
	var b strings.Builder
	for _, d := range found {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	s.res.Output = b.String()
}

func lastLines(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
