package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"github.com/aretw0/hostprep/pkg/ports"
)

// Runner implements ports.CommandRunner and ports.PathLookup on the local host.
type Runner struct {
	baseDir string
	timeout time.Duration
	output  io.Writer
	env     []string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithTimeout bounds each command. Zero means no limit.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithOutput mirrors stdout and stderr of every command to w while still capturing them.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.output = w
	}
}

// WithEnv appends KEY=VALUE pairs to the environment of every command.
func WithEnv(env ...string) RunnerOption {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// NewRunner creates a new process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	_ ports.CommandRunner = (*Runner)(nil)
	_ ports.PathLookup    = (*Runner)(nil)
)

// LookPath resolves name on PATH.
func (r *Runner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes the command and captures its output.
func (r *Runner) Run(ctx context.Context, c ports.Command) (ports.CommandResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = r.baseDir
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	if len(r.env) > 0 || len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
		cmd.Env = append(cmd.Env, c.Env...)
	}
	// Give the child a moment to exit cleanly after SIGKILL on cancel
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	if r.output != nil && !c.Quiet {
		cmd.Stdout = io.MultiWriter(&stdout, r.output)
		cmd.Stderr = io.MultiWriter(&stderr, r.output)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()

	result := ports.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode < 0 {
			// Killed by a signal
			result.ExitCode = -1
			result.Err = exitErr.Error()
		}
	} else {
		result.ExitCode = -1
		result.Err = err.Error()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	return result, nil
}
