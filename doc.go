/*
Package hostprep prepares a single host, normally a Raspberry Pi, to run the JARVIS voice assistant.

It replaces a best-effort installer script with a checklist runner that records what happened.
A run executes a fixed list of steps described by a Plan:

  - Platform check: warns when the host is not the expected board.
  - Interpreter check: stops the run when python3 is missing. This is the only fatal step.
  - System packages: installs audio and linear-algebra libraries with the OS package manager.
  - Environment setup: recreates the Python virtual environment from scratch.
  - Dependency installation: upgrades pip and installs requirements.txt into the environment.
  - Configuration audit: flags credentials that still hold their placeholder values.
  - Device enumeration: lists microphones with arecord, or PortAudio when built with -tags portaudio.

# Failure semantics

Advisories (wrong platform, placeholder credentials, missing listing utility) never change the outcome.
A failed command marks its step failed, and steps that need it are skipped.
The run then finishes "degraded" with exit code 2 instead of pretending to succeed.
A missing interpreter aborts with exit code 1.

# Usage

The library entry point is package provision:

	p := provision.New(plan.Default(), provision.WithDir("/home/pi/jarvis"))
	report, err := p.Run(ctx)
	if errors.Is(err, domain.ErrPrerequisiteMissing) {
		// python3 is not installed; nothing was changed
	}
	fmt.Println(report.Status, report.ExitCode)

The hostprep command wraps this with report persistence (files or Redis), Prometheus metrics,
a status server and an audit watch mode. See cmd/hostprep.
*/
package hostprep
