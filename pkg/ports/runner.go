package ports

import "context"

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the runner's base directory.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
	// Quiet keeps the output out of any live mirror. It is still captured.
	Quiet bool
}

// CommandResult is the captured outcome of a Command.
// A command that ran and exited non-zero is a result, not an error.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Err describes a failure to start the process (e.g. executable not found).
	Err string
}

// Failed reports whether the command did not complete successfully.
func (r CommandResult) Failed() bool {
	return r.ExitCode != 0 || r.Err != ""
}

// CommandRunner executes external commands.
type CommandRunner interface {
	// Run executes cmd and blocks until it exits.
	// It returns a Go error only when ctx is cancelled or expires.
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}

// PathLookup resolves executables on the search path.
type PathLookup interface {
	// LookPath returns the resolved path of name, or an error if it cannot be found.
	LookPath(name string) (string, error)
}
