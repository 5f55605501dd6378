package testutils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/hostprep/pkg/ports"
	"github.com/stretchr/testify/require"
)

// FakeRunner records commands instead of executing them.
// Responses are matched by the command line prefix ("apt-get install").
type FakeRunner struct {
	mu        sync.Mutex
	Calls     []ports.Command
	responses map[string]ports.CommandResult
	// OnRun, when set, is called for every command before the response is returned.
	OnRun func(ctx context.Context, cmd ports.Command) error
}

// NewFakeRunner returns a runner that succeeds for every command unless told otherwise.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: map[string]ports.CommandResult{}}
}

// Respond makes every command whose line starts with prefix return result.
func (f *FakeRunner) Respond(prefix string, result ports.CommandResult) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[prefix] = result
	return f
}

// Run implements ports.CommandRunner.
func (f *FakeRunner) Run(ctx context.Context, cmd ports.Command) (ports.CommandResult, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	hook := f.OnRun
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, cmd); err != nil {
			return ports.CommandResult{ExitCode: -1, Err: err.Error()}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return ports.CommandResult{ExitCode: -1, Err: err.Error()}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	line := Line(cmd)
	best := ""
	for prefix := range f.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		return f.responses[best], nil
	}
	return ports.CommandResult{}, nil
}

// Lines returns every recorded command as a single line, in call order.
func (f *FakeRunner) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = Line(c)
	}
	return lines
}

// Line joins the command name (base name only) and its arguments.
func Line(cmd ports.Command) string {
	return strings.TrimSpace(filepath.Base(cmd.Name) + " " + strings.Join(cmd.Args, " "))
}

// FakeLookup resolves only the executables it was given.
type FakeLookup map[string]string

// NewFakeLookup returns a lookup that knows the given names under /usr/bin.
func NewFakeLookup(names ...string) FakeLookup {
	l := FakeLookup{}
	for _, n := range names {
		l[n] = "/usr/bin/" + n
	}
	return l
}

// LookPath implements ports.PathLookup.
func (l FakeLookup) LookPath(name string) (string, error) {
	if path, ok := l[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// WriteFile creates dir/rel with content, creating parent directories.
// It fails the test immediately on error.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "Failed to create parent dir")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", rel)
	return path
}
