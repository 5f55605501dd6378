package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/hostprep/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer is a bytes.Buffer safe to read while the watcher writes to it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchAudit_RerunsOnChange(t *testing.T) {
	opts, _ := testOptions(t)
	out := &lockedBuffer{}
	opts.Stdout = out
	testutils.WriteFile(t, opts.Dir, "jarvis/config.py", "GROQ_API_KEY = \"gsk_configured\"\n")

	s, err := newSession(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.watchAudit(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Waiting for changes...")
	}, 5*time.Second, 20*time.Millisecond, "initial audit")
	assert.NotContains(t, out.String(), "is not configured")

	testutils.WriteFile(t, opts.Dir, "jarvis/config.py", "GROQ_API_KEY = \"your_groq_api_key_here\"\n")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Groq API key is not configured")
	}, 5*time.Second, 20*time.Millisecond, out.String())
	assert.Contains(t, out.String(), ">>> Change detected, re-running audit.")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchAudit_NothingToWatch(t *testing.T) {
	opts, _ := testOptions(t)
	s, err := newSession(opts)
	require.NoError(t, err)
	s.plan.Audit.ConfigFile = ""
	s.plan.Audit.EnvFile = ""

	err = s.watchAudit(context.Background())
	assert.ErrorContains(t, err, "nothing to watch")
}
