package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/aretw0/hostprep/internal/logging"
	"github.com/aretw0/hostprep/pkg/adapters/file"
	"github.com/aretw0/hostprep/pkg/adapters/redis"
	"github.com/aretw0/hostprep/pkg/persistence/middleware"
	"github.com/aretw0/hostprep/pkg/plan"
	"github.com/aretw0/hostprep/pkg/ports"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout operator output).
func createLogger(opts Options) (*slog.Logger, error) {
	format, err := logging.ParseFormat(opts.LogFormat)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		return logging.NewWithWriter(os.Stderr, slog.LevelDebug, format), nil
	}
	return logging.NewNop(), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// loadPlan resolves, overrides and validates the plan for opts.
func loadPlan(opts Options, logger *slog.Logger) (*plan.Plan, error) {
	p, source, err := plan.Resolve(opts.Dir, opts.PlanPath)
	if err != nil {
		return nil, err
	}
	if err := plan.Override(p, opts.Sets); err != nil {
		return nil, err
	}
	if err := plan.Validate(p); err != nil {
		return nil, err
	}
	logger.Debug("Plan loaded", "source", source, "name", p.Name, "overrides", len(opts.Sets))
	return p, nil
}

// openStore returns the report store selected by opts and a function that releases it.
// Saved reports are sanitized and have credentials masked.
// The redis store is also returned so callers can take the host lock on the same connection.
func openStore(opts Options) (ports.ReportStore, *redis.Store, func(), error) {
	if opts.RedisURL != "" {
		store, err := redis.NewFromURL(opts.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return protect(store), store, func() { _ = store.Close() }, nil
	}

	dir := opts.ReportsDir
	if dir == "" {
		dir = file.DefaultDir
		if opts.Dir != "" {
			dir = filepath.Join(opts.Dir, file.DefaultDir)
		}
	}
	return protect(file.New(dir)), nil, func() {}, nil
}

func protect(store ports.ReportStore) ports.ReportStore {
	return middleware.Chain(store,
		middleware.NewSanitizeMiddleware(),
		middleware.NewRedactMiddleware(middleware.DefaultSecretPatterns),
	)
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
