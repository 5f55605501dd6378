package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/hostprep"
	"github.com/aretw0/hostprep/internal/presentation/tui"
	"github.com/aretw0/hostprep/pkg/adapters/audio"
	"github.com/aretw0/hostprep/pkg/adapters/process"
	"github.com/aretw0/hostprep/pkg/adapters/redis"
	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/observability"
	"github.com/aretw0/hostprep/pkg/plan"
	"github.com/aretw0/hostprep/pkg/provision"
)

// lockTTL bounds how long a crashed run can keep a host locked.
// A live run renews the lock, so long installs are not cut short.
const lockTTL = 2 * time.Minute

// Options contains the configuration shared by every command.
type Options struct {
	Dir        string
	PlanPath   string
	Sets       []string
	Debug      bool
	LogFormat  string
	ReportsDir string
	RedisURL   string

	JSON        bool
	MetricsFile string
	NoBanner    bool
	Verbose     bool
	Native      bool
	Watch       bool

	// Stdout receives operator output. Defaults to os.Stdout.
	Stdout io.Writer
	// Stderr receives command output in --json mode and diagnostics. Defaults to os.Stderr.
	Stderr io.Writer
}

func (o Options) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

func (o Options) stderr() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}

// session bundles what every provisioning command needs.
type session struct {
	opts    Options
	logger  *slog.Logger
	plan    *plan.Plan
	printer *tui.Printer
}

func newSession(opts Options) (*session, error) {
	logger, err := createLogger(opts)
	if err != nil {
		return nil, err
	}
	p, err := loadPlan(opts, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		opts:    opts,
		logger:  logger,
		plan:    p,
		printer: tui.NewPrinter(opts.stdout(), opts.Verbose || opts.Debug),
	}, nil
}

// provisioner builds a Provisioner wired to the local host.
func (s *session) provisioner(extra ...provision.Option) (*provision.Provisioner, error) {
	timeout, err := s.plan.Timeout()
	if err != nil {
		return nil, err
	}

	// Mirror package manager and pip output live; keep stdout clean for --json
	mirror := s.opts.stdout()
	if s.opts.JSON {
		mirror = s.opts.stderr()
	}
	runner := process.NewRunner(
		process.WithBaseDir(s.opts.Dir),
		process.WithTimeout(timeout),
		process.WithOutput(mirror),
	)

	opts := []provision.Option{
		provision.WithDir(s.opts.Dir),
		provision.WithRunner(runner),
		provision.WithLookup(runner),
		provision.WithLogger(s.logger),
		provision.WithHooks(observability.LogHooks(s.logger)),
	}
	if s.opts.Native {
		opts = append(opts, provision.WithDeviceLister(audio.NewLister()))
	}
	return provision.New(s.plan, append(opts, extra...)...), nil
}

// Execute runs the whole plan and returns the process exit code.
func Execute(ctx context.Context, opts Options) (int, error) {
	s, err := newSession(opts)
	if err != nil {
		return domain.ExitFatal, err
	}
	out := opts.stdout()

	if !opts.NoBanner && !opts.JSON && tui.IsTerminal(out) {
		tui.PrintBanner(out, hostprep.Version)
	}

	store, redisStore, closeStore, err := openStore(opts)
	if err != nil {
		return domain.ExitFatal, err
	}
	defer closeStore()

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks()
	if !opts.JSON {
		hooks = hooks.Merge(s.printer.Hooks())
	}

	p, err := s.provisioner(provision.WithHooks(hooks))
	if err != nil {
		return domain.ExitFatal, err
	}

	if redisStore != nil {
		unlock, err := lockHost(ctx, redisStore, s.logger, out, opts.JSON)
		if err != nil {
			return domain.ExitFatal, err
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				s.logger.Warn("Failed to release host lock", "err", err)
			}
		}()
	}

	report, runErr := p.Run(ctx)
	if runErr != nil {
		s.logger.Info("Run stopped early", "err", runErr)
	}

	if err := store.Save(context.Background(), report); err != nil {
		s.logger.Error("Failed to save report", "err", err)
		fmt.Fprintf(opts.stderr(), "warning: report not saved: %v\n", err)
	}

	metrics.RecordReport(report)
	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			fmt.Fprintf(opts.stderr(), "warning: %v\n", err)
		}
	}

	if opts.JSON {
		return report.ExitCode, writeJSON(out, report)
	}

	if isInterrupted(runErr) {
		fmt.Fprintln(out)
	}
	s.printer.Report(report)
	printSystemMessage(out, "Report %s saved.", report.ID)
	return report.ExitCode, nil
}

func lockHost(ctx context.Context, store *redis.Store, logger *slog.Logger, out io.Writer, quiet bool) (func(context.Context) error, error) {
	host, _ := os.Hostname()
	locker := redis.NewLocker(store.Client(), redis.DefaultPrefix, redis.WithOwner(fmt.Sprintf("%s:%d", host, os.Getpid())))

	// Report quickly if the host is busy, then keep waiting
	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	unlock, err := locker.Lock(waitCtx, host, lockTTL)
	cancel()
	if err == nil {
		logger.Debug("Host lock acquired", "host", host)
		return unlock, nil
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	if !quiet {
		printSystemMessage(out, "Another run holds the lock for '%s'; waiting...", host)
	}
	unlock, err = locker.Lock(ctx, host, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock host %s: %w", host, err)
	}
	return unlock, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
