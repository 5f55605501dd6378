package provision

import (
	"log/slog"
	"time"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/ports"
)

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRunner sets the command runner. Defaults to a local process runner.
func WithRunner(r ports.CommandRunner) Option {
	return func(p *Provisioner) {
		p.runner = r
	}
}

// WithLookup sets how executables are resolved. Defaults to the local PATH.
func WithLookup(l ports.PathLookup) Option {
	return func(p *Provisioner) {
		p.lookup = l
	}
}

// WithDir sets the working directory that relative plan paths are resolved against.
func WithDir(dir string) Option {
	return func(p *Provisioner) {
		p.dir = dir
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(p *Provisioner) {
		p.hooks = p.hooks.Merge(h)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provisioner) {
		p.logger = logger
	}
}

// WithDeviceLister makes the device step ask the audio library directly
// instead of running the listing utility.
func WithDeviceLister(l ports.DeviceLister) Option {
	return func(p *Provisioner) {
		p.devices = l
	}
}

// WithClock overrides time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(p *Provisioner) {
		p.now = now
	}
}

// WithHostname overrides the host name recorded in reports.
func WithHostname(name string) Option {
	return func(p *Provisioner) {
		p.hostname = name
	}
}

// WithIDGenerator overrides how run IDs are generated.
func WithIDGenerator(gen func() string) Option {
	return func(p *Provisioner) {
		p.newID = gen
	}
}
