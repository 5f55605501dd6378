package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// debounce groups the burst of events an editor produces on save.
const debounce = 200 * time.Millisecond

// watchAudit re-runs the audit whenever the configuration or env file changes.
// It returns when ctx is cancelled.
func (s *session) watchAudit(ctx context.Context) error {
	targets := s.watchTargets()
	if len(targets) == 0 {
		return fmt.Errorf("nothing to watch: no configuration or env file in plan")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories, not files: editors replace files on save
	dirs := map[string]bool{}
	for path := range targets {
		dirs[filepath.Dir(path)] = true
	}
	watched := 0
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			s.logger.Warn("Cannot watch directory", "dir", dir, "err", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("none of the audited files' directories can be watched")
	}

	out := s.opts.stdout()
	audit := func() {
		res, err := s.runStep(ctx, domain.StepConfigAudit)
		if err != nil {
			return
		}
		s.printer.StepResult(res)
		printSystemMessage(out, "Waiting for changes...")
	}

	s.logger.Info("Starting Watcher", "files", len(targets))
	audit()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping watcher (signal received)")
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", "err", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, targets) {
				continue
			}
			s.logger.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			printSystemMessage(out, "Change detected, re-running audit.")
			audit()
		}
	}
}

// watchTargets returns the absolute paths of the files the audit reads.
func (s *session) watchTargets() map[string]bool {
	targets := map[string]bool{}
	for _, rel := range []string{s.plan.Audit.ConfigFile, s.plan.Audit.EnvFile} {
		if rel == "" {
			continue
		}
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.opts.Dir, rel)
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		targets[path] = true
	}
	return targets
}

func relevant(event fsnotify.Event, targets map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return targets[path]
}
