package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepStart   EventType = "step_start"
	EventStepFinish  EventType = "step_finish"
	EventCommandRun  EventType = "command_run"
	EventCommandDone EventType = "command_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// StepEvent represents entry into or exit from a provisioning step.
type StepEvent struct {
	EventBase
	Step     StepID        `json:"step"`
	Outcome  Outcome       `json:"outcome,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Findings []Finding     `json:"findings,omitempty"`
}

// CommandEvent represents one external command executed by a step.
type CommandEvent struct {
	EventBase
	Step     StepID   `json:"step"`
	Command  string   `json:"command"`
	Args     []string `json:"args,omitempty"`
	ExitCode int      `json:"exit_code"`
	Err      string   `json:"err,omitempty"`
}

// LifecycleHooks defines callbacks for provisioner observability.
type LifecycleHooks struct {
	OnStepStart   func(context.Context, *StepEvent)
	OnStepFinish  func(context.Context, *StepEvent)
	OnCommandRun  func(context.Context, *CommandEvent)
	OnCommandDone func(context.Context, *CommandEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepStart:   chainStep(h.OnStepStart, other.OnStepStart),
		OnStepFinish:  chainStep(h.OnStepFinish, other.OnStepFinish),
		OnCommandRun:  chainCommand(h.OnCommandRun, other.OnCommandRun),
		OnCommandDone: chainCommand(h.OnCommandDone, other.OnCommandDone),
	}
}

func chainStep(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainCommand(a, b func(context.Context, *CommandEvent)) func(context.Context, *CommandEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *CommandEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
