package observability

import (
	"context"
	"fmt"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hostprep"

// Metrics holds the provisioning collectors and the registry they live on.
type Metrics struct {
	registry *prometheus.Registry

	stepDuration *prometheus.HistogramVec
	stepOutcomes *prometheus.CounterVec
	commands     *prometheus.CounterVec
	findings     *prometheus.CounterVec
	lastExitCode prometheus.Gauge
	lastRun      prometheus.Gauge
}

// NewMetrics creates and registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of provisioning steps",
				Buckets:   []float64{0.01, 0.1, 1, 5, 15, 60, 180, 600, 1800},
			},
			[]string{"step"},
		),
		stepOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "step_outcomes_total",
				Help:      "Provisioning steps by outcome",
			},
			[]string{"step", "outcome"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "External commands executed, by step and result",
			},
			[]string{"step", "result"},
		),
		findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "findings_total",
				Help:      "Findings reported, by severity",
			},
			[]string{"severity"},
		),
		lastExitCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_exit_code",
			Help:      "Exit code of the most recent run",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent run finished",
		}),
	}

	m.registry.MustRegister(m.stepDuration, m.stepOutcomes, m.commands, m.findings, m.lastExitCode, m.lastRun)
	return m
}

// Registry exposes the underlying registry for HTTP handlers and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks that record step and command metrics as they happen.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepFinish: func(_ context.Context, e *domain.StepEvent) {
			step := string(e.Step)
			m.stepDuration.WithLabelValues(step).Observe(e.Duration.Seconds())
			m.stepOutcomes.WithLabelValues(step, string(e.Outcome)).Inc()
			for _, f := range e.Findings {
				m.findings.WithLabelValues(string(f.Severity)).Inc()
			}
		},
		OnCommandDone: func(_ context.Context, e *domain.CommandEvent) {
			result := "ok"
			if e.ExitCode != 0 || e.Err != "" {
				result = "failed"
			}
			m.commands.WithLabelValues(string(e.Step), result).Inc()
		},
	}
}

// RecordReport sets the run-level gauges and counts steps that never executed.
func (m *Metrics) RecordReport(r *domain.Report) {
	for _, s := range r.Steps {
		if s.Outcome == domain.OutcomeSkipped {
			m.stepOutcomes.WithLabelValues(string(s.Step), string(s.Outcome)).Inc()
		}
	}
	m.lastExitCode.Set(float64(r.ExitCode))
	if !r.FinishedAt.IsZero() {
		m.lastRun.Set(float64(r.FinishedAt.Unix()))
	}
}

// WriteTextfile writes the registry in the node_exporter textfile format.
// The file is written atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
