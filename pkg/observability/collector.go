package observability

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// scrapeTimeout bounds the store read done on every scrape.
const scrapeTimeout = 5 * time.Second

// ReportCollector exports the newest stored report at scrape time,
// so runs made by other processes show up without a restart.
type ReportCollector struct {
	store ports.ReportStore

	exitCode     *prometheus.Desc
	finished     *prometheus.Desc
	stepOutcome  *prometheus.Desc
	stepDuration *prometheus.Desc
	findings     *prometheus.Desc
}

var _ prometheus.Collector = (*ReportCollector)(nil)

// NewReportCollector creates a collector reading from store.
func NewReportCollector(store ports.ReportStore) *ReportCollector {
	return &ReportCollector{
		store: store,
		exitCode: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "last_run_exit_code"),
			"Exit code of the most recent run",
			nil, nil,
		),
		finished: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "last_run_timestamp_seconds"),
			"Unix time the most recent run finished",
			nil, nil,
		),
		stepOutcome: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "last_run_step_outcome"),
			"Outcome of each step in the most recent run (always 1)",
			[]string{"step", "outcome"}, nil,
		),
		stepDuration: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "last_run_step_duration_seconds"),
			"Duration of each step in the most recent run",
			[]string{"step"}, nil,
		),
		findings: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "last_run_findings"),
			"Findings in the most recent run, by severity",
			[]string{"severity"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *ReportCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.exitCode
	ch <- c.finished
	ch <- c.stepOutcome
	ch <- c.stepDuration
	ch <- c.findings
}

// Collect implements prometheus.Collector.
// An empty store yields no samples; a store error fails the scrape.
func (c *ReportCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	r, err := ports.Latest(ctx, c.store)
	if errors.Is(err, domain.ErrReportNotFound) {
		return
	}
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.exitCode, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.exitCode, prometheus.GaugeValue, float64(r.ExitCode))
	if !r.FinishedAt.IsZero() {
		ch <- prometheus.MustNewConstMetric(c.finished, prometheus.GaugeValue, float64(r.FinishedAt.Unix()))
	}
	for _, s := range r.Steps {
		step := string(s.Step)
		ch <- prometheus.MustNewConstMetric(c.stepOutcome, prometheus.GaugeValue, 1, step, string(s.Outcome))
		ch <- prometheus.MustNewConstMetric(c.stepDuration, prometheus.GaugeValue, s.Duration.Seconds(), step)
	}
	for _, sev := range []domain.Severity{domain.SeverityInfo, domain.SeverityAdvisory, domain.SeverityError, domain.SeverityFatal} {
		ch <- prometheus.MustNewConstMetric(c.findings, prometheus.GaugeValue, float64(r.Count(sev)), string(sev))
	}
}
