package observability_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/hostprep/pkg/adapters/memory"
	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedReport(t *testing.T, store *memory.Store, id string, started time.Time, outcomes map[domain.StepID]domain.Outcome) *domain.Report {
	t.Helper()
	r := domain.NewReport(id, "pi-kitchen", "jarvis", started)
	for _, step := range domain.Steps {
		o, ok := outcomes[step]
		if !ok {
			continue
		}
		res := domain.StepResult{Step: step, Outcome: o, Duration: 2 * time.Second}
		if o == domain.OutcomeFailed {
			res.Fail("pip", "pip install failed")
		}
		r.Steps = append(r.Steps, res)
	}
	r.Finish(started.Add(time.Minute))
	require.NoError(t, store.Save(context.Background(), r))
	return r
}

func TestReportCollector_FollowsStore(t *testing.T) {
	store := memory.NewStore()
	c := observability.NewReportCollector(store)
	base := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, testutil.CollectAndCount(c), "empty store exports nothing")

	savedReport(t, store, "first", base, map[domain.StepID]domain.Outcome{
		domain.StepInterpreter: domain.OutcomeOK,
	})
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(`
# HELP hostprep_last_run_exit_code Exit code of the most recent run
# TYPE hostprep_last_run_exit_code gauge
hostprep_last_run_exit_code 0
`), "hostprep_last_run_exit_code"))

	// A newer run saved by another process is picked up on the next scrape
	newer := savedReport(t, store, "second", base.Add(time.Hour), map[domain.StepID]domain.Outcome{
		domain.StepInterpreter:  domain.OutcomeOK,
		domain.StepDependencies: domain.OutcomeFailed,
	})
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(`
# HELP hostprep_last_run_exit_code Exit code of the most recent run
# TYPE hostprep_last_run_exit_code gauge
hostprep_last_run_exit_code 2
# HELP hostprep_last_run_step_outcome Outcome of each step in the most recent run (always 1)
# TYPE hostprep_last_run_step_outcome gauge
hostprep_last_run_step_outcome{outcome="failed",step="dependencies"} 1
hostprep_last_run_step_outcome{outcome="ok",step="interpreter"} 1
`), "hostprep_last_run_exit_code", "hostprep_last_run_step_outcome"))

	assert.Equal(t, 1, testutil.CollectAndCount(c, "hostprep_last_run_timestamp_seconds"))
	assert.Equal(t, 2, testutil.CollectAndCount(c, "hostprep_last_run_step_duration_seconds"))
	assert.Equal(t, 4, testutil.CollectAndCount(c, "hostprep_last_run_findings"))
	assert.Equal(t, float64(newer.FinishedAt.Unix()), gaugeValue(t, c, "hostprep_last_run_timestamp_seconds"))
}

type failingStore struct {
	*memory.Store
}

func (failingStore) List(context.Context) ([]string, error) {
	return nil, errors.New("redis: connection refused")
}

func TestReportCollector_StoreErrorFailsScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(observability.NewReportCollector(failingStore{memory.NewStore()}))

	_, err := reg.Gather()
	assert.ErrorContains(t, err, "connection refused")
}

func gaugeValue(t *testing.T, c prometheus.Collector, name string) float64 {
	t.Helper()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}
