package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/hostprep/pkg/adapters/memory"
	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	base := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second"} {
		r := domain.NewReport(id, "pi-kitchen", "jarvis", base.Add(time.Duration(i)*time.Hour))
		r.Steps = []domain.StepResult{{Step: domain.StepInterpreter, Outcome: domain.OutcomeOK}}
		r.Finish(r.StartedAt.Add(time.Minute))
		require.NoError(t, store.Save(context.Background(), r))
	}
	return store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := NewHandler(&Server{Store: memory.NewStore()}, nil)

	w := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestInfo(t *testing.T) {
	h := NewHandler(&Server{Store: memory.NewStore(), Version: "0.3.0"}, nil)

	var info Info
	w := get(t, h, "/info")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "0.3.0", info.Version)
	assert.Equal(t, "hostprep", info.Name)
}

func TestListReports(t *testing.T) {
	h := NewHandler(&Server{Store: seededStore(t)}, nil)

	w := get(t, h, "/reports")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var ids []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.Equal(t, []string{"second", "first"}, ids)
}

func TestListReports_Empty(t *testing.T) {
	h := NewHandler(&Server{Store: memory.NewStore()}, nil)

	w := get(t, h, "/reports")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetReport(t *testing.T) {
	h := NewHandler(&Server{Store: seededStore(t)}, nil)

	w := get(t, h, "/reports/first")
	require.Equal(t, http.StatusOK, w.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "first", report.ID)
	assert.Equal(t, domain.StatusSucceeded, report.Status)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/reports/missing").Code)
}

func TestGetLatestReport(t *testing.T) {
	h := NewHandler(&Server{Store: seededStore(t)}, nil)

	w := get(t, h, "/reports/latest")
	require.Equal(t, http.StatusOK, w.Code)
	var report domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "second", report.ID)

	empty := NewHandler(&Server{Store: memory.NewStore()}, nil)
	assert.Equal(t, http.StatusNotFound, get(t, empty, "/reports/latest").Code)
}

func TestMetrics(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnStepFinish(context.Background(), &domain.StepEvent{Step: domain.StepDevices, Outcome: domain.OutcomeOK})

	h := NewHandler(&Server{Store: memory.NewStore()}, m.Registry())
	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hostprep_step_outcomes_total")

	noMetrics := NewHandler(&Server{Store: memory.NewStore()}, nil)
	assert.Equal(t, http.StatusNotFound, get(t, noMetrics, "/metrics").Code)
}

func TestMetrics_ReflectReportsSavedLater(t *testing.T) {
	store := seededStore(t)
	reg := prometheus.NewRegistry()
	reg.MustRegister(observability.NewReportCollector(store))
	h := NewHandler(&Server{Store: store}, reg)

	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hostprep_last_run_exit_code 0")

	// Saved after the handler was built, as a separate run process would
	later := domain.NewReport("third", "pi-kitchen", "jarvis", time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
	later.Steps = []domain.StepResult{{Step: domain.StepDependencies, Outcome: domain.OutcomeFailed}}
	later.Finish(later.StartedAt.Add(time.Minute))
	require.NoError(t, store.Save(context.Background(), later))

	w = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hostprep_last_run_exit_code 2")
	assert.Contains(t, w.Body.String(), `hostprep_last_run_step_outcome{outcome="failed",step="dependencies"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(&Server{Store: memory.NewStore()}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/reports", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
