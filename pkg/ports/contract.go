package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunReportStoreContract runs a suite of tests to verify that a ReportStore implementation
// adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	reportID := "contract-" + base.Format("20060102T150405")

	newReport := func(id string, started time.Time) *domain.Report {
		r := domain.NewReport(id, "contract-host", "jarvis", started)
		r.Steps = append(r.Steps, domain.StepResult{
			Step:    domain.StepConfigAudit,
			Outcome: domain.OutcomeAdvisory,
			Findings: []domain.Finding{
				{Step: domain.StepConfigAudit, Severity: domain.SeverityAdvisory, Message: "Groq API key is not configured", Subject: "Groq API key"},
			},
		})
		r.Finish(started.Add(time.Minute))
		return r
	}

	t.Run("Save and Load", func(t *testing.T) {
		report := newReport(reportID, base)

		err := store.Save(ctx, report)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, reportID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.ID, loaded.ID)
		assert.Equal(t, report.Status, loaded.Status)
		assert.True(t, report.StartedAt.Equal(loaded.StartedAt))
		require.Len(t, loaded.Steps, 1)
		assert.Equal(t, "Groq API key", loaded.Steps[0].Findings[0].Subject)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+reportID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newReport(reportID, base))
		require.NoError(t, err)

		err = store.Delete(ctx, reportID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, reportID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")
	})

	t.Run("List Newest First", func(t *testing.T) {
		older := reportID + "-1"
		newer := reportID + "-2"
		require.NoError(t, store.Save(ctx, newReport(older, base.Add(time.Hour))))
		require.NoError(t, store.Save(ctx, newReport(newer, base.Add(2*time.Hour))))

		defer func() {
			_ = store.Delete(ctx, older)
			_ = store.Delete(ctx, newer)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		require.Contains(t, ids, older)
		require.Contains(t, ids, newer)
		assert.Less(t, indexOf(ids, newer), indexOf(ids, older))

		latest, err := Latest(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, newer, latest.ID)
	})
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
