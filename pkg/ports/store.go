package ports

import (
	"context"

	"github.com/aretw0/hostprep/pkg/domain"
)

// ReportStore defines the interface for persisting run reports.
type ReportStore interface {
	// Save persists the report under report.ID, replacing any previous version.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves the report for the given ID.
	// Returns domain.ErrReportNotFound if the report does not exist.
	Load(ctx context.Context, id string) (*domain.Report, error)

	// Delete removes the report for the given ID.
	Delete(ctx context.Context, id string) error

	// List returns all report IDs, newest first.
	List(ctx context.Context) ([]string, error)
}

// Latest loads the newest report in the store.
func Latest(ctx context.Context, store ReportStore) (*domain.Report, error) {
	ids, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return store.Load(ctx, ids[0])
}
