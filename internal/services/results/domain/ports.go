package domain

import (
	"context"

	jobsdomain "batch/internal/services/jobs/domain"
)

// SinkPort absorbs completed jobs into the latest-success table
type SinkPort interface {
	Record(ctx context.Context, j jobsdomain.Job) error
}

// QueryPort reads results
type QueryPort interface {
	List(ctx context.Context, f Filters) ([]Result, error)
	History(ctx context.Context, source, layer, name string, limit int) ([]HistoryEntry, error)
}
