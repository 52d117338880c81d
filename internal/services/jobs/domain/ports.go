package domain

import (
	"context"

	"batch/internal/core/coverage"
	"batch/internal/core/geostats"
)

// WriterPort creates and advances jobs
type WriterPort interface {
	CreateBatch(ctx context.Context, runID *string, seeds []Seed) ([]Job, error)
	SetStatus(ctx context.Context, id int64, status Status) (Job, error)
	Complete(ctx context.Context, id int64, stats geostats.Stats) (Job, error)
}

// QueryPort reads jobs
type QueryPort interface {
	Get(ctx context.Context, id int64) (Job, error)
	List(ctx context.Context, f Filters) ([]Job, error)
}

// CoverageFetcher retrieves the source document a job was exploded from
// Satisfied by the sources adapter
type CoverageFetcher interface {
	Fetch(ctx context.Context, url string) (*coverage.Document, error)
}

// ResultsSink is notified when a job completes successfully so the
// latest-success table can be refreshed
type ResultsSink interface {
	Record(ctx context.Context, j Job) error
}
