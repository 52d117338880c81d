package domain

import (
	"context"
	"encoding/json"

	jobsdomain "batch/internal/services/jobs/domain"
)

// WriterPort creates and closes runs
type WriterPort interface {
	Create(ctx context.Context, github json.RawMessage) (Run, error)
	Close(ctx context.Context, id string) (Run, error)
}

// QueryPort reads runs and their jobs
type QueryPort interface {
	Get(ctx context.Context, id string) (Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
	Jobs(ctx context.Context, id string) ([]jobsdomain.Job, error)
}
