// Package domain holds DTOs for the runs http surface
package domain

import (
	"context"
	"encoding/json"

	"batch/internal/core/coverage"
	jobsdomain "batch/internal/services/jobs/domain"
	runsdomain "batch/internal/services/runs/domain"
)

// SubmitInput opens a run from a set of source document URLs. Each URL
// is fetched and exploded into one job per layer source. GitHub may
// carry the triggering webhook payload
type SubmitInput struct {
	Sources []string        `json:"sources" validate:"required,min=1,max=100,dive,url" example:"https://example.com/sources/us/pa/bucks.json"`
	GitHub  json.RawMessage `json:"github,omitempty"`
}

// SubmitOutput reports the opened run and its seeded jobs
type SubmitOutput struct {
	Run  runsdomain.Run   `json:"run"`
	Jobs []jobsdomain.Job `json:"jobs"`
}

// GetInput names one run
type GetInput struct {
	ID string `json:"id" validate:"required,uuid" example:"7b4d5a6e-9f7c-4f22-8b2e-67a1a97d3c10"`
}

// SearchInput lists recent runs
type SearchInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}

// Exploder turns a source document URL into job seeds
// Satisfied by the sources adapter
type Exploder interface {
	Explode(ctx context.Context, url string) ([]coverage.JobSeed, error)
}
