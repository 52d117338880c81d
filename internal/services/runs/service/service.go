// Package service contains the run grouping workflow
package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"batch/internal/modkit/repokit"
	perr "batch/internal/platform/errors"
	"batch/internal/platform/logger"
	jobsdomain "batch/internal/services/jobs/domain"
	"batch/internal/services/runs/domain"
	"batch/internal/services/runs/repo"
)

// Config for the runs service
type Config struct {
	// ListLimit caps run listings for the API surface
	ListLimit int

	// JobsLimit caps how many jobs a single run lookup returns
	JobsLimit int
}

// Service defines the runs service contract
type Service interface {
	domain.WriterPort
	domain.QueryPort
}

// Svc implements Service
type Svc struct {
	Repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	cfg    Config
	log    logger.Logger
	jobs   jobsdomain.QueryPort
}

// New creates a runs service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config, jobs jobsdomain.QueryPort) *Svc {
	if db == nil {
		panic("runs.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("runs.Service requires a non nil Storage binder")
	}
	if jobs == nil {
		panic("runs.Service requires a jobs query port")
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 100
	}
	if cfg.JobsLimit <= 0 {
		cfg.JobsLimit = 1000
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		cfg:    cfg,
		log:    *logger.Named("runs"),
		jobs:   jobs,
	}
}

// Create opens a new run. The github payload is optional but must be
// valid JSON when present
func (s *Svc) Create(ctx context.Context, github json.RawMessage) (domain.Run, error) {
	if len(github) > 0 && !json.Valid(github) {
		return domain.Run{}, perr.Newf(perr.ErrorCodeJSON, "runs: github payload is not valid JSON")
	}

	r, err := s.Repo.Insert(ctx, uuid.NewString(), github)
	if err != nil {
		return domain.Run{}, err
	}
	s.log.Info().Str("run", r.ID).Msg("runs: created")
	return r, nil
}

// Close marks a run finished. Closing an already closed run is a no-op
func (s *Svc) Close(ctx context.Context, id string) (domain.Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Run{}, perr.Wrapf(err, perr.ErrorCodeValidation, "runs: bad run id %q", id)
	}
	r, err := s.Repo.Close(ctx, id)
	if err != nil {
		return domain.Run{}, err
	}
	s.log.Info().Str("run", r.ID).Msg("runs: closed")
	return r, nil
}

// Get implements domain.QueryPort
func (s *Svc) Get(ctx context.Context, id string) (domain.Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Run{}, perr.Wrapf(err, perr.ErrorCodeValidation, "runs: bad run id %q", id)
	}
	return s.Repo.Get(ctx, id)
}

// List implements domain.QueryPort
func (s *Svc) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 || limit > s.cfg.ListLimit {
		limit = s.cfg.ListLimit
	}
	return s.Repo.List(ctx, limit)
}

// Jobs returns the jobs created under a run
func (s *Svc) Jobs(ctx context.Context, id string) ([]jobsdomain.Job, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.jobs.List(ctx, jobsdomain.Filters{Run: id, Limit: s.cfg.JobsLimit})
}
