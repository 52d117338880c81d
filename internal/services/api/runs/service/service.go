// Package service orchestrates run submission for the API surface
package service

import (
	"context"

	perr "batch/internal/platform/errors"
	"batch/internal/platform/logger"
	"batch/internal/services/api/runs/domain"
	jobsdomain "batch/internal/services/jobs/domain"
	runsdomain "batch/internal/services/runs/domain"
)

// Service defines the runs API contract
type Service interface {
	Submit(ctx context.Context, in domain.SubmitInput) (domain.SubmitOutput, error)
	Get(ctx context.Context, id string) (runsdomain.Run, error)
	List(ctx context.Context, limit int) ([]runsdomain.Run, error)
	Close(ctx context.Context, id string) (runsdomain.Run, error)
	Jobs(ctx context.Context, id string) ([]jobsdomain.Job, error)
}

// Svc implements Service
type Svc struct {
	runs     runsdomain.WriterPort
	runsq    runsdomain.QueryPort
	jobs     jobsdomain.WriterPort
	exploder domain.Exploder
	log      logger.Logger
}

// New creates a runs API service
func New(runs runsdomain.WriterPort, runsq runsdomain.QueryPort, jobs jobsdomain.WriterPort, exploder domain.Exploder) *Svc {
	if runs == nil || runsq == nil {
		panic("runs API service requires the runs ports")
	}
	if jobs == nil {
		panic("runs API service requires the jobs writer port")
	}
	if exploder == nil {
		panic("runs API service requires a source exploder")
	}
	return &Svc{
		runs:     runs,
		runsq:    runsq,
		jobs:     jobs,
		exploder: exploder,
		log:      *logger.Named("runs-api"),
	}
}

// Submit opens a run, explodes every source document into per-layer
// seeds, and creates the run's jobs in one batch. A source that yields
// no seeds fails the whole submission so partial runs never appear
func (s *Svc) Submit(ctx context.Context, in domain.SubmitInput) (domain.SubmitOutput, error) {
	var seeds []jobsdomain.Seed
	for _, url := range in.Sources {
		got, err := s.exploder.Explode(ctx, url)
		if err != nil {
			return domain.SubmitOutput{}, perr.Wrapf(err, perr.CodeOf(err), "runs: explode %s", url)
		}
		seeds = append(seeds, got...)
	}

	run, err := s.runs.Create(ctx, in.GitHub)
	if err != nil {
		return domain.SubmitOutput{}, err
	}

	jobs, err := s.jobs.CreateBatch(ctx, &run.ID, seeds)
	if err != nil {
		return domain.SubmitOutput{}, err
	}

	s.log.Info().Str("run", run.ID).Int("sources", len(in.Sources)).Int("jobs", len(jobs)).Msg("runs: submitted")
	return domain.SubmitOutput{Run: run, Jobs: jobs}, nil
}

// Get implements Service
func (s *Svc) Get(ctx context.Context, id string) (runsdomain.Run, error) {
	return s.runsq.Get(ctx, id)
}

// List implements Service
func (s *Svc) List(ctx context.Context, limit int) ([]runsdomain.Run, error) {
	return s.runsq.List(ctx, limit)
}

// Close implements Service
func (s *Svc) Close(ctx context.Context, id string) (runsdomain.Run, error) {
	return s.runs.Close(ctx, id)
}

// Jobs implements Service
func (s *Svc) Jobs(ctx context.Context, id string) ([]jobsdomain.Job, error) {
	return s.runsq.Jobs(ctx, id)
}
