// Package service contains the job lifecycle workflow
package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"batch/internal/core/coverage"
	"batch/internal/core/geostats"
	"batch/internal/modkit/repokit"
	perr "batch/internal/platform/errors"
	"batch/internal/platform/logger"
	"batch/internal/services/jobs/domain"
	"batch/internal/services/jobs/repo"
	regdomain "batch/internal/services/regions/domain"
)

// Config for the jobs service
type Config struct {
	// ListLimit caps job listings for the API surface
	ListLimit int
}

// Service defines the jobs service contract
type Service interface {
	domain.WriterPort
	domain.QueryPort
}

// Svc implements Service
type Svc struct {
	Repo     repo.Storage
	binder   repokit.Binder[repo.Storage]
	db       repokit.TxRunner
	cfg      Config
	log      logger.Logger
	fetch    domain.CoverageFetcher
	resolver regdomain.ResolverPort
	results  domain.ResultsSink
}

// New creates a jobs service. The results sink is optional; fetcher and
// resolver are required because Complete cannot run without them
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	cfg Config,
	fetch domain.CoverageFetcher,
	resolver regdomain.ResolverPort,
	results domain.ResultsSink,
) *Svc {
	if db == nil {
		panic("jobs.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("jobs.Service requires a non nil Storage binder")
	}
	if fetch == nil {
		panic("jobs.Service requires a coverage fetcher")
	}
	if resolver == nil {
		panic("jobs.Service requires a region resolver")
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 100
	}
	return &Svc{
		Repo:     binder.Bind(db),
		binder:   binder,
		db:       db,
		cfg:      cfg,
		log:      *logger.Named("jobs"),
		fetch:    fetch,
		resolver: resolver,
		results:  results,
	}
}

// CreateBatch inserts one Pending job per seed, all tagged with runID
// when present. Source names are canonicalized before insert so every
// later lookup agrees on the same path
func (s *Svc) CreateBatch(ctx context.Context, runID *string, seeds []domain.Seed) ([]domain.Job, error) {
	if len(seeds) == 0 {
		return nil, perr.Newf(perr.ErrorCodeValidation, "jobs: create requires at least one seed")
	}
	if runID != nil {
		if _, err := uuid.Parse(*runID); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "jobs: bad run id %q", *runID)
		}
	}

	rows := make([]repo.SeedRow, 0, len(seeds))
	for _, sd := range seeds {
		if sd.Source == "" || sd.Layer == "" {
			return nil, perr.Newf(perr.ErrorCodeValidation, "jobs: seed missing source or layer")
		}
		rows = append(rows, repo.NewSeedRow(sd.Source, coverage.CanonicalPath(sd.Source), sd.Layer, sd.Name))
	}

	jobs, err := s.Repo.InsertBatch(ctx, runID, rows)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("jobs", len(jobs)).Msg("jobs: batch created")
	return jobs, nil
}

// SetStatus advances a job to the given lifecycle state
func (s *Svc) SetStatus(ctx context.Context, id int64, status domain.Status) (domain.Job, error) {
	if !domain.ValidStatus(status) {
		return domain.Job{}, perr.Newf(perr.ErrorCodeValidation, "jobs: unknown status %q", status)
	}
	return s.Repo.SetStatus(ctx, id, status)
}

// Complete finishes a job: it stores the ingest stats, fetches the
// job's source document, resolves its coverage to a region, and stamps
// the job Success with the region attached. Fetch or resolve failures
// mark the job Fail before returning
func (s *Svc) Complete(ctx context.Context, id int64, stats geostats.Stats) (domain.Job, error) {
	j, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}

	doc, err := s.fetch.Fetch(ctx, j.Source)
	if err != nil {
		return s.fail(ctx, j, perr.Wrapf(err, perr.CodeOf(err), "jobs: fetch source for job %d", id))
	}

	mapID, err := s.resolver.Resolve(ctx, regdomain.ResolveInput{
		Coverage: doc.Coverage,
		Layer:    j.Layer,
		Source:   j.Source,
	})
	if err != nil {
		return s.fail(ctx, j, perr.Wrapf(err, perr.CodeOf(err), "jobs: resolve region for job %d", id))
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return domain.Job{}, perr.Wrap(err, perr.ErrorCodeJSON, "jobs: encode stats")
	}

	done, err := s.Repo.SetCompleted(ctx, id, mapID, payload)
	if err != nil {
		return domain.Job{}, err
	}

	if s.results != nil {
		if err := s.results.Record(ctx, done); err != nil {
			return domain.Job{}, perr.Wrapf(err, perr.CodeOf(err), "jobs: record result for job %d", id)
		}
	}

	s.log.Info().Int64("job", id).Int64("map", mapID).Int64("count", stats.Count).Msg("jobs: completed")
	return done, nil
}

// Get implements domain.QueryPort
func (s *Svc) Get(ctx context.Context, id int64) (domain.Job, error) {
	return s.Repo.Get(ctx, id)
}

// List implements domain.QueryPort
func (s *Svc) List(ctx context.Context, f domain.Filters) ([]domain.Job, error) {
	if f.Limit <= 0 || f.Limit > s.cfg.ListLimit {
		f.Limit = s.cfg.ListLimit
	}
	if f.Status != "" && !domain.ValidStatus(f.Status) {
		return nil, perr.Newf(perr.ErrorCodeValidation, "jobs: unknown status %q", f.Status)
	}
	return s.Repo.List(ctx, f)
}

func (s *Svc) fail(ctx context.Context, j domain.Job, cause error) (domain.Job, error) {
	if _, err := s.Repo.SetStatus(ctx, j.ID, domain.StatusFail); err != nil {
		s.log.Warn().Err(err).Int64("job", j.ID).Msg("jobs: could not mark failure")
	}
	return domain.Job{}, cause
}
