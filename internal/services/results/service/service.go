// Package service keeps the latest successful job per source layer
package service

import (
	"context"
	"time"

	"batch/internal/modkit/repokit"
	perr "batch/internal/platform/errors"
	"batch/internal/platform/logger"
	"batch/internal/platform/store"
	jobsdomain "batch/internal/services/jobs/domain"
	"batch/internal/services/results/domain"
	"batch/internal/services/results/repo"
)

// Config for the results service
type Config struct {
	// ListLimit caps result listings for the API surface
	ListLimit int

	// RadiusDegrees is the default spatial filter width when a point
	// listing does not name one
	RadiusDegrees float64
}

// Service defines the results service contract
type Service interface {
	domain.SinkPort
	domain.QueryPort
}

// Svc implements Service
type Svc struct {
	Repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	ch     store.Clickhouse
	cfg    Config
	log    logger.Logger
}

// New creates a results service. ch may be nil; when set, Record also
// appends an ingest event to clickhouse
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config, ch store.Clickhouse) *Svc {
	if db == nil {
		panic("results.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("results.Service requires a non nil Storage binder")
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 500
	}
	if cfg.RadiusDegrees <= 0 {
		cfg.RadiusDegrees = 1.0
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		ch:     ch,
		cfg:    cfg,
		log:    *logger.Named("results"),
	}
}

// Record implements domain.SinkPort. Only successful jobs that produced
// output move the latest pointer
func (s *Svc) Record(ctx context.Context, j jobsdomain.Job) error {
	if j.Status != jobsdomain.StatusSuccess || !j.Output {
		return perr.Newf(perr.ErrorCodeValidation, "results: job %d is not a successful output", j.ID)
	}
	if j.SourceName == "" || j.Layer == "" {
		return perr.Newf(perr.ErrorCodeValidation, "results: job %d missing source or layer", j.ID)
	}

	r, err := s.Repo.Upsert(ctx, j.SourceName, j.Layer, j.Name, j.ID)
	if err != nil {
		return err
	}
	s.log.Debug().Str("source", r.Source).Str("layer", r.Layer).Int64("job", r.Job).Msg("results: updated")

	// best effort telemetry append; the pg pointer is the source of truth
	if s.ch != nil {
		var features int64
		if j.Stats != nil {
			features = j.Stats.Count
		}
		row := []any{time.Now().UTC(), j.SourceName, j.Layer, j.Name, j.ID, features}
		if err := s.ch.Insert(ctx, "ingest_stats", [][]any{row}); err != nil {
			s.log.Warn().Err(err).Int64("job", j.ID).Msg("results: ingest stats append failed")
		}
	}
	return nil
}

// List implements domain.QueryPort
func (s *Svc) List(ctx context.Context, f domain.Filters) ([]domain.Result, error) {
	if f.Limit <= 0 || f.Limit > s.cfg.ListLimit {
		f.Limit = s.cfg.ListLimit
	}
	if f.Point != nil {
		p := *f.Point
		if p[0] < -180 || p[0] > 180 || p[1] < -90 || p[1] > 90 {
			return nil, perr.Newf(perr.ErrorCodeValidation, "results: point %v out of range", p)
		}
		if f.RadiusDegrees <= 0 {
			f.RadiusDegrees = s.cfg.RadiusDegrees
		}
	}
	return s.Repo.List(ctx, f)
}

// History implements domain.QueryPort
func (s *Svc) History(ctx context.Context, source, layer, name string, limit int) ([]domain.HistoryEntry, error) {
	if source == "" || layer == "" {
		return nil, perr.Newf(perr.ErrorCodeValidation, "results: history requires source and layer")
	}
	if limit <= 0 || limit > s.cfg.ListLimit {
		limit = s.cfg.ListLimit
	}
	return s.Repo.History(ctx, source, layer, name, limit)
}
