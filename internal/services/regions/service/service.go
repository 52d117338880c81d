// Package service contains the coverage-to-region resolution workflow
package service

import (
	"context"

	"batch/internal/core/coverage"
	"batch/internal/core/geomcodec"
	"batch/internal/modkit/repokit"
	perr "batch/internal/platform/errors"
	"batch/internal/platform/logger"
	"batch/internal/services/regions/domain"
	"batch/internal/services/regions/repo"
)

// Config for the regions service
type Config struct {
	// ProximityDegrees is the geometry match threshold in coordinate degrees
	ProximityDegrees float64

	// ListLimit caps the region listing for the API surface
	ListLimit int
}

// Service defines the regions service contract
type Service interface {
	domain.ResolverPort
	domain.QueryPort
}

// Svc implements Service
type Svc struct {
	Repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	cfg    Config
	log    logger.Logger
}

// New creates a regions service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Svc {
	if db == nil {
		panic("regions.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("regions.Service requires a non nil Storage binder")
	}
	if cfg.ProximityDegrees <= 0 {
		cfg.ProximityDegrees = 1.0
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 500
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		cfg:    cfg,
		log:    *logger.Named("regions"),
	}
}

// Resolve maps a job's coverage onto a canonical region and merges the
// job's layer into that region's layer set
//
// Match order, first hit wins:
//  1. administrative candidate codes, most specific first; rows are only
//     ever matched, administrative geography is seeded externally
//  2. nearest existing region within the proximity threshold of the
//     coverage point
//  3. create a geometry-fallback region keyed by the content hash of the
//     canonical source path (atomic insert-or-merge, so concurrent workers
//     racing on the same unseen source converge on one row)
//
// Exactly one create or one merge happens per successful call
func (s *Svc) Resolve(ctx context.Context, in domain.ResolveInput) (int64, error) {
	if in.Layer == "" {
		return 0, perr.Newf(perr.ErrorCodeValidation, "regions: resolve requires a layer")
	}

	for _, code := range in.Coverage.CandidateCodes() {
		r, err := s.Repo.GetByCode(ctx, code)
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if r, err = s.Repo.MergeLayer(ctx, r.ID, in.Layer); err != nil {
			return 0, err
		}
		s.log.Debug().Str("code", r.Code).Str("layer", in.Layer).Msg("regions: administrative match")
		return r.ID, nil
	}

	pt, hasPoint := in.Coverage.Point()
	if hasPoint {
		r, err := s.Repo.NearestWithin(ctx, pt[0], pt[1], s.cfg.ProximityDegrees)
		switch {
		case err == nil:
			if r, err = s.Repo.MergeLayer(ctx, r.ID, in.Layer); err != nil {
				return 0, err
			}
			s.log.Debug().Str("code", r.Code).Str("layer", in.Layer).Msg("regions: proximity match")
			return r.ID, nil
		case !perr.IsCode(err, perr.ErrorCodeNotFound):
			return 0, err
		}
	}

	if !in.Coverage.HasAdministrative() && !hasPoint {
		return 0, perr.Newf(perr.ErrorCodeValidation,
			"regions: coverage for %s has neither administrative fields nor geometry", in.Source)
	}

	path := coverage.CanonicalPath(in.Source)
	var geom *string
	if hasPoint {
		hex := geomcodec.EncodePointHex(pt[0], pt[1])
		geom = &hex
	}

	r, err := s.Repo.UpsertByCode(ctx, path, geomcodec.HashPath(path), geom, in.Layer)
	if err != nil {
		return 0, err
	}
	s.log.Info().Str("code", r.Code).Str("name", r.Name).Str("layer", in.Layer).Msg("regions: fallback region")
	return r.ID, nil
}

// ByCode implements domain.QueryPort
func (s *Svc) ByCode(ctx context.Context, code string) (domain.Region, error) {
	return s.Repo.GetByCode(ctx, code)
}

// ByID implements domain.QueryPort
func (s *Svc) ByID(ctx context.Context, id int64) (domain.Region, error) {
	return s.Repo.GetByID(ctx, id)
}

// List implements domain.QueryPort
func (s *Svc) List(ctx context.Context, limit int) ([]domain.Region, error) {
	if limit <= 0 || limit > s.cfg.ListLimit {
		limit = s.cfg.ListLimit
	}
	return s.Repo.List(ctx, limit)
}

// Nearest implements domain.QueryPort. A non positive degrees falls back
// to the service's proximity threshold
func (s *Svc) Nearest(ctx context.Context, lon, lat, degrees float64) (domain.Region, error) {
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return domain.Region{}, perr.Newf(perr.ErrorCodeValidation,
			"regions: point [%v, %v] out of range", lon, lat)
	}
	if degrees <= 0 {
		degrees = s.cfg.ProximityDegrees
	}
	return s.Repo.NearestWithin(ctx, lon, lat, degrees)
}
