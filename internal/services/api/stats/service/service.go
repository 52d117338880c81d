// Package service contains stats workflows
package service

import (
	"context"

	"batch/internal/modkit/repokit"
	"batch/internal/services/api/stats/domain"
	"batch/internal/services/api/stats/repo"
)

// Service defines the stats service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the stats service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New constructs a stats service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("stats.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("stats.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

// ByStatus returns job counts bucketed by day and status
func (s *Svc) ByStatus(ctx context.Context, in domain.ByStatusInput) ([]domain.ByStatusRow, error) {
	rows, err := s.Repo.ByStatus(ctx, in.Range.Start, in.Range.End, in.Source)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ByStatusRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ByStatusRow{Day: r.Day, Status: r.Status, Jobs: r.Jobs})
	}
	return out, nil
}

// ByLayer returns job and feature counts bucketed by layer
func (s *Svc) ByLayer(ctx context.Context, in domain.ByLayerInput) ([]domain.ByLayerRow, error) {
	rows, err := s.Repo.ByLayer(ctx, in.Range.Start, in.Range.End, in.Status)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ByLayerRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ByLayerRow{Layer: r.Layer, Jobs: r.Jobs, Features: r.Features})
	}
	return out, nil
}

// BySource returns the busiest sources in a given time window
func (s *Svc) BySource(ctx context.Context, in domain.BySourceInput) ([]domain.BySourceRow, error) {
	rows, err := s.Repo.BySource(ctx, in.Range.Start, in.Range.End, in.Layer)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BySourceRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.BySourceRow{Source: r.Source, Jobs: r.Jobs, Features: r.Features})
	}
	return out, nil
}
