package module

import (
	"context"

	"batch/internal/services/api/stats/domain"
	statssvc "batch/internal/services/api/stats/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptStatsPort struct{ svc statssvc.Service }

// ByStatus returns job counts bucketed by day and status
func (a adaptStatsPort) ByStatus(ctx context.Context, in domain.ByStatusInput) ([]domain.ByStatusRow, error) {
	return a.svc.ByStatus(ctx, in)
}

// ByLayer returns job and feature counts bucketed by layer
func (a adaptStatsPort) ByLayer(ctx context.Context, in domain.ByLayerInput) ([]domain.ByLayerRow, error) {
	return a.svc.ByLayer(ctx, in)
}

// BySource returns the busiest sources in a given time window
func (a adaptStatsPort) BySource(ctx context.Context, in domain.BySourceInput) ([]domain.BySourceRow, error) {
	return a.svc.BySource(ctx, in)
}
