package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	ByStatus(ctx context.Context, in ByStatusInput) ([]ByStatusRow, error)
	ByLayer(ctx context.Context, in ByLayerInput) ([]ByLayerRow, error)
	BySource(ctx context.Context, in BySourceInput) ([]BySourceRow, error)
}
