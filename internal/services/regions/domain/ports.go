package domain

import "context"

// ResolverPort maps a job's coverage onto a canonical region
type ResolverPort interface {
	Resolve(ctx context.Context, in ResolveInput) (int64, error)
}

// QueryPort reads region rows for the API surface
type QueryPort interface {
	ByCode(ctx context.Context, code string) (Region, error)
	ByID(ctx context.Context, id int64) (Region, error)
	List(ctx context.Context, limit int) ([]Region, error)
	Nearest(ctx context.Context, lon, lat, degrees float64) (Region, error)
}
