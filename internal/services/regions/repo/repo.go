// Package repo provides postgres access to the map table of canonical regions
//
// Expected layout:
//
//	CREATE TABLE map (
//	    id      BIGSERIAL PRIMARY KEY,
//	    name    TEXT NOT NULL,
//	    code    TEXT NOT NULL UNIQUE,
//	    geom    GEOMETRY(POINT, 4326),
//	    layers  TEXT[] NOT NULL DEFAULT '{}'
//	);
//	CREATE INDEX map_geom_idx ON map USING GIST (geom);
package repo

import (
	"context"
	"strings"

	"batch/internal/modkit/repokit"
	perr "batch/internal/platform/errors"
	"batch/internal/services/regions/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the persistence surface for regions
// MergeLayer and UpsertByCode are single atomic statements so concurrent
// job completions racing to the same region converge without locking
type Storage interface {
	GetByCode(ctx context.Context, code string) (domain.Region, error)
	GetByID(ctx context.Context, id int64) (domain.Region, error)
	List(ctx context.Context, limit int) ([]domain.Region, error)
	NearestWithin(ctx context.Context, lon, lat, degrees float64) (domain.Region, error)
	MergeLayer(ctx context.Context, id int64, layer string) (domain.Region, error)
	Create(ctx context.Context, name, code string, geomHex *string, layer string) (domain.Region, error)
	UpsertByCode(ctx context.Context, name, code string, geomHex *string, layer string) (domain.Region, error)
}

const regionCols = `id, name, code, geom::text, layers`

func (s *pg) GetByCode(ctx context.Context, code string) (domain.Region, error) {
	const sql = `SELECT ` + regionCols + ` FROM map WHERE code = $1`
	return s.one(ctx, sql, code)
}

func (s *pg) GetByID(ctx context.Context, id int64) (domain.Region, error) {
	const sql = `SELECT ` + regionCols + ` FROM map WHERE id = $1`
	return s.one(ctx, sql, id)
}

// List returns regions in creation order
func (s *pg) List(ctx context.Context, limit int) ([]domain.Region, error) {
	const sql = `SELECT ` + regionCols + ` FROM map ORDER BY id ASC LIMIT $1`
	rows, err := s.q.Query(ctx, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "regions: list failed")
	}
	defer rows.Close()

	var out []domain.Region
	for rows.Next() {
		var r domain.Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Code, &r.Geom, &r.Layers); err != nil {
			return nil, perr.FromPostgres(err, "regions: scan failed")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// NearestWithin finds the closest region whose point lies within the given
// degree threshold of (lon, lat); ties break toward the lowest id
func (s *pg) NearestWithin(ctx context.Context, lon, lat, degrees float64) (domain.Region, error) {
	const sql = `
		SELECT ` + regionCols + `
		FROM map
		WHERE geom IS NOT NULL
			AND ST_DWithin(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326), $3)
		ORDER BY ST_Distance(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326)) ASC, id ASC
		LIMIT 1`
	return s.one(ctx, sql, lon, lat, degrees)
}

// MergeLayer appends layer to the region's layer set if absent
// Idempotent; the union is computed server side in one statement
func (s *pg) MergeLayer(ctx context.Context, id int64, layer string) (domain.Region, error) {
	const sql = `
		UPDATE map
		SET layers = CASE WHEN $2 = ANY(layers) THEN layers ELSE array_append(layers, $2) END
		WHERE id = $1
		RETURNING ` + regionCols
	return s.one(ctx, sql, id, layer)
}

// Create inserts a new region with a singleton layer set
// A duplicate code surfaces as a duplicate key error for the caller to
// resolve as a merge against the winning row
func (s *pg) Create(ctx context.Context, name, code string, geomHex *string, layer string) (domain.Region, error) {
	const sql = `
		INSERT INTO map (name, code, geom, layers)
		VALUES ($1, $2, $3::geometry, ARRAY[$4])
		RETURNING ` + regionCols
	return s.one(ctx, sql, name, code, geomHex, layer)
}

// UpsertByCode inserts the region or merges the layer into the existing row
// keyed by code, as one atomic statement. This is the resolver's fallback
// path so two workers racing on a previously unseen source cannot produce
// duplicate codes or lose a layer
func (s *pg) UpsertByCode(ctx context.Context, name, code string, geomHex *string, layer string) (domain.Region, error) {
	const sql = `
		INSERT INTO map (name, code, geom, layers)
		VALUES ($1, $2, $3::geometry, ARRAY[$4])
		ON CONFLICT (code) DO UPDATE
		SET layers = CASE
			WHEN $4 = ANY(map.layers) THEN map.layers
			ELSE array_append(map.layers, $4)
		END
		RETURNING ` + regionCols
	return s.one(ctx, sql, name, code, geomHex, layer)
}

func (s *pg) one(ctx context.Context, sql string, args ...any) (domain.Region, error) {
	var r domain.Region
	err := s.q.QueryRow(ctx, sql, args...).Scan(&r.ID, &r.Name, &r.Code, &r.Geom, &r.Layers)
	if err != nil {
		if isNoRows(err) {
			return domain.Region{}, perr.ErrNotFound
		}
		return domain.Region{}, perr.FromPostgres(err, "regions: query failed")
	}
	return r, nil
}

// the store seam hides the driver, so match the pgx no-rows text
func isNoRows(err error) bool { return err != nil && strings.Contains(err.Error(), "no rows") }
