// Package repo provides postgres access to result rows
//
// Expected layout:
//
//	CREATE TABLE results (
//	    id      BIGSERIAL PRIMARY KEY,
//	    source  TEXT NOT NULL,
//	    layer   TEXT NOT NULL,
//	    name    TEXT NOT NULL,
//	    job     BIGINT NOT NULL REFERENCES job(id),
//	    updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    UNIQUE (source, layer, name)
//	);
package repo

import (
	"context"
	"fmt"
	"strings"

	"batch/internal/modkit/repokit"
	perr "batch/internal/platform/errors"
	"batch/internal/services/results/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the persistence surface for results
type Storage interface {
	Upsert(ctx context.Context, source, layer, name string, jobID int64) (domain.Result, error)
	List(ctx context.Context, f domain.Filters) ([]domain.Result, error)
	History(ctx context.Context, source, layer, name string, limit int) ([]domain.HistoryEntry, error)
}

const resultCols = `r.id, r.source, r.layer, r.name, r.job, r.updated`

// Upsert points the (source, layer, name) row at jobID, refreshing the
// updated stamp. One statement so racing completions keep the last
// writer's job
func (s *pg) Upsert(ctx context.Context, source, layer, name string, jobID int64) (domain.Result, error) {
	const sql = `
		INSERT INTO results AS r (source, layer, name, job)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source, layer, name)
		DO UPDATE SET job = EXCLUDED.job, updated = NOW()
		RETURNING ` + resultCols

	r, err := scanResult(s.q.QueryRow(ctx, sql, source, layer, name, jobID))
	if err != nil {
		return domain.Result{}, perr.FromPostgres(err, "results: upsert failed")
	}
	return r, nil
}

func (s *pg) List(ctx context.Context, f domain.Filters) ([]domain.Result, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`SELECT ` + resultCols + ` FROM results r`)
	if f.Point != nil {
		sb.WriteString(` JOIN job j ON j.id = r.job JOIN map m ON m.id = j.map`)
	}
	sb.WriteString(` WHERE TRUE`)
	if f.Source != "" {
		sb.WriteString(" AND r.source ILIKE " + arg("%"+f.Source+"%"))
	}
	if f.Layer != "" {
		sb.WriteString(" AND r.layer = " + arg(f.Layer))
	}
	if f.Point != nil {
		lon := arg(f.Point[0])
		lat := arg(f.Point[1])
		deg := arg(f.RadiusDegrees)
		sb.WriteString(" AND m.geom IS NOT NULL AND ST_DWithin(m.geom, ST_SetSRID(ST_MakePoint(" +
			lon + ", " + lat + "), 4326), " + deg + ")")
	}
	sb.WriteString(" ORDER BY r.source, r.layer, r.name LIMIT " + arg(f.Limit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "results: list failed")
	}
	defer rows.Close()

	var out []domain.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "results: scan failed")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// History lists past jobs for one source layer, newest first
func (s *pg) History(ctx context.Context, source, layer, name string, limit int) ([]domain.HistoryEntry, error) {
	const sql = `
		SELECT id, status, created
		FROM job
		WHERE source_name = $1 AND layer = $2 AND name = $3
		ORDER BY created DESC, id DESC
		LIMIT $4`

	rows, err := s.q.Query(ctx, sql, source, layer, name, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "results: history failed")
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var h domain.HistoryEntry
		if err := rows.Scan(&h.Job, &h.Status, &h.Created); err != nil {
			return nil, perr.FromPostgres(err, "results: scan failed")
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanResult(row scanner) (domain.Result, error) {
	var r domain.Result
	err := row.Scan(&r.ID, &r.Source, &r.Layer, &r.Name, &r.Job, &r.Updated)
	return r, err
}
