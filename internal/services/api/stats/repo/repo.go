// Package repo provides postgres access for stats
package repo

import (
	"context"

	"batch/internal/modkit/repokit"
)

// Repo is the minimal persistence surface for stats
type Repo interface {
	ByStatus(ctx context.Context, start, end, source string) ([]RowByStatus, error)
	ByLayer(ctx context.Context, start, end, status string) ([]RowByLayer, error)
	BySource(ctx context.Context, start, end, layer string) ([]RowBySource, error)
}

// RowByStatus represents a stats row by day and status
type RowByStatus struct {
	Day    string
	Status string
	Jobs   int64
}

// RowByLayer represents a stats row by layer
type RowByLayer struct {
	Layer    string
	Jobs     int64
	Features int64
}

// RowBySource represents a stats row by source
type RowBySource struct {
	Source   string
	Jobs     int64
	Features int64
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) ByStatus(ctx context.Context, start, end, source string) ([]RowByStatus, error) {
	const sql = `
select created::date::text as day, status, count(1) as jobs
from job
where created::date between $1 and $2
and ($3 = '' or source_name = $3)
group by day, status
order by day asc, status asc
`
	rows, err := r.q.Query(ctx, sql, start, end, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RowByStatus
	for rows.Next() {
		var rr RowByStatus
		if err := rows.Scan(&rr.Day, &rr.Status, &rr.Jobs); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *queries) ByLayer(ctx context.Context, start, end, status string) ([]RowByLayer, error) {
	const sql = `
select layer, count(1) as jobs,
coalesce(sum((stats->>'count')::bigint), 0) as features
from job
where created::date between $1 and $2
and ($3 = '' or status = $3)
group by layer
order by jobs desc, layer asc
`
	rows, err := r.q.Query(ctx, sql, start, end, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RowByLayer
	for rows.Next() {
		var rr RowByLayer
		if err := rows.Scan(&rr.Layer, &rr.Jobs, &rr.Features); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *queries) BySource(ctx context.Context, start, end, layer string) ([]RowBySource, error) {
	const sql = `
select source_name, count(1) as jobs,
coalesce(sum((stats->>'count')::bigint), 0) as features
from job
where created::date between $1 and $2
and ($3 = '' or layer = $3)
group by source_name
order by jobs desc, source_name asc
limit 200
`
	rows, err := r.q.Query(ctx, sql, start, end, layer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RowBySource
	for rows.Next() {
		var rr RowBySource
		if err := rows.Scan(&rr.Source, &rr.Jobs, &rr.Features); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
