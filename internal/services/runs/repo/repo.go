// Package repo provides postgres access to run rows
//
// Expected layout:
//
//	CREATE TABLE runs (
//	    id      UUID PRIMARY KEY,
//	    created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    github  JSONB,
//	    closed  BOOLEAN NOT NULL DEFAULT FALSE
//	);
package repo

import (
	"context"
	"strings"

	"batch/internal/modkit/repokit"
	perr "batch/internal/platform/errors"
	"batch/internal/services/runs/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the persistence surface for runs
type Storage interface {
	Insert(ctx context.Context, id string, github []byte) (domain.Run, error)
	Get(ctx context.Context, id string) (domain.Run, error)
	List(ctx context.Context, limit int) ([]domain.Run, error)
	Close(ctx context.Context, id string) (domain.Run, error)
}

const runCols = `id::text, created, github, closed`

func (s *pg) Insert(ctx context.Context, id string, github []byte) (domain.Run, error) {
	const sql = `INSERT INTO runs (id, github) VALUES ($1::uuid, $2::jsonb) RETURNING ` + runCols
	var payload any
	if len(github) > 0 {
		payload = string(github)
	}
	return s.one(ctx, sql, id, payload)
}

func (s *pg) Get(ctx context.Context, id string) (domain.Run, error) {
	const sql = `SELECT ` + runCols + ` FROM runs WHERE id = $1::uuid`
	return s.one(ctx, sql, id)
}

func (s *pg) List(ctx context.Context, limit int) ([]domain.Run, error) {
	const sql = `SELECT ` + runCols + ` FROM runs ORDER BY created DESC LIMIT $1`
	rows, err := s.q.Query(ctx, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "runs: list failed")
	}
	defer rows.Close()

	var out []domain.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "runs: scan failed")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *pg) Close(ctx context.Context, id string) (domain.Run, error) {
	const sql = `UPDATE runs SET closed = TRUE WHERE id = $1::uuid RETURNING ` + runCols
	return s.one(ctx, sql, id)
}

func (s *pg) one(ctx context.Context, sql string, args ...any) (domain.Run, error) {
	r, err := scanRun(s.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return domain.Run{}, perr.ErrNotFound
		}
		return domain.Run{}, perr.FromPostgres(err, "runs: query failed")
	}
	return r, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanRun(row scanner) (domain.Run, error) {
	var r domain.Run
	var github []byte
	if err := row.Scan(&r.ID, &r.Created, &github, &r.Closed); err != nil {
		return domain.Run{}, err
	}
	if len(github) > 0 {
		r.GitHub = append(r.GitHub[:0], github...)
	}
	return r, nil
}
