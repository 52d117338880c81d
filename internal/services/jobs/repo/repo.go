// Package repo provides postgres access to job rows
//
// Expected layout:
//
//	CREATE TABLE job (
//	    id          BIGSERIAL PRIMARY KEY,
//	    run         UUID,
//	    created     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    source      TEXT NOT NULL,
//	    source_name TEXT NOT NULL,
//	    layer       TEXT NOT NULL,
//	    name        TEXT NOT NULL,
//	    status      TEXT NOT NULL DEFAULT 'Pending',
//	    output      BOOLEAN NOT NULL DEFAULT FALSE,
//	    map         BIGINT REFERENCES map(id),
//	    stats       JSONB
//	);
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"batch/internal/modkit/repokit"
	perr "batch/internal/platform/errors"
	"batch/internal/services/jobs/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the persistence surface for jobs
type Storage interface {
	InsertBatch(ctx context.Context, runID *string, seeds []SeedRow) ([]domain.Job, error)
	Get(ctx context.Context, id int64) (domain.Job, error)
	List(ctx context.Context, f domain.Filters) ([]domain.Job, error)
	SetStatus(ctx context.Context, id int64, status domain.Status) (domain.Job, error)
	SetCompleted(ctx context.Context, id int64, mapID int64, statsJSON []byte) (domain.Job, error)
}

// SeedRow is a fully derived job insert
type SeedRow struct {
	Source     string
	SourceName string
	Layer      string
	Name       string
}

// NewSeedRow builds an insert row from its parts
func NewSeedRow(source, sourceName, layer, name string) SeedRow {
	return SeedRow{Source: source, SourceName: sourceName, Layer: layer, Name: name}
}

const jobCols = `id, run::text, created, source, source_name, layer, name, status, output, map, stats`

func (s *pg) InsertBatch(ctx context.Context, runID *string, seeds []SeedRow) ([]domain.Job, error) {
	if len(seeds) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO job (run, source, source_name, layer, name) VALUES `)

	args := make([]any, 0, len(seeds)*5)
	args = append(args, runID)
	for i, r := range seeds {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := len(args) + 1
		fmt.Fprintf(&sb, "($1::uuid,$%d,$%d,$%d,$%d)", base, base+1, base+2, base+3)
		args = append(args, r.Source, r.SourceName, r.Layer, r.Name)
	}
	sb.WriteString(` RETURNING ` + jobCols)

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "jobs: insert failed")
	}
	defer rows.Close()
	return collect(rows)
}

func (s *pg) Get(ctx context.Context, id int64) (domain.Job, error) {
	const sql = `SELECT ` + jobCols + ` FROM job WHERE id = $1`
	return s.one(ctx, sql, id)
}

func (s *pg) List(ctx context.Context, f domain.Filters) ([]domain.Job, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`SELECT ` + jobCols + ` FROM job WHERE TRUE`)
	if f.Status != "" {
		sb.WriteString(" AND status = " + arg(string(f.Status)))
	}
	if f.Run != "" {
		sb.WriteString(" AND run = " + arg(f.Run) + "::uuid")
	}
	if f.Source != "" {
		sb.WriteString(" AND source_name ILIKE " + arg("%"+f.Source+"%"))
	}
	if f.Layer != "" {
		sb.WriteString(" AND layer = " + arg(f.Layer))
	}
	sb.WriteString(" ORDER BY created DESC, id DESC LIMIT " + arg(f.Limit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "jobs: list failed")
	}
	defer rows.Close()
	return collect(rows)
}

func (s *pg) SetStatus(ctx context.Context, id int64, status domain.Status) (domain.Job, error) {
	const sql = `UPDATE job SET status = $2 WHERE id = $1 RETURNING ` + jobCols
	return s.one(ctx, sql, id, string(status))
}

// SetCompleted marks success, attaches the resolved region and stats
func (s *pg) SetCompleted(ctx context.Context, id int64, mapID int64, statsJSON []byte) (domain.Job, error) {
	const sql = `
		UPDATE job
		SET status = 'Success', output = TRUE, map = $2, stats = $3::jsonb
		WHERE id = $1
		RETURNING ` + jobCols
	return s.one(ctx, sql, id, mapID, string(statsJSON))
}

func (s *pg) one(ctx context.Context, sql string, args ...any) (domain.Job, error) {
	j, err := scanJob(s.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return domain.Job{}, perr.ErrNotFound
		}
		return domain.Job{}, perr.FromPostgres(err, "jobs: query failed")
	}
	return j, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanJob(row scanner) (domain.Job, error) {
	var j domain.Job
	var status string
	var stats []byte
	err := row.Scan(&j.ID, &j.Run, &j.Created, &j.Source, &j.SourceName,
		&j.Layer, &j.Name, &status, &j.Output, &j.Map, &stats)
	if err != nil {
		return domain.Job{}, err
	}
	j.Status = domain.Status(status)
	if len(stats) > 0 {
		if err := json.Unmarshal(stats, &j.Stats); err != nil {
			return domain.Job{}, perr.Wrap(err, perr.ErrorCodeJSON, "jobs: bad stats payload")
		}
	}
	return j, nil
}

func collect(rows repokit.Rows) ([]domain.Job, error) {
	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "jobs: scan failed")
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
