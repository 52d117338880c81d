//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"batch/internal/core/geomcodec"
	perr "batch/internal/platform/errors"
	"batch/internal/platform/store"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgis launches a disposable PostGIS and returns DSN + stop func
func startPostgis(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgis/postgis:16-3.4-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgis container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func openStore(t *testing.T, ctx context.Context, dsn string) *store.Store {
	t.Helper()
	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 8},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	const schema = `
		CREATE EXTENSION IF NOT EXISTS postgis;
		CREATE TABLE IF NOT EXISTS map (
			id      BIGSERIAL PRIMARY KEY,
			name    TEXT NOT NULL,
			code    TEXT NOT NULL UNIQUE,
			geom    GEOMETRY(POINT, 4326),
			layers  TEXT[] NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS map_geom_idx ON map USING GIST (geom);
		TRUNCATE map RESTART IDENTITY;`
	if _, err := st.PG.Exec(ctx, schema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return st
}

func TestRepo_Integration_UpsertMergeAndNearest(t *testing.T) {
	dsn, stop := startPostgis(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st := openStore(t, ctx, dsn)
	r := NewPG().Bind(st.PG)

	// administrative row, merged twice with the same layer
	created, err := r.Create(ctx, "United States", "us", nil, "addresses")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := r.MergeLayer(ctx, created.ID, "addresses"); err != nil {
		t.Fatalf("MergeLayer: %v", err)
	}
	got, err := r.GetByCode(ctx, "us")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if len(got.Layers) != 1 || got.Layers[0] != "addresses" {
		t.Fatalf("layers = %v, want [addresses]", got.Layers)
	}
	if got.Geom != nil {
		t.Fatalf("geom = %v, want nil for administrative region", *got.Geom)
	}

	// duplicate code from a parallel create surfaces as duplicate key
	if _, err := r.Create(ctx, "United States", "us", nil, "buildings"); !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("duplicate Create error = %v, want duplicate key", err)
	}

	// geometry round trip through the column
	hex := geomcodec.EncodePointHex(-135.087890625, 60.73768583450925)
	fallback, err := r.Create(ctx, "ca/yk/city_of_whitehorse", geomcodec.HashPath("ca/yk/city_of_whitehorse"), &hex, "addresses")
	if err != nil {
		t.Fatalf("Create fallback: %v", err)
	}
	if fallback.Geom == nil || *fallback.Geom != hex {
		t.Fatalf("geom = %v, want %s", fallback.Geom, hex)
	}

	// nearest within threshold
	near, err := r.NearestWithin(ctx, -135.2, 60.8, 1.0)
	if err != nil {
		t.Fatalf("NearestWithin: %v", err)
	}
	if near.ID != fallback.ID {
		t.Fatalf("nearest id = %d, want %d", near.ID, fallback.ID)
	}

	// nothing within threshold far away
	if _, err := r.NearestWithin(ctx, 10, 10, 1.0); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("far NearestWithin = %v, want not found", err)
	}
}

func TestRepo_Integration_ConcurrentUpsertConverges(t *testing.T) {
	dsn, stop := startPostgis(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st := openStore(t, ctx, dsn)
	r := NewPG().Bind(st.PG)

	const (
		name = "ca/yk/city_of_whitehorse"
		n    = 24
	)
	code := geomcodec.HashPath(name)
	hex := geomcodec.EncodePointHex(-135.087890625, 60.73768583450925)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		layer := "addresses"
		if i%2 == 1 {
			layer = "buildings"
		}
		wg.Add(1)
		go func(layer string) {
			defer wg.Done()
			_, err := r.UpsertByCode(ctx, name, code, &hex, layer)
			errs <- err
		}(layer)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("UpsertByCode: %v", err)
		}
	}

	rows, err := r.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want exactly one region", len(rows))
	}
	got := rows[0]
	if got.Code != code {
		t.Fatalf("code = %s, want %s", got.Code, code)
	}
	seen := map[string]int{}
	for _, l := range got.Layers {
		seen[l]++
	}
	if seen["addresses"] != 1 || seen["buildings"] != 1 || len(got.Layers) != 2 {
		t.Fatalf("layers = %v, want union without duplicates", got.Layers)
	}
}
