package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "batch/internal/platform/errors"
)

const bucksDoc = `{
	"schema": 2,
	"coverage": {"country": "us", "state": "pa", "US Census": {"geoid": "42017"}},
	"layers": {"addresses": [{"name": "city"}], "buildings": [{"name": "city"}]}
}`

func TestFetchAndExplode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Errorf("missing user agent")
		}
		_, _ = w.Write([]byte(bucksDoc))
	}))
	defer srv.Close()

	f := NewFetcher(Options{})
	seeds, err := f.Explode(context.Background(), srv.URL+"/sources/us/pa/bucks.json")
	if err != nil {
		t.Fatalf("Explode: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("seeds = %v, want 2", seeds)
	}
	if seeds[0].Layer != "addresses" || seeds[1].Layer != "buildings" {
		t.Fatalf("layer order = %v", seeds)
	}
}

func TestFetchRejectsWrongSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"schema": 1, "layers": {}}`))
	}))
	defer srv.Close()

	if _, err := NewFetcher(Options{}).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("Fetch accepted schema 1")
	}
}

func TestFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(Options{}).Fetch(context.Background(), srv.URL)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("error code = %v, want unavailable", perr.CodeOf(err))
	}
}
