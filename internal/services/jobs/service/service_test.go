package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"batch/internal/core/coverage"
	"batch/internal/core/geostats"
	"batch/internal/modkit/repokit"
	perr "batch/internal/platform/errors"
	"batch/internal/services/jobs/domain"
	"batch/internal/services/jobs/repo"
	regdomain "batch/internal/services/regions/domain"
)

// fakeStore is an in-memory Storage keyed by job id
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Job
}

func newFakeStore() *fakeStore { return &fakeStore{nextID: 1, rows: map[int64]*domain.Job{}} }

func (f *fakeStore) InsertBatch(_ context.Context, runID *string, seeds []repo.SeedRow) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Job, 0, len(seeds))
	for _, r := range seeds {
		j := &domain.Job{
			ID:         f.nextID,
			Run:        runID,
			Created:    time.Now(),
			Source:     r.Source,
			SourceName: r.SourceName,
			Layer:      r.Layer,
			Name:       r.Name,
			Status:     domain.StatusPending,
		}
		f.rows[j.ID] = j
		f.nextID++
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.rows[id]; ok {
		return *j, nil
	}
	return domain.Job{}, perr.ErrNotFound
}

func (f *fakeStore) List(_ context.Context, filt domain.Filters) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Job
	for _, j := range f.rows {
		if filt.Status != "" && j.Status != filt.Status {
			continue
		}
		if filt.Layer != "" && j.Layer != filt.Layer {
			continue
		}
		if len(out) == filt.Limit {
			break
		}
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id int64, status domain.Status) (domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.rows[id]
	if !ok {
		return domain.Job{}, perr.ErrNotFound
	}
	j.Status = status
	return *j, nil
}

func (f *fakeStore) SetCompleted(_ context.Context, id int64, mapID int64, statsJSON []byte) (domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.rows[id]
	if !ok {
		return domain.Job{}, perr.ErrNotFound
	}
	j.Status = domain.StatusSuccess
	j.Output = true
	j.Map = &mapID
	var st geostats.Stats
	if err := json.Unmarshal(statsJSON, &st); err != nil {
		return domain.Job{}, err
	}
	j.Stats = &st
	return *j, nil
}

type fixedBinder struct{ s repo.Storage }

func (b fixedBinder) Bind(repokit.Queryer) repo.Storage { return b.s }

// noopTx satisfies repokit.TxRunner for wiring; the fake ignores it
type noopTx struct{}

func (noopTx) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (noopTx) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (noopTx) Tx(_ context.Context, fn func(q repokit.Queryer) error) error     { return fn(noopTx{}) }

type fakeFetcher struct {
	doc *coverage.Document
	err error
}

func (f fakeFetcher) Fetch(context.Context, string) (*coverage.Document, error) {
	return f.doc, f.err
}

type fakeResolver struct {
	id   int64
	err  error
	last regdomain.ResolveInput
}

func (r *fakeResolver) Resolve(_ context.Context, in regdomain.ResolveInput) (int64, error) {
	r.last = in
	return r.id, r.err
}

type fakeSink struct{ jobs []domain.Job }

func (s *fakeSink) Record(_ context.Context, j domain.Job) error {
	s.jobs = append(s.jobs, j)
	return nil
}

func bucksDoc(t *testing.T) *coverage.Document {
	t.Helper()
	doc, err := coverage.Parse([]byte(`{
		"schema": 2,
		"coverage": {"US Census": {"geoid": "42017", "name": "Bucks County", "state": "Pennsylvania"}, "country": "us", "state": "pa", "county": "Bucks"},
		"layers": {"addresses": [{"name": "county"}]}
	}`))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func newTestSvc(st repo.Storage, fetch domain.CoverageFetcher, res regdomain.ResolverPort, sink domain.ResultsSink) *Svc {
	return New(noopTx{}, fixedBinder{s: st}, Config{}, fetch, res, sink)
}

const bucksSrc = "https://example.com/oa/abc123/sources/us/pa/bucks.json"

func TestCreateBatchCanonicalizesSourceName(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	svc := newTestSvc(st, fakeFetcher{}, &fakeResolver{}, nil)

	run := "7b4d5a6e-9f7c-4f22-8b2e-67a1a97d3c10"
	jobs, err := svc.CreateBatch(context.Background(), &run, []domain.Seed{
		{Source: bucksSrc, Layer: "addresses", Name: "county"},
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("want 1 job, got %d", len(jobs))
	}
	j := jobs[0]
	if j.SourceName != "us/pa/bucks" {
		t.Fatalf("source_name = %q, want us/pa/bucks", j.SourceName)
	}
	if j.Status != domain.StatusPending {
		t.Fatalf("status = %q, want Pending", j.Status)
	}
	if j.Run == nil || *j.Run != run {
		t.Fatalf("run not carried through: %v", j.Run)
	}
}

func TestCreateBatchRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := newTestSvc(newFakeStore(), fakeFetcher{}, &fakeResolver{}, nil)

	if _, err := svc.CreateBatch(context.Background(), nil, nil); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("empty seeds: got %v, want validation error", err)
	}

	bad := "not-a-uuid"
	_, err := svc.CreateBatch(context.Background(), &bad, []domain.Seed{{Source: bucksSrc, Layer: "addresses"}})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad run id: got %v, want validation error", err)
	}

	_, err = svc.CreateBatch(context.Background(), nil, []domain.Seed{{Source: "", Layer: "addresses"}})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("missing source: got %v, want validation error", err)
	}
}

func TestSetStatusValidatesState(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	svc := newTestSvc(st, fakeFetcher{}, &fakeResolver{}, nil)

	jobs, err := svc.CreateBatch(context.Background(), nil, []domain.Seed{{Source: bucksSrc, Layer: "addresses"}})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), jobs[0].ID, "Exploded"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("unknown status: got %v, want validation error", err)
	}

	j, err := svc.SetStatus(context.Background(), jobs[0].ID, domain.StatusWarn)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if j.Status != domain.StatusWarn {
		t.Fatalf("status = %q, want Warn", j.Status)
	}
}

func TestCompleteResolvesAndStamps(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	res := &fakeResolver{id: 42}
	sink := &fakeSink{}
	svc := newTestSvc(st, fakeFetcher{doc: bucksDoc(t)}, res, sink)

	jobs, err := svc.CreateBatch(context.Background(), nil, []domain.Seed{{Source: bucksSrc, Layer: "addresses"}})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	stats := geostats.Stats{
		Count:     3,
		Bounds:    []float64{-75.5, 40.1, -74.9, 40.6},
		Addresses: map[string]int64{"street": 3, "number": 2},
	}
	done, err := svc.Complete(context.Background(), jobs[0].ID, stats)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if done.Status != domain.StatusSuccess || !done.Output {
		t.Fatalf("job not stamped success: %+v", done)
	}
	if done.Map == nil || *done.Map != 42 {
		t.Fatalf("map = %v, want 42", done.Map)
	}
	if done.Stats == nil || done.Stats.Count != 3 || done.Stats.Addresses["street"] != 3 {
		t.Fatalf("stats not stored: %+v", done.Stats)
	}
	if res.last.Layer != "addresses" || res.last.Source != bucksSrc {
		t.Fatalf("resolver input: %+v", res.last)
	}
	if res.last.Coverage.USCensus == nil || res.last.Coverage.USCensus.GeoID != "42017" {
		t.Fatalf("coverage not passed through: %+v", res.last.Coverage)
	}
	if len(sink.jobs) != 1 || sink.jobs[0].ID != done.ID {
		t.Fatalf("results sink not notified: %+v", sink.jobs)
	}
}

func TestCompleteFetchFailureMarksFail(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	svc := newTestSvc(st, fakeFetcher{err: perr.Newf(perr.ErrorCodeUnavailable, "upstream 503")}, &fakeResolver{id: 1}, nil)

	jobs, err := svc.CreateBatch(context.Background(), nil, []domain.Seed{{Source: bucksSrc, Layer: "addresses"}})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	if _, err := svc.Complete(context.Background(), jobs[0].ID, geostats.Stats{}); err == nil {
		t.Fatal("want error when fetch fails")
	}
	j, err := svc.Get(context.Background(), jobs[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if j.Status != domain.StatusFail {
		t.Fatalf("status = %q, want Fail", j.Status)
	}
}

func TestCompleteResolveFailureMarksFail(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	res := &fakeResolver{err: perr.Newf(perr.ErrorCodeValidation, "no coverage")}
	svc := newTestSvc(st, fakeFetcher{doc: bucksDoc(t)}, res, nil)

	jobs, err := svc.CreateBatch(context.Background(), nil, []domain.Seed{{Source: bucksSrc, Layer: "addresses"}})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	if _, err := svc.Complete(context.Background(), jobs[0].ID, geostats.Stats{}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
	j, _ := svc.Get(context.Background(), jobs[0].ID)
	if j.Status != domain.StatusFail {
		t.Fatalf("status = %q, want Fail", j.Status)
	}
}

func TestListClampsLimitAndChecksStatus(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	svc := newTestSvc(st, fakeFetcher{}, &fakeResolver{}, nil)

	if _, err := svc.List(context.Background(), domain.Filters{Status: "Sideways"}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("unknown status filter: got %v, want validation error", err)
	}

	seeds := make([]domain.Seed, 150)
	for i := range seeds {
		seeds[i] = domain.Seed{Source: bucksSrc, Layer: "addresses"}
	}
	if _, err := svc.CreateBatch(context.Background(), nil, seeds); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	got, err := svc.List(context.Background(), domain.Filters{Limit: 10_000})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("limit not clamped: got %d rows", len(got))
	}
}
