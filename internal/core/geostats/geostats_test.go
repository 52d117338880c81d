package geostats

import (
	"context"
	"fmt"
	"io"
	"testing"

	perr "batch/internal/platform/errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// sliceReader feeds a fixed set of features
type sliceReader struct {
	fs []*geojson.Feature
	i  int
}

func (r *sliceReader) Next() (*geojson.Feature, error) {
	if r.i >= len(r.fs) {
		return nil, io.EOF
	}
	f := r.fs[r.i]
	r.i++
	return f, nil
}

// errReader fails after n features
type errReader struct {
	n   int
	err error
}

func (r *errReader) Next() (*geojson.Feature, error) {
	if r.n == 0 {
		return nil, r.err
	}
	r.n--
	return pointFeature(0, 0, nil), nil
}

func pointFeature(lon, lat float64, props map[string]any) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{lon, lat})
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

func TestComputeEmpty(t *testing.T) {
	got, err := Compute(context.Background(), &sliceReader{}, AddressLayer)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.Count != 0 {
		t.Fatalf("count = %d, want 0", got.Count)
	}
	if len(got.Bounds) != 0 {
		t.Fatalf("bounds = %v, want empty", got.Bounds)
	}
	if got.Addresses != nil {
		t.Fatalf("addresses = %v, want omitted", got.Addresses)
	}
}

func TestComputeSinglePointAtOrigin(t *testing.T) {
	got, err := Compute(context.Background(), &sliceReader{fs: []*geojson.Feature{pointFeature(0, 0, nil)}}, "")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.Count != 1 {
		t.Fatalf("count = %d, want 1", got.Count)
	}
	// degenerate zero box, not an empty bounds
	want := []float64{0, 0, 0, 0}
	for i := range want {
		if got.Bounds[i] != want[i] {
			t.Fatalf("bounds = %v, want %v", got.Bounds, want)
		}
	}
}

func TestComputeBoundsAndFields(t *testing.T) {
	fs := []*geojson.Feature{
		pointFeature(-135.1, 60.7, map[string]any{"number": "100", "street": "Main St", "postcode": "Y1A"}),
		pointFeature(-135.3, 60.9, map[string]any{"number": "", "street": "Elm St", "city": "Whitehorse"}),
		pointFeature(-134.9, 60.5, map[string]any{"number": 42.0, "street": "Oak St", "unit": "  "}),
	}
	got, err := Compute(context.Background(), &sliceReader{fs: fs}, AddressLayer)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.Count != 3 {
		t.Fatalf("count = %d, want 3", got.Count)
	}
	wantBounds := []float64{-135.3, 60.5, -134.9, 60.9}
	for i := range wantBounds {
		if got.Bounds[i] != wantBounds[i] {
			t.Fatalf("bounds = %v, want %v", got.Bounds, wantBounds)
		}
	}

	wantFields := map[string]int64{
		"unit":     0, // blank string does not count
		"number":   2, // empty string skipped, numeric counts
		"street":   3,
		"city":     1,
		"district": 0,
		"region":   0,
		"postcode": 1,
	}
	for k, w := range wantFields {
		if got.Addresses[k] != w {
			t.Fatalf("addresses[%s] = %d, want %d (full: %v)", k, got.Addresses[k], w, got.Addresses)
		}
	}
}

func TestComputeFieldMapOmittedForOtherLayers(t *testing.T) {
	fs := []*geojson.Feature{pointFeature(1, 2, map[string]any{"street": "Main"})}
	for _, layer := range []string{"", "buildings", "parcels"} {
		got, err := Compute(context.Background(), &sliceReader{fs: fs}, layer)
		if err != nil {
			t.Fatalf("Compute(%q): %v", layer, err)
		}
		if got.Addresses != nil {
			t.Fatalf("Compute(%q) addresses = %v, want omitted", layer, got.Addresses)
		}
	}
}

func TestComputeLargeFixture(t *testing.T) {
	// 100 features; numbers only on the first 83
	fs := make([]*geojson.Feature, 0, 100)
	for i := 0; i < 100; i++ {
		props := map[string]any{"street": fmt.Sprintf("Street %d", i)}
		if i < 83 {
			props["number"] = fmt.Sprintf("%d", i+1)
		}
		fs = append(fs, pointFeature(-135+float64(i)*0.01, 60+float64(i)*0.01, props))
	}
	got, err := Compute(context.Background(), &sliceReader{fs: fs}, AddressLayer)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.Count != 100 {
		t.Fatalf("count = %d, want 100", got.Count)
	}
	if got.Addresses["street"] != 100 || got.Addresses["number"] != 83 {
		t.Fatalf("addresses = %v", got.Addresses)
	}
	wantBounds := []float64{-135, 60, -134.01, 60.99}
	for i := range wantBounds {
		if diff := got.Bounds[i] - wantBounds[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("bounds = %v, want %v", got.Bounds, wantBounds)
		}
	}
}

func TestComputeMalformedFeatureFailsWhole(t *testing.T) {
	fs := []*geojson.Feature{
		pointFeature(1, 2, nil),
		geojson.NewFeature(orb.LineString{{0, 0}, {1, 1}}),
	}
	_, err := Compute(context.Background(), &sliceReader{fs: fs}, AddressLayer)
	if err == nil {
		t.Fatal("Compute accepted a non-point feature")
	}
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("error code = %v, want invalid argument", perr.CodeOf(err))
	}
}

func TestComputeReaderErrorPropagates(t *testing.T) {
	boom := perr.JSONErrf("bad line")
	if _, err := Compute(context.Background(), &errReader{n: 2, err: boom}, ""); err == nil {
		t.Fatal("Compute swallowed a reader error")
	}
}

func TestComputeHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compute(ctx, &sliceReader{fs: []*geojson.Feature{pointFeature(0, 0, nil)}}, ""); err == nil {
		t.Fatal("Compute ignored a cancelled context")
	}
}
