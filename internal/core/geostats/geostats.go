// Package geostats computes per-job statistics over a feature stream in a
// single forward pass: feature count, bounding box, and address field
// completeness when the job produced the address layer
package geostats

import (
	"context"
	"io"
	"strings"

	perr "batch/internal/platform/errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// AddressLayer is the layer name that switches on field counting
const AddressLayer = "addresses"

// AddressFields is the fixed address schema inspected on each feature
var AddressFields = []string{"unit", "number", "street", "city", "district", "region", "postcode"}

// Stats is the result of one pass
// Bounds is empty (not a zero box) when no features were seen
type Stats struct {
	Count     int64            `json:"count"`
	Bounds    []float64        `json:"bounds"`
	Addresses map[string]int64 `json:"addresses,omitempty"`
}

// FeatureReader yields features one at a time; io.EOF ends the stream
type FeatureReader interface {
	Next() (*geojson.Feature, error)
}

// Accumulator folds features into running statistics
// Zero value is not usable; construct with New
type Accumulator struct {
	stats  Stats
	seen   int64
	bounds orb.Bound
}

// New constructs an Accumulator for the given layer
// Field counters are allocated only for the address layer
func New(layer string) *Accumulator {
	a := &Accumulator{stats: Stats{Bounds: []float64{}}}
	if layer == AddressLayer {
		a.stats.Addresses = make(map[string]int64, len(AddressFields))
		for _, f := range AddressFields {
			a.stats.Addresses[f] = 0
		}
	}
	return a
}

// Feed folds one feature into the running stats
func (a *Accumulator) Feed(f *geojson.Feature) error {
	if f == nil || f.Geometry == nil {
		return perr.InvalidArgf("stats: feature has no geometry")
	}
	p, ok := f.Geometry.(orb.Point)
	if !ok {
		return perr.InvalidArgf("stats: expected point geometry, got %s", f.Geometry.GeoJSONType())
	}

	if a.seen == 0 {
		a.bounds = orb.Bound{Min: p, Max: p}
	} else {
		a.bounds = a.bounds.Extend(p)
	}
	a.seen++

	if a.stats.Addresses != nil {
		for _, key := range AddressFields {
			if present(f.Properties[key]) {
				a.stats.Addresses[key]++
			}
		}
	}
	return nil
}

// Stats returns the accumulated result
// An empty stream reports {count: 0, bounds: []} with no field map, which
// keeps "no data" distinct from a single feature at the origin
func (a *Accumulator) Stats() Stats {
	out := a.stats
	out.Count = a.seen
	if a.seen > 0 {
		out.Bounds = []float64{a.bounds.Min[0], a.bounds.Min[1], a.bounds.Max[0], a.bounds.Max[1]}
	} else {
		out.Addresses = nil
	}
	return out
}

// Compute drives a full single pass over r
// Any malformed feature fails the whole computation; partial progress
// is discarded and the caller may retry the job wholesale
func Compute(ctx context.Context, r FeatureReader, layer string) (Stats, error) {
	acc := New(layer)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		f, err := r.Next()
		if err == io.EOF {
			return acc.Stats(), nil
		}
		if err != nil {
			return Stats{}, perr.WithFieldChain(err, "feature")
		}
		if err := acc.Feed(f); err != nil {
			return Stats{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "stats: feature %d", i)
		}
	}
}

// present reports whether a property value counts toward completeness
// Strings must be non-blank; numbers and bools always count; nil never does
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	default:
		return true
	}
}
