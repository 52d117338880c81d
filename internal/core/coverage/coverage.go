// Package coverage models the v2 source document and derives the
// administrative candidate codes and canonical paths the region
// resolver matches against
package coverage

import (
	"encoding/json"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"unicode"

	perr "batch/internal/platform/errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SchemaVersion is the only source schema this service ingests
const SchemaVersion = 2

// Authority is a census-style administrative identifier block
// The geoid is what builds county-level region codes
type Authority struct {
	GeoID string `json:"geoid"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Coverage is the geographic scope a source claims
// Administrative fields and geometry are all optional; a source with
// none of them cannot be resolved to a region
type Coverage struct {
	Country  string            `json:"country"`
	State    string            `json:"state"`
	County   string            `json:"county"`
	Town     string            `json:"town"`
	USCensus *Authority        `json:"US Census"`
	StatCan  *Authority        `json:"Statistics Canada"`
	Geometry *geojson.Geometry `json:"geometry"`
}

// Document is a v2 source definition
type Document struct {
	Schema   int                      `json:"schema"`
	Coverage Coverage                 `json:"coverage"`
	Layers   map[string][]LayerSource `json:"layers"`
}

// LayerSource is one named source definition inside a layer
type LayerSource struct {
	Name string `json:"name"`
}

// JobSeed is one unit of ingest work exploded from a document
type JobSeed struct {
	Source string
	Layer  string
	Name   string
}

// Parse decodes and validates a source document
func Parse(b []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "coverage: malformed source document")
	}
	if doc.Schema != SchemaVersion {
		return nil, perr.InvalidArgf("coverage: source is schema %d, want %d", doc.Schema, SchemaVersion)
	}
	return &doc, nil
}

// Geoid returns the first administrative sub-code an authority block offers
func (c Coverage) Geoid() string {
	if c.USCensus != nil && c.USCensus.GeoID != "" {
		return c.USCensus.GeoID
	}
	if c.StatCan != nil && c.StatCan.GeoID != "" {
		return c.StatCan.GeoID
	}
	return ""
}

// Point returns the coverage point and whether one is present
// Only Point geometry participates in matching
func (c Coverage) Point() (orb.Point, bool) {
	if c.Geometry == nil {
		return orb.Point{}, false
	}
	if p, ok := c.Geometry.Geometry().(orb.Point); ok {
		return p, true
	}
	return orb.Point{}, false
}

// HasAdministrative reports whether any code chain can be built at all
func (c Coverage) HasAdministrative() bool { return c.Country != "" }

// CandidateCodes lists region codes to try, most specific first
//  1. country-geoid  (county level)
//  2. country-state  (match-only; state rows are seeded, never created)
//  3. country
//
// Codes are folded to the lowercase ascii identifier form region rows use
func (c Coverage) CandidateCodes() []string {
	country := FoldCode(c.Country)
	if country == "" {
		return nil
	}

	var out []string
	if geoid := FoldCode(c.Geoid()); geoid != "" {
		out = append(out, country+"-"+geoid)
	}
	if state := FoldCode(c.State); state != "" {
		out = append(out, country+"-"+state)
	}
	return append(out, country)
}

// CanonicalPath reduces a source URL to the repo-relative path that
// names and keys geometry-fallback regions
// "https://host/x/sources/ca/yk/city_of_whitehorse.json" -> "ca/yk/city_of_whitehorse"
func CanonicalPath(source string) string {
	p := source
	if i := strings.LastIndex(p, "sources/"); i >= 0 {
		p = p[i+len("sources/"):]
	} else if u, err := url.Parse(source); err == nil && u.Host != "" {
		p = strings.TrimPrefix(u.Path, "/")
	}
	return strings.TrimSuffix(p, path.Ext(p))
}

// Explode enumerates one job seed per named source per layer
// Layer order is sorted for determinism
func (d *Document) Explode(source string) ([]JobSeed, error) {
	if len(d.Layers) == 0 {
		return nil, perr.InvalidArgf("coverage: source has no layers")
	}

	layers := make([]string, 0, len(d.Layers))
	for l := range d.Layers {
		layers = append(layers, l)
	}
	sort.Strings(layers)

	var seeds []JobSeed
	for _, layer := range layers {
		for _, s := range d.Layers[layer] {
			seeds = append(seeds, JobSeed{Source: source, Layer: layer, Name: s.Name})
		}
	}
	return seeds, nil
}

// code folding mirrors the identifier form region rows are keyed with
// lowercase, diacritics stripped, anything non-alphanumeric squeezed out

var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
		)
	},
}

// FoldCode normalizes a coverage field into region code form
func FoldCode(s string) string {
	if s == "" {
		return ""
	}
	tr := foldPool.Get().(transform.Transformer)
	folded, _, err := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		folded = strings.ToLower(s)
	}

	var sb strings.Builder
	for _, r := range folded {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
