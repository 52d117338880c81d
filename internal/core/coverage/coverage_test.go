package coverage

import (
	"testing"

	perr "batch/internal/platform/errors"
)

const bucksDoc = `{
	"schema": 2,
	"coverage": {
		"US Census": {"geoid": "42017", "name": "Bucks County", "state": "Pennsylvania"},
		"country": "us",
		"state": "pa",
		"county": "Bucks"
	},
	"layers": {
		"addresses": [{"name": "city"}, {"name": "county"}],
		"buildings": [{"name": "city"}]
	}
}`

const whitehorseDoc = `{
	"schema": 2,
	"coverage": {
		"geometry": {"type": "Point", "coordinates": [-135.087890625, 60.73768583450925]},
		"country": "ca",
		"state": "yk",
		"town": "whitehorse"
	},
	"layers": {"addresses": [{"name": "city"}]}
}`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(bucksDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Coverage.Country != "us" || doc.Coverage.Geoid() != "42017" {
		t.Fatalf("coverage = %+v", doc.Coverage)
	}
	if len(doc.Layers["addresses"]) != 2 {
		t.Fatalf("addresses sources = %d, want 2", len(doc.Layers["addresses"]))
	}
}

func TestParseRejectsWrongSchema(t *testing.T) {
	_, err := Parse([]byte(`{"schema": 1, "layers": {}}`))
	if err == nil {
		t.Fatal("Parse accepted schema 1")
	}
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("error code = %v, want invalid argument", perr.CodeOf(err))
	}
}

func TestParseRejectsBadJSON(t *testing.T) {
	if _, err := Parse([]byte(`{`)); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("error code = %v, want json", perr.CodeOf(err))
	}
}

func TestCandidateCodes(t *testing.T) {
	tests := []struct {
		name string
		cov  Coverage
		want []string
	}{
		{
			name: "county geoid then state then country",
			cov: Coverage{
				Country:  "us",
				State:    "pa",
				USCensus: &Authority{GeoID: "42017"},
			},
			want: []string{"us-42017", "us-pa", "us"},
		},
		{
			name: "country only",
			cov:  Coverage{Country: "us"},
			want: []string{"us"},
		},
		{
			name: "statcan geoid",
			cov:  Coverage{Country: "ca", StatCan: &Authority{GeoID: "2443"}},
			want: []string{"ca-2443", "ca"},
		},
		{
			name: "uppercase and accents fold",
			cov:  Coverage{Country: "CA", State: "QÉ"},
			want: []string{"ca-qe", "ca"},
		},
		{
			name: "no administrative basis",
			cov:  Coverage{Town: "whitehorse"},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.cov.CandidateCodes()
			if len(got) != len(tc.want) {
				t.Fatalf("CandidateCodes = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("CandidateCodes = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestCanonicalPath(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{
			name: "github raw url",
			in:   "https://github.com/openaddresses/openaddresses/48ad45b0/sources/ca/yk/city_of_whitehorse.json",
			want: "ca/yk/city_of_whitehorse",
		},
		{
			name: "http scheme",
			in:   "http://github.com/oa/oa/abc/sources/us/countrywide.json",
			want: "us/countrywide",
		},
		{
			name: "no sources marker strips host",
			in:   "https://example.com/us/pa/bucks.json",
			want: "us/pa/bucks",
		},
		{
			name: "bare path",
			in:   "us/pa/bucks.json",
			want: "us/pa/bucks",
		},
		{
			name: "no extension",
			in:   "sources/us/pa/bucks",
			want: "us/pa/bucks",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanonicalPath(tc.in); got != tc.want {
				t.Fatalf("CanonicalPath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPoint(t *testing.T) {
	doc, err := Parse([]byte(whitehorseDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, ok := doc.Coverage.Point()
	if !ok {
		t.Fatal("Point() reported no geometry")
	}
	if p[0] != -135.087890625 || p[1] != 60.73768583450925 {
		t.Fatalf("point = %v", p)
	}

	var none Coverage
	if _, ok := none.Point(); ok {
		t.Fatal("Point() on empty coverage reported a geometry")
	}
}

func TestExplode(t *testing.T) {
	doc, err := Parse([]byte(bucksDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	const src = "https://example.com/sources/us/pa/bucks.json"
	seeds, err := doc.Explode(src)
	if err != nil {
		t.Fatalf("Explode: %v", err)
	}
	want := []JobSeed{
		{Source: src, Layer: "addresses", Name: "city"},
		{Source: src, Layer: "addresses", Name: "county"},
		{Source: src, Layer: "buildings", Name: "city"},
	}
	if len(seeds) != len(want) {
		t.Fatalf("Explode = %v, want %v", seeds, want)
	}
	for i := range seeds {
		if seeds[i] != want[i] {
			t.Fatalf("seed[%d] = %+v, want %+v", i, seeds[i], want[i])
		}
	}
}

func TestExplodeNoLayers(t *testing.T) {
	doc := &Document{Schema: SchemaVersion}
	if _, err := doc.Explode("x"); err == nil {
		t.Fatal("Explode accepted a document without layers")
	}
}

func TestFoldCode(t *testing.T) {
	tests := []struct{ in, want string }{
		{"us", "us"},
		{"US", "us"},
		{"Québec", "quebec"},
		{"42017", "42017"},
		{"New York", "newyork"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := FoldCode(tc.in); got != tc.want {
			t.Fatalf("FoldCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
