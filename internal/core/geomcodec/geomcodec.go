// Package geomcodec round-trips point geometries through the EWKB wire form
// used by the region table (little endian, explicit SRID 4326) and derives
// the content hash that keys geometry-fallback regions
package geomcodec

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	perr "batch/internal/platform/errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"
)

// SRID is the only spatial reference the codec accepts
const SRID = 4326

// pointLen is byte order + type word + srid + two float64 coordinates
const pointLen = 1 + 4 + 4 + 8 + 8

// EncodePoint returns the EWKB bytes for a lon/lat pair
func EncodePoint(lon, lat float64) []byte {
	return ewkb.MustMarshal(orb.Point{lon, lat}, SRID)
}

// EncodePointHex returns the uppercase hex EWKB form stored in postgres
func EncodePointHex(lon, lat float64) string {
	return toUpperHex(EncodePoint(lon, lat))
}

// DecodePoint parses EWKB bytes back into a lon/lat pair
// Anything that is not a 4326 point of the expected length fails
func DecodePoint(b []byte) (lon, lat float64, err error) {
	if len(b) != pointLen {
		return 0, 0, perr.InvalidArgf("geom: expected %d byte ewkb point, got %d", pointLen, len(b))
	}
	g, srid, err := ewkb.Unmarshal(b)
	if err != nil {
		return 0, 0, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "geom: malformed ewkb")
	}
	if srid != SRID {
		return 0, 0, perr.InvalidArgf("geom: unexpected srid %d", srid)
	}
	p, ok := g.(orb.Point)
	if !ok {
		return 0, 0, perr.InvalidArgf("geom: expected point, got %s", g.GeoJSONType())
	}
	return p[0], p[1], nil
}

// DecodePointHex parses the hex EWKB form
func DecodePointHex(s string) (lon, lat float64, err error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, 0, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "geom: bad hex")
	}
	return DecodePoint(b)
}

// HashPath returns the sha1 hex digest of a canonical source path
// Stable across runs and platforms; used as the fallback region code
func HashPath(path string) string {
	sum := sha1.Sum([]byte(path))
	return hex.EncodeToString(sum[:])
}

// postgres emits geometry hex uppercase; match it so fixtures compare clean
func toUpperHex(b []byte) string { return strings.ToUpper(hex.EncodeToString(b)) }
