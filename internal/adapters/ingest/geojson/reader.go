// Package geojson streams features out of job output files without loading
// the document into memory. Job outputs are line-delimited GeoJSON features,
// optionally gzip compressed
package geojson

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"

	perr "batch/internal/platform/errors"

	orbjson "github.com/paulmach/orb/geojson"
)

const (
	// individual features are small; the cap guards against pathological lines
	maxScanTokenSize = 8 * 1024 * 1024
	scanBufSize      = 256 * 1024
)

// Reader streams geojson features from a (possibly gzipped) line stream
type Reader struct {
	r        io.ReadCloser
	gz       *gzip.Reader
	sc       *bufio.Scanner
	err      error
	line     int
	features int
	bytes    int64
}

// NewReader wraps r, transparently decompressing gzip input
func NewReader(r io.ReadCloser) (*Reader, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	var gz *gzip.Reader
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		g, err := gzip.NewReader(br)
		if err != nil {
			if cerr := r.Close(); cerr != nil {
				return nil, cerr
			}
			return nil, err
		}
		gz = g
		src = g
	}

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, scanBufSize), maxScanTokenSize)
	return &Reader{r: r, gz: gz, sc: sc}, nil
}

// Next returns the next feature; io.EOF when the stream is done
// Blank lines are skipped; anything else that fails to parse as a feature
// fails the stream with the offending line number attached
func (rd *Reader) Next() (*orbjson.Feature, error) {
	if rd.err != nil {
		return nil, rd.err
	}
	for {
		if !rd.sc.Scan() {
			if err := rd.sc.Err(); err != nil {
				rd.err = err
				return nil, err
			}
			rd.err = io.EOF
			return nil, io.EOF
		}
		rd.line++
		line := bytes.TrimSpace(rd.sc.Bytes())
		if len(line) == 0 {
			continue
		}

		f, err := orbjson.UnmarshalFeature(line)
		if err != nil {
			rd.err = perr.Wrapf(err, perr.ErrorCodeJSON, "geojson: line %d is not a feature", rd.line)
			return nil, rd.err
		}
		rd.features++
		rd.bytes += int64(len(line) + 1)
		return f, nil
	}
}

// Features returns how many features have been yielded so far
func (rd *Reader) Features() int { return rd.features }

// Bytes returns how many feature bytes have been consumed so far
func (rd *Reader) Bytes() int64 { return rd.bytes }

// Close closes the gzip layer and the underlying reader
func (rd *Reader) Close() error {
	var first error
	if rd.gz != nil {
		if err := rd.gz.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			first = err
		}
	}
	if rd.r != nil {
		if err := rd.r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
