// Package sources fetches v2 source documents and explodes them into job
// seeds, one per named source per layer
package sources

import (
	"context"
	"io"
	"net/http"
	"time"

	"batch/internal/core/coverage"
	perr "batch/internal/platform/errors"
	"batch/internal/platform/logger"
)

const (
	defaultTimeout = 10 * time.Second
	defaultUA      = "batch-api"

	// source definitions are small json documents
	maxDocBytes = 4 * 1024 * 1024
)

// Options configures the Fetcher
type Options struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher retrieves source documents over http
type Fetcher struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewFetcher creates a Fetcher with sane defaults
func NewFetcher(o Options) *Fetcher {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Fetcher{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("sources"),
	}
}

// Fetch retrieves and validates the source document at url
func (f *Fetcher) Fetch(ctx context.Context, url string) (*coverage.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "sources: bad url")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "sources: fetch failed")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.log.Warn().Err(cerr).Str("url", url).Msg("sources: body close failed")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "sources: unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocBytes))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "sources: read failed")
	}
	return coverage.Parse(body)
}

// Explode fetches url and enumerates its job seeds
func (f *Fetcher) Explode(ctx context.Context, url string) ([]coverage.JobSeed, error) {
	doc, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return doc.Explode(url)
}
