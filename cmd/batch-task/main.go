// batch-task processes one job: it streams the job's processed
// GeoJSON output, accumulates geometry statistics, resolves the job's
// coverage to a region, and stamps the job complete.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"batch/internal/modkit"
	"batch/internal/modkit/module"
	"batch/internal/platform/config"
	"batch/internal/platform/logger"
	"batch/internal/platform/store"

	"batch/internal/adapters/ingest/geojson"
	"batch/internal/adapters/ingest/sources"
	"batch/internal/core/geostats"

	jobsmod "batch/internal/services/jobs/module"
	regionsmod "batch/internal/services/regions/module"
	resultsmod "batch/internal/services/results/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	taskCfg := root.Prefix("CORE_TASK_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var (
		fJob   = flag.Int64("job", 0, "job id to process")
		fInput = flag.String("input", "", "processed GeoJSON stream: file path or http(s) URL, gzip ok")
	)
	flag.Parse()

	if *fJob <= 0 || *fInput == "" {
		log.Fatal("-job and -input are required")
	}

	deps := modkit.Deps{
		Cfg: taskCfg,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	fetcher := sources.NewFetcher(sources.Options{
		UserAgent: taskCfg.MayString("SOURCES_USER_AGENT", "batch-task"),
		Timeout:   taskCfg.MayDuration("SOURCES_TIMEOUT", 0),
	})

	regions := regionsmod.New(deps)
	results := resultsmod.New(deps)
	jobs := jobsmod.New(deps, fetcher,
		module.MustPortsOf[regionsmod.Ports](regions).Resolver,
		module.MustPortsOf[resultsmod.Ports](results).Sink,
	)

	module.Register(regions.Name(), regions.Ports())
	module.Register(results.Name(), results.Ports())
	module.Register(jobs.Name(), jobs.Ports())

	ports := jobs.Ports().(jobsmod.Ports)

	ctx := context.Background()

	j, err := ports.Query.Get(ctx, *fJob)
	if err != nil {
		l.Fatal().Err(err).Int64("job", *fJob).Msg("job lookup failed")
	}

	in, err := openInput(ctx, *fInput)
	if err != nil {
		l.Fatal().Err(err).Str("input", *fInput).Msg("open input failed")
	}
	defer in.Close()

	r, err := geojson.NewReader(in)
	if err != nil {
		l.Fatal().Err(err).Msg("bad input stream")
	}
	defer r.Close()

	started := time.Now()
	stats, err := geostats.Compute(ctx, r, j.Layer)
	if err != nil {
		l.Error().Err(err).Int64("job", j.ID).Msg("stats failed")
		if _, serr := ports.Writer.SetStatus(ctx, j.ID, "Fail"); serr != nil {
			l.Error().Err(serr).Int64("job", j.ID).Msg("could not mark failure")
		}
		os.Exit(1)
	}

	done, err := ports.Writer.Complete(ctx, j.ID, stats)
	if err != nil {
		l.Fatal().Err(err).Int64("job", j.ID).Msg("complete failed")
	}

	l.Info().
		Int64("job", done.ID).
		Int64("features", stats.Count).
		Dur("took", time.Since(started)).
		Msg("job processed")
}

func openInput(ctx context.Context, input string) (io.ReadCloser, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, input, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &statusErr{url: input, status: resp.Status}
		}
		return resp.Body, nil
	}
	return os.Open(input)
}

type statusErr struct {
	url    string
	status string
}

func (e *statusErr) Error() string { return "fetch " + e.url + ": " + e.status }
