// Package api provides the HTTP API for the application
package api

import (
	"batch/internal/platform/config"
	"batch/internal/platform/logger"
	phttp "batch/internal/platform/net/http"
	"batch/internal/platform/store"

	"batch/internal/adapters/ingest/sources"
	"batch/internal/modkit"
	"batch/internal/modkit/httpkit"
	"batch/internal/modkit/module"
	"batch/internal/modkit/swaggerkit"

	datamod "batch/internal/services/api/data/module"
	jobsapimod "batch/internal/services/api/jobs/module"
	mapmod "batch/internal/services/api/mapview/module"
	metamod "batch/internal/services/api/meta/module"
	runsapimod "batch/internal/services/api/runs/module"
	statsmod "batch/internal/services/api/stats/module"

	// Worker modules (own the resolver, writer, and sink ports)
	jobsmod "batch/internal/services/jobs/module"
	regionsmod "batch/internal/services/regions/module"
	resultsmod "batch/internal/services/results/module"
	runsmod "batch/internal/services/runs/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	fetcher := sources.NewFetcher(sources.Options{
		UserAgent: opt.Config.Prefix("SOURCES_").MayString("USER_AGENT", "batch-api"),
		Timeout:   opt.Config.Prefix("SOURCES_").MayDuration("TIMEOUT", 0),
	})

	// Worker modules first so their ports can be injected into the API
	// surface. Jobs depends on regions (resolver) and results (sink);
	// runs depends on jobs (query)
	regions := regionsmod.New(deps)
	results := resultsmod.New(deps)
	jobs := jobsmod.New(deps, fetcher,
		module.MustPortsOf[regionsmod.Ports](regions).Resolver,
		module.MustPortsOf[resultsmod.Ports](results).Sink,
	)
	runs := runsmod.New(deps, module.MustPortsOf[jobsmod.Ports](jobs).Query)

	mods := []module.Module{
		metamod.New(deps),
		// workers first so the API modules' ports win the registry
		regions,
		results,
		jobs,
		runs,
		mapmod.New(deps, modkit.WithPorts(mapmod.Ports{
			Query: module.MustPortsOf[regionsmod.Ports](regions).Query,
		})),
		datamod.New(deps, modkit.WithPorts(datamod.Ports{
			Query: module.MustPortsOf[resultsmod.Ports](results).Query,
		})),
		jobsapimod.New(deps, modkit.WithPorts(jobsapimod.Ports{
			Writer: module.MustPortsOf[jobsmod.Ports](jobs).Writer,
			Query:  module.MustPortsOf[jobsmod.Ports](jobs).Query,
		})),
		runsapimod.New(deps, modkit.WithPorts(runsapimod.Ports{
			Runs:     module.MustPortsOf[runsmod.Ports](runs).Writer,
			RunsQ:    module.MustPortsOf[runsmod.Ports](runs).Query,
			Jobs:     module.MustPortsOf[jobsmod.Ports](jobs).Writer,
			Exploder: fetcher,
		})),
		statsmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
