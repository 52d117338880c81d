// Package module wires the jobs service
package module

import (
	"batch/internal/modkit"
	"batch/internal/modkit/httpkit"
	"batch/internal/services/jobs/domain"
	"batch/internal/services/jobs/repo"
	"batch/internal/services/jobs/service"
	regdomain "batch/internal/services/regions/domain"
)

// Ports exposed by the jobs module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
}

// Module implements the jobs service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the jobs module. The coverage fetcher and region
// resolver come from the caller so module wiring stays acyclic; the
// results sink may be nil
func New(
	deps modkit.Deps,
	fetch domain.CoverageFetcher,
	resolver regdomain.ResolverPort,
	results domain.ResultsSink,
) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		ListLimit: opts.ListLimit,
	}, fetch, resolver, results)

	m := &Module{deps: deps}
	m.ports = Ports{
		Writer: svc,
		Query:  svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "jobs" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
