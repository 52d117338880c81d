// Package module wires the runs service
package module

import (
	"batch/internal/modkit"
	"batch/internal/modkit/httpkit"
	jobsdomain "batch/internal/services/jobs/domain"
	"batch/internal/services/runs/domain"
	"batch/internal/services/runs/repo"
	"batch/internal/services/runs/service"
)

// Ports exposed by the runs module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
}

// Module implements the runs service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the runs module
func New(deps modkit.Deps, jobs jobsdomain.QueryPort) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		ListLimit: opts.ListLimit,
		JobsLimit: opts.JobsLimit,
	}, jobs)

	m := &Module{deps: deps}
	m.ports = Ports{
		Writer: svc,
		Query:  svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "runs" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
