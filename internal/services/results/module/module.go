// Package module wires the results service
package module

import (
	"batch/internal/modkit"
	"batch/internal/modkit/httpkit"
	"batch/internal/services/results/domain"
	"batch/internal/services/results/repo"
	"batch/internal/services/results/service"
)

// Ports exposed by the results module
type Ports struct {
	Sink  domain.SinkPort
	Query domain.QueryPort
}

// Module implements the results service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the results module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		ListLimit:     opts.ListLimit,
		RadiusDegrees: opts.RadiusDegrees,
	}, deps.CH)

	m := &Module{deps: deps}
	m.ports = Ports{
		Sink:  svc,
		Query: svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "results" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
