// Package module wires the regions service
package module

import (
	"batch/internal/modkit"
	"batch/internal/modkit/httpkit"
	"batch/internal/services/regions/domain"
	"batch/internal/services/regions/repo"
	"batch/internal/services/regions/service"
)

// Ports exposed by the regions module
type Ports struct {
	Resolver domain.ResolverPort
	Query    domain.QueryPort
}

// Module implements the regions service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the regions module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		ProximityDegrees: opts.ProximityDegrees,
		ListLimit:        opts.ListLimit,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Resolver: svc,
		Query:    svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "regions" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
