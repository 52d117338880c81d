// Package module wires stats into the API using modkit
package module

import (
	"net/http"

	modkit "batch/internal/modkit"
	"batch/internal/modkit/httpkit"

	statshttp "batch/internal/services/api/stats/http"
	statsrepo "batch/internal/services/api/stats/repo"
	statssvc "batch/internal/services/api/stats/service"
)

// Module implements the stats module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc statssvc.Service
}

// New constructs the stats module. Unlike the other API modules it owns
// its read path outright, binding its own repo against deps.PG
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("stats"),
		modkit.WithPrefix("/stats"),
	}, opts...)...)

	svc := statssvc.New(deps.PG, statsrepo.NewPG())

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptStatsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		statshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }
