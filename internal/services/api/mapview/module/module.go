// Package module wires the map surface into the API using modkit
package module

import (
	"net/http"

	modkit "batch/internal/modkit"
	"batch/internal/modkit/httpkit"

	maphttp "batch/internal/services/api/mapview/http"
	regdomain "batch/internal/services/regions/domain"
)

// Module implements the map API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// Ports declares the injected worker port(s) for this API module
type Ports struct {
	Query regdomain.QueryPort
}

// New constructs the map module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("map"),
		modkit.WithPrefix("/map"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Query == nil {
		panic("map API module requires the regions query port")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
	}
	m.ports = injected

	external := b.Register
	m.register = func(r httpkit.Router) {
		maphttp.Register(r, injected.Query)
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

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
