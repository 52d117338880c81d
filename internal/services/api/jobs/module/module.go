// Package module wires the jobs surface into the API using modkit
package module

import (
	"net/http"

	modkit "batch/internal/modkit"
	"batch/internal/modkit/httpkit"

	jobshttp "batch/internal/services/api/jobs/http"
	jobsdomain "batch/internal/services/jobs/domain"
)

// Module implements the jobs API module
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
	Writer jobsdomain.WriterPort
	Query  jobsdomain.QueryPort
}

// New constructs the jobs module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("jobs"),
		modkit.WithPrefix("/jobs"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Writer == nil || injected.Query == nil {
		panic("jobs API module requires the jobs writer and query ports")
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
		jobshttp.Register(r, injected.Writer, injected.Query)
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
