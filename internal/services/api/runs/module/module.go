// Package module wires the runs surface into the API using modkit
package module

import (
	"net/http"

	modkit "batch/internal/modkit"
	"batch/internal/modkit/httpkit"

	"batch/internal/services/api/runs/domain"
	runshttp "batch/internal/services/api/runs/http"
	runssvc "batch/internal/services/api/runs/service"
	jobsdomain "batch/internal/services/jobs/domain"
	runsdomain "batch/internal/services/runs/domain"
)

// Module implements the runs API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc runssvc.Service
}

// Ports declares the injected worker port(s) for this API module
type Ports struct {
	Runs     runsdomain.WriterPort
	RunsQ    runsdomain.QueryPort
	Jobs     jobsdomain.WriterPort
	Exploder domain.Exploder
}

// New constructs the runs module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("runs"),
		modkit.WithPrefix("/runs"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Runs == nil || injected.RunsQ == nil || injected.Jobs == nil || injected.Exploder == nil {
		panic("runs API module requires the runs, jobs, and exploder ports")
	}

	svc := runssvc.New(injected.Runs, injected.RunsQ, injected.Jobs, injected.Exploder)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = injected

	external := b.Register
	m.register = func(r httpkit.Router) {
		runshttp.Register(r, m.svc)
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
