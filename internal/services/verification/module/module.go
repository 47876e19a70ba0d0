// Package module wires verification into the API using modkit
package module

import (
	"net/http"

	modkit "repocred/internal/modkit"
	"repocred/internal/modkit/httpkit"
	str "repocred/internal/platform/strings"

	"repocred/internal/adapters/provider/github"
	verifhttp "repocred/internal/services/verification/http"
	verifrepo "repocred/internal/services/verification/repo"
	verifsvc "repocred/internal/services/verification/service"
)

// Ports exposes the verifier to other modules
type Ports struct {
	Verifier verifsvc.Service
}

// Module implements the verification module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc verifsvc.Service
}

// New constructs the verification module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("verification"),
		modkit.WithPrefix("/verification"),
	}, opts...)...)

	o := FromConfig(deps.Cfg)

	pv := github.NewClient(github.Options{
		TokensCSV:  o.TokensCSV,
		Timeout:    o.FetchTimeout,
		MaxRetries: o.FetchRetries,
	})
	reports := verifrepo.NewStore(deps.PG, o.SaveAttempts)
	telemetry := verifrepo.NewTelemetry(deps.PG, deps.CH)

	svc := verifsvc.New(pv, reports, telemetry, verifsvc.Config{
		MaxCommits: o.MaxCommits,
		Thresholds: o.Thresholds,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Verifier: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		verifhttp.Register(r, m.svc)
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
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
