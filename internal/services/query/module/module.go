// Package module wires the query gateway into the API using modkit
package module

import (
	"net/http"

	"querygate/internal/modkit"
	"querygate/internal/modkit/httpkit"
	str "querygate/internal/platform/strings"
	authdomain "querygate/internal/services/auth/domain"
	"querygate/internal/services/query/domain"
	queryhttp "querygate/internal/services/query/http"
	"querygate/internal/services/query/service"
)

// Needs are the cross module ports injected with modkit.WithPorts
type Needs struct {
	Policy authdomain.PolicyPort
	Engine domain.Engine
}

// Ports exposed by the query module
type Ports struct {
	Gateway domain.GatewayPort
	Engine  domain.Engine
}

// Module implements the query module
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	opts  Options
	ports Ports
}

// New constructs the query module; Needs must be supplied via modkit.WithPorts
func New(deps modkit.Deps, opts Options, mo ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("query")}, mo...)...)

	needs, ok := b.Ports.(Needs)
	if !ok || needs.Policy == nil || needs.Engine == nil {
		deps.Logger("query").Panic().Msg("query module needs a policy and an engine")
	}

	gw := service.New(service.Config{
		Policy:  needs.Policy,
		Engine:  needs.Engine,
		Metrics: deps.Metrics,
	})

	deps.Logger("query").Info().Strs("paths", opts.Paths).Int64("max_body_bytes", opts.MaxBytes).Msg("gateway ready")

	return &Module{
		deps:  deps,
		built: b,
		opts:  opts,
		ports: Ports{Gateway: gw, Engine: needs.Engine},
	}
}

// MountRoutes mounts the gateway paths; they live at the root, not under /api/v1
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		queryhttp.Register(rr, queryhttp.Deps{
			Gateway:  m.ports.Gateway,
			Paths:    m.opts.Paths,
			MaxBytes: m.opts.MaxBytes,
		})
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.built.Prefix }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }

// Ports returns the module ports (Gateway, Engine)
func (m *Module) Ports() any { return m.ports }
