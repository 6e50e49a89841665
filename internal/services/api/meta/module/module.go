// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"querygate/internal/core/version"
	"querygate/internal/modkit"
	"querygate/internal/modkit/httpkit"
	str "querygate/internal/platform/strings"

	metahttp "querygate/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	built     modkit.Built
	checks    []metahttp.Check
	startedAt time.Time
}

// New constructs a meta module; checks feed the readiness probe
func New(deps modkit.Deps, checks []metahttp.Check, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	return &Module{
		deps:      deps,
		built:     b,
		checks:    checks,
		startedAt: time.Now(),
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName:  version.Info().Service,
			StartedAt:    m.startedAt,
			Checks:       m.checks,
			ReadyTimeout: m.deps.Cfg.Prefix("CORE_API_").MayDuration("READY_TIMEOUT", 2*time.Second),
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
