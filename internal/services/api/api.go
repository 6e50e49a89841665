// Package api composes the modules into the HTTP surface
package api

import (
	"net/http"

	"querygate/internal/adapters/engine/upstream"
	"querygate/internal/core/version"
	"querygate/internal/modkit"
	"querygate/internal/modkit/httpkit"
	"querygate/internal/modkit/module"
	"querygate/internal/modkit/swaggerkit"
	"querygate/internal/platform/config"
	"querygate/internal/platform/logger"
	"querygate/internal/platform/metrics"
	pnet "querygate/internal/platform/net"
	phttp "querygate/internal/platform/net/http"
	"querygate/internal/platform/telemetry"

	metahttp "querygate/internal/services/api/meta/http"
	metamod "querygate/internal/services/api/meta/module"
	authdomain "querygate/internal/services/auth/domain"
	authmod "querygate/internal/services/auth/module"
	querydomain "querygate/internal/services/query/domain"
	querymod "querygate/internal/services/query/module"
)

// Options are the API options
type Options struct {
	Config  config.Conf // root config, modules apply their own prefixes
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	// Engine overrides the upstream engine built from ENGINE_*
	Engine querydomain.Engine

	EnableSwagger  bool
	EnableProfiler bool
	EnableTracing  bool
}

// Mount builds the modules and mounts them onto r
// gateway paths sit at the root; meta lives under /api/v1
func Mount(r phttp.Router, opt Options) error {
	deps := modkit.Deps{
		Log:     opt.Logger,
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}

	authOpts := authmod.FromConfig(deps.Cfg)
	auth, err := authmod.New(deps, authOpts)
	if err != nil {
		return err
	}
	policy := module.MustPortsOf[authdomain.PolicyPort](auth)

	engine := opt.Engine
	if engine == nil {
		engine = upstream.New(upstream.FromConfig(deps.Cfg))
	}

	queryOpts := querymod.FromConfig(deps.Cfg, authOpts.Policy.ExemptPaths...)
	query := querymod.New(deps, queryOpts, modkit.WithPorts(querymod.Needs{
		Policy: policy,
		Engine: engine,
	}))

	// the engine port doubles as a readiness check when it can ping
	var checks []metahttp.Check
	if p, ok := module.PortsOf[metahttp.Pinger](query); ok {
		checks = append(checks, metahttp.Check{Name: "engine", Pinger: p})
	}
	meta := metamod.New(deps, checks)

	stackOpts := httpkit.StackFromConfig(deps.Cfg)
	stackOpts.ExtraHeaders = append(stackOpts.ExtraHeaders, authOpts.Policy.Markers.Header)
	stack := httpkit.CommonStack(stackOpts)
	stack = append(stack, opt.Metrics.Middleware())
	if opt.EnableTracing {
		stack = append([]func(http.Handler) http.Handler{telemetry.HTTPMiddleware(version.Info().Service)}, stack...)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		phttp.RespondEnvelope(w, http.StatusNotFound, pnet.Fail(http.StatusNotFound, "not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		phttp.RespondEnvelope(w, http.StatusMethodNotAllowed, pnet.Fail(http.StatusMethodNotAllowed, "method not allowed"))
	})

	r.Group(func(g httpkit.Router) {
		g.Use(stack...)
		auth.MountRoutes(g)
		query.MountRoutes(g)
		httpkit.MountAPIV1(g, nil, meta.MountRoutes)
	})

	if opt.Metrics.Enabled() {
		r.Handle("/metrics", opt.Metrics.Handler())
	}
	swaggerkit.Mount(r, opt.EnableSwagger, queryOpts.Paths...)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	deps.Logger("api").Info().
		Strs("gateway_paths", queryOpts.Paths).
		Bool("swagger", opt.EnableSwagger).
		Bool("profiler", opt.EnableProfiler).
		Bool("metrics", opt.Metrics.Enabled()).
		Msg("api mounted")
	return nil
}
