package http

import (
	stdhttp "net/http"

	"querygate/internal/platform/logger"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler mounts pprof under prefix when enabled. Example: "/debug"
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	// emulate r.Mount by stripping the prefix before handing off to the profiler mux
	h := stdhttp.StripPrefix(prefix, mw.Profiler())
	serve := func(w stdhttp.ResponseWriter, req *stdhttp.Request) { h.ServeHTTP(w, req) }

	r.Get(prefix, serve)
	r.Get(prefix+"/*", serve)
	logger.Named("http").Warn().Str("prefix", prefix).Msg("pprof endpoints exposed")
}
