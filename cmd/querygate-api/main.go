// @title         querygate
// @version       0.1.0
// @description   Bearer token gate in front of a GraphQL query engine

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"querygate/internal/core/version"
	"querygate/internal/platform/config"
	"querygate/internal/platform/config/props"
	"querygate/internal/platform/logger"
	"querygate/internal/platform/metrics"
	phttp "querygate/internal/platform/net/http"
	"querygate/internal/platform/telemetry"

	"querygate/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bring up logging early
	l := logger.Get()

	// env wins over the properties file
	root := config.New()
	vals, err := props.Load(root.MayString("AUTH_PROPERTIES_FILE", ""))
	if err != nil {
		l.Panic().Err(err).Msg("properties load failed")
	}
	root = root.Overlay(vals)
	apiCfg := root.Prefix("CORE_API_")

	tracing := root.Prefix("OTEL_").MayBool("ENABLED", false)
	if tracing {
		shutdown, err := telemetry.Init(ctx, telemetry.FromConfig(root, version.Info().Service))
		if err != nil {
			l.Panic().Err(err).Msg("telemetry init failed")
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				l.Error().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	// http server (reads CORE_API_PORT and the timeouts)
	srv := phttp.NewServer(apiCfg)

	err = api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Logger:         l,
			Metrics:        metrics.New(metrics.Enabled(root)),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableTracing:  tracing,
		},
	)
	if err != nil {
		l.Panic().Err(err).Msg("api mount failed")
	}

	l.Info().Interface("build", version.Info()).Msg("starting")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
