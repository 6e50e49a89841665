// Package metrics exposes Prometheus counters for auth decisions and query executions
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"querygate/internal/platform/config"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway collectors on a private registry
// a nil or disabled Metrics is a no-op
type Metrics struct {
	enabled bool
	reg     *prometheus.Registry

	authDecisions   *prometheus.CounterVec
	queryExecutions *prometheus.CounterVec
	queryDuration   prometheus.Histogram
	httpRequests    *prometheus.CounterVec
}

// Enabled reads METRICS_ENABLED, default true
func Enabled(cfg config.Conf) bool { return cfg.Prefix("METRICS_").MayBool("ENABLED", true) }

// New creates and registers the collectors; enabled=false returns a no-op
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}
	if !enabled {
		return m
	}
	m.reg = prometheus.NewRegistry()
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(m.reg)

	m.authDecisions = f.NewCounterVec(prometheus.CounterOpts{
		Name: "querygate_auth_decisions_total",
		Help: "Auth policy decisions by outcome",
	}, []string{"outcome"})

	m.queryExecutions = f.NewCounterVec(prometheus.CounterOpts{
		Name: "querygate_query_executions_total",
		Help: "Engine executions by result",
	}, []string{"result"})

	m.queryDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "querygate_query_duration_seconds",
		Help:    "Engine execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	m.httpRequests = f.NewCounterVec(prometheus.CounterOpts{
		Name: "querygate_http_requests_total",
		Help: "HTTP requests by method and status code",
	}, []string{"method", "code"})

	return m
}

// Enabled reports whether collectors are live
func (m *Metrics) Enabled() bool { return m != nil && m.enabled }

// RecordDecision counts one auth policy outcome
func (m *Metrics) RecordDecision(outcome string) {
	if !m.Enabled() {
		return
	}
	m.authDecisions.WithLabelValues(outcome).Inc()
}

// RecordQuery counts one engine execution and observes its duration
func (m *Metrics) RecordQuery(result string, d time.Duration) {
	if !m.Enabled() {
		return
	}
	m.queryExecutions.WithLabelValues(result).Inc()
	m.queryDuration.Observe(d.Seconds())
}

// Middleware counts requests by method and final status
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !m.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.httpRequests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
		})
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if !m.Enabled() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Gatherer exposes the registry for tests and custom exporters
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if !m.Enabled() {
		return prometheus.Gatherers{}
	}
	return m.reg
}
