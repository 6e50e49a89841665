// Package telemetry configures OpenTelemetry tracing for inbound and outbound HTTP
package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"querygate/internal/platform/config"
	"querygate/internal/platform/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Options controls the tracer provider
type Options struct {
	Service  string
	Endpoint string // host:port of an OTLP/HTTP collector; empty keeps spans in process
	Headers  map[string]string
	Insecure bool
	Timeout  time.Duration
	Required bool // fail startup when the exporter cannot be built
	Sampler  string
	Ratio    string
}

// FromConfig reads with OTEL_ prefix
func FromConfig(cfg config.Conf, service string) Options {
	c := cfg.Prefix("OTEL_")
	return Options{
		Service:  c.MayString("SERVICE_NAME", service),
		Endpoint: c.MayString("EXPORTER_OTLP_ENDPOINT", ""),
		Headers:  parseHeaders(c.MayString("EXPORTER_OTLP_HEADERS", "")),
		Insecure: c.MayBool("EXPORTER_OTLP_INSECURE", false),
		Timeout:  c.MayDuration("EXPORTER_OTLP_TIMEOUT", 5*time.Second),
		Required: c.MayBool("REQUIRED", false),
		Sampler:  c.MayString("TRACES_SAMPLER", "parentbased_traceidratio"),
		Ratio:    c.MayString("TRACES_SAMPLER_ARG", "1"),
	}
}

// Init installs a global tracer provider and propagator and returns its shutdown func
func Init(ctx context.Context, o Options) (func(context.Context) error, error) {
	res, err := newResource(o.Service)
	if err != nil {
		return nil, err
	}
	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(o.Sampler, o.Ratio)),
	}

	if o.Endpoint != "" {
		exp, err := otlptracehttp.New(ctx, exporterOptions(o)...)
		switch {
		case err != nil && o.Required:
			return nil, err
		case err != nil:
			logger.Named("telemetry").Warn().Err(err).Msg("otlp exporter disabled")
		default:
			tpOpts = append(tpOpts, sdktrace.WithBatcher(exp))
		}
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// newResource merges the sdk defaults with the service name
// semconv must match the schema resource.Default uses or the merge fails
func newResource(service string) (*resource.Resource, error) {
	service = strings.TrimSpace(service)
	if service == "" {
		service = "querygate"
	}
	return resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(service),
	))
}

func exporterOptions(o Options) []otlptracehttp.Option {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(o.Endpoint)}
	if o.Timeout > 0 {
		opts = append(opts, otlptracehttp.WithTimeout(o.Timeout))
	}
	if o.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(o.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(o.Headers))
	}
	return opts
}

// Sampler maps the OTEL_TRACES_SAMPLER names onto sdk samplers
// the ratio is clamped to [0,1] and defaults to 1
func Sampler(name, arg string) sdktrace.Sampler {
	ratio := 1.0
	if v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64); err == nil {
		ratio = min(max(v, 0), 1)
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "always_on":
		return sdktrace.AlwaysSample()
	case "always_off":
		return sdktrace.NeverSample()
	case "traceidratio":
		return sdktrace.TraceIDRatioBased(ratio)
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// HTTPMiddleware instruments inbound handlers; the operation name is the service
func HTTPMiddleware(service string) func(http.Handler) http.Handler {
	return otelhttp.NewMiddleware(service)
}

// InstrumentClient wraps client's transport so outbound calls carry trace context
func InstrumentClient(client *http.Client) *http.Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client.Transport = otelhttp.NewTransport(base)
	return client
}

func parseHeaders(raw string) map[string]string {
	out := map[string]string{}
	for part := range strings.SplitSeq(raw, ",") {
		k, v, ok := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
