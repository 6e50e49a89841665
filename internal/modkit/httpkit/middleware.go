package httpkit

import (
	"net/http"
	"time"

	"querygate/internal/platform/config"
	"querygate/internal/platform/net/middleware"
)

// StackOptions shapes CommonStack
type StackOptions struct {
	Timeout      time.Duration
	CORS         middleware.CORSOptions
	ExtraHeaders []string // appended to the CORS allowed headers
	AccessLog    middleware.AccessLogOptions
}

// StackFromConfig reads with CORE_API_ prefix
func StackFromConfig(cfg config.Conf) StackOptions {
	c := cfg.Prefix("CORE_API_")
	return StackOptions{
		Timeout: c.MayDuration("REQUEST_TIMEOUT", 60*time.Second),
		CORS: middleware.CORSOptions{
			AllowedOrigins: c.MayCSV("CORS_ORIGINS", nil),
			MaxAge:         c.MayInt("CORS_MAX_AGE", 300),
		},
		AccessLog: middleware.AccessLogOptions{
			Slow: c.MayDuration("SLOW_REQUEST", time.Second),
			Skip: c.MayCSV("ACCESS_LOG_SKIP", []string{"/metrics", "/api/v1/meta/health"}),
		},
	}
}

// CommonStack returns the baseline middleware slice
// order: correlation and recovery first, then cors, then the access log closest to handlers
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	stack := middleware.Defaults(o.Timeout)
	return append(stack,
		middleware.CORS(o.CORS, o.ExtraHeaders...),
		middleware.AccessLogZerolog(o.AccessLog),
	)
}
