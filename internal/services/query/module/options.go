package module

import (
	"querygate/internal/platform/config"
	pstrings "querygate/internal/platform/strings"
)

// Options holds configuration settings for the query module
type Options struct {
	Paths    []string
	MaxBytes int64
}

// FromConfig reads with CORE_API_ prefix
// extra paths (the exempt ingestion paths) are routed to the gateway as well
func FromConfig(cfg config.Conf, extra ...string) Options {
	c := cfg.Prefix("CORE_API_")
	paths := c.MayCSV("GATEWAY_PATHS", []string{"/graphql"})
	return Options{
		Paths:    pstrings.Paths(append(paths, extra...)),
		MaxBytes: c.MayInt64("MAX_BODY_BYTES", 1<<20),
	}
}
