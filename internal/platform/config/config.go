// Package config handles application configuration via environment variables
// with an optional overlay of values loaded from a properties file
package config

import (
	"encoding/base64"
	"maps"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"querygate/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g. "AUTH_", "ENGINE_")
// Use New() for global access, or Prefix("AUTH_") for module scopes.
// Environment variables always win over overlay values.
type Conf struct {
	prefix  string
	overlay map[string]string
}

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("AUTH_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p, overlay: c.overlay} }

// Overlay returns a Conf that falls back to vals when an env var is unset
// keys in vals are fully-qualified env names (e.g. "AUTH_JWT_NAME"); later overlays win
func (c Conf) Overlay(vals map[string]string) Conf {
	merged := make(map[string]string, len(c.overlay)+len(vals))
	maps.Copy(merged, c.overlay)
	maps.Copy(merged, vals)
	return Conf{prefix: c.prefix, overlay: merged}
}

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the trimmed env value, falling back to the overlay
func (c Conf) lookup(k string) string {
	full := c.key(k)
	if v := strings.TrimSpace(os.Getenv(full)); v != "" {
		return v
	}
	return strings.TrimSpace(c.overlay[full])
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required config")
	}
	return v
}

// MustInt64 panics if the given key is missing, empty, or not an integer
func (c Conf) MustInt64(key string) int64 {
	s := c.MustString(key)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid int value")
	}
	return v
}

// MustBase64 panics if the given key is missing or not valid standard base64
// the decoded bytes are returned, never the encoded string
func (c Conf) MustBase64(key string) []byte {
	s := c.MustString(key)
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) == 0 {
		logger.Get().Panic().Str("key", c.key(key)).Msg("invalid base64 value")
	}
	return b
}

// MustPort returns a Go net/http addr like ":4000" after validation 1..65535
func (c Conf) MustPort(key string) string {
	s := c.MustString(key)
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid TCP port; expected 1..65535")
	}
	return ":" + s
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("invalid int; using default")
	return def
}

// MayInt64 returns the value or def if missing/empty; logs and returns def if invalid
// negative values are allowed
func (c Conf) MayInt64(key string, def int64) int64 {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int64("default", def).Msg("invalid int64; using default")
	return def
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
	return def
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Dur("default", def).Msg("invalid duration; using default")
	return def
}

// MayURL returns nil when the key is unset and panics when it is set but not absolute
func (c Conf) MayURL(key string) *url.URL {
	s := c.lookup(key)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid absolute URL")
	}
	return u
}

// MayCSV returns a slice of strings from a comma-separated value; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	out := make([]string, 0, 4)
	for p := range strings.SplitSeq(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum ensures value is one of allowed; returns def if empty; panics if invalid.
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return "" // unreachable
}
