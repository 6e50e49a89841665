// Package props loads a java-style .properties file into a config overlay
// keyed by environment variable names
package props

import (
	"strings"

	perr "querygate/internal/platform/errors"

	"github.com/magiconair/properties"
)

// known maps the historical property names onto their env equivalents
var known = map[string]string{
	"jwt.clientId":            "AUTH_JWT_CLIENT_ID",
	"jwt.base64Secret":        "AUTH_JWT_BASE64_SECRET",
	"jwt.name":                "AUTH_JWT_NAME",
	"jwt.expiresMillisSecond": "AUTH_JWT_EXPIRES_MILLIS",
	"swauth.userName":         "AUTH_USERNAME",
	"swauth.password":         "AUTH_PASSWORD",
	"swauth.passwordHash":     "AUTH_PASSWORD_HASH",
}

// Load reads path and returns the overlay map; an empty path yields an empty map
func Load(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return map[string]string{}, nil
	}
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "load properties %s", path)
	}
	return overlay(p), nil
}

// LoadString parses properties text, mostly for tests and embedded defaults
func LoadString(s string) (map[string]string, error) {
	p, err := properties.LoadString(s)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "parse properties")
	}
	return overlay(p), nil
}

// EnvKey returns the env var name a property key maps to
// unknown keys are upper-cased with dots and dashes turned into underscores
func EnvKey(key string) string {
	if k, ok := known[key]; ok {
		return k
	}
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

func overlay(p *properties.Properties) map[string]string {
	out := make(map[string]string, p.Len())
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		out[EnvKey(k)] = v
	}
	return out
}
