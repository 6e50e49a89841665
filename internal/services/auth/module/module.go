// Package module wires the auth policy and exposes it as a port
package module

import (
	"querygate/internal/core/token"
	"querygate/internal/modkit"
	perr "querygate/internal/platform/errors"
	phttp "querygate/internal/platform/net/http"
	"querygate/internal/services/auth/domain"
	"querygate/internal/services/auth/repo"
	"querygate/internal/services/auth/service"
)

// Ports is what other modules may use from auth
type Ports struct {
	Policy domain.PolicyPort
}

// Module defines the auth module; it owns no routes
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New builds the credential store, token codec and policy from opts
func New(deps modkit.Deps, opts Options) (*Module, error) {
	store, err := newStore(opts)
	if err != nil {
		return nil, err
	}
	if len(opts.Tokens.Secret) == 0 {
		return nil, perr.Configf("auth: empty token secret")
	}

	deps.Logger("auth").Info().
		Str("store", storeKind(opts)).
		Strs("exempt_paths", opts.Policy.ExemptPaths).
		Int64("ttl_ms", opts.Tokens.TTLMillis).
		Msg("auth policy ready")

	policy := service.New(service.Config{
		Policy: opts.Policy,
		Tokens: opts.Tokens,
		Store:  store,
		Codec:  token.Codec{},
	})
	return &Module{deps: deps, ports: Ports{Policy: policy}}, nil
}

func newStore(opts Options) (domain.CredentialStore, error) {
	if opts.UserName == "" {
		return nil, perr.Configf("auth: empty username")
	}
	if opts.PasswordHash != "" {
		st, err := repo.NewArgon2(opts.UserName, opts.PasswordHash)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeConfig, "auth: password hash")
		}
		return st, nil
	}
	if opts.Password == "" {
		return nil, perr.Configf("auth: set AUTH_PASSWORD or AUTH_PASSWORD_HASH")
	}
	return repo.NewStatic(domain.Credentials{UserName: opts.UserName, Password: opts.Password}), nil
}

func storeKind(opts Options) string {
	if opts.PasswordHash != "" {
		return "argon2"
	}
	return "static"
}

// Ports returns the module ports (Policy)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "auth" }

// MountRoutes returns no HTTP routes; login is served through the gateway path
func (m *Module) MountRoutes(_ phttp.Router) {}
