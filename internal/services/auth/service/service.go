// Package service implements the per-request auth policy in front of the query engine
package service

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"querygate/internal/platform/logger"
	pnet "querygate/internal/platform/net"
	"querygate/internal/platform/net/http/bind"
	ptime "querygate/internal/platform/time"
	"querygate/internal/services/auth/domain"
)

// Config wires the policy
type Config struct {
	Policy domain.PolicyConfig
	Tokens domain.TokenConfig
	Store  domain.CredentialStore
	Codec  domain.TokenCodec
	// Clock defaults to the fixed UTC+8 clock
	Clock ptime.Clock
}

// Policy decides per request: exempt, login, or token check. First match wins
type Policy struct {
	cfg   domain.PolicyConfig
	tok   domain.TokenConfig
	store domain.CredentialStore
	codec domain.TokenCodec
	clock ptime.Clock
}

// loginOpts keep unknown keys harmless; the login body is a plain object
var loginOpts = bind.JSONOptions{DisallowUnknown: false}

// New builds a Policy, filling unset marker values with the defaults
func New(c Config) *Policy {
	pc := c.Policy
	if pc.Markers.Header == "" {
		pc.Markers.Header = domain.DefaultMarkerHeader
	}
	if pc.Markers.CheckValue == "" {
		pc.Markers.CheckValue = domain.DefaultCheckValue
	}
	if pc.Markers.LoginValue == "" {
		pc.Markers.LoginValue = domain.DefaultLoginValue
	}
	if pc.LoginError == "" {
		pc.LoginError = domain.DefaultLoginError
	}
	clock := c.Clock
	if clock == nil {
		clock = ptime.UTCPlus8Clock
	}
	return &Policy{cfg: pc, tok: c.Tokens, store: c.Store, codec: c.Codec, clock: clock}
}

// Decide implements domain.PolicyPort
func (p *Policy) Decide(ctx context.Context, in domain.Inbound) domain.Decision {
	marker := in.Header.Get(p.cfg.Markers.Header)

	switch {
	case marker == p.cfg.Markers.CheckValue || slices.Contains(p.cfg.ExemptPaths, in.Path):
		logger.C(ctx).Debug().Str("path", in.Path).Msg("auth exempt")
		return domain.Decision{Authorized: true, Outcome: domain.OutcomeExempt}
	case marker == p.cfg.Markers.LoginValue:
		return p.login(ctx, in.Body)
	default:
		return p.protected(ctx, in.Header.Get("Authorization"))
	}
}

// login checks the posted credentials and on success short-circuits with a fresh token
// a successful login still reports Authorized=false; the body is the whole answer
func (p *Policy) login(ctx context.Context, body []byte) domain.Decision {
	log := logger.C(ctx)
	fail := func(reason string) domain.Decision {
		log.Warn().Str("reason", reason).Msg("[auth fail] login rejected")
		return domain.Reject(domain.OutcomeLoginFailed, http.StatusForbidden, p.cfg.LoginError)
	}

	if len(body) == 0 {
		return fail("empty body")
	}
	form, err := bind.DecodeJSON[domain.LoginForm](body, loginOpts)
	if err != nil {
		return fail(err.Error())
	}
	if !p.store.CheckLogin(ctx, form.Credentials()) {
		return fail("credentials mismatch")
	}

	tok, err := p.codec.Sign(form.UserName, p.tok.Issuer, p.tok.Audience, p.tok.TTLMillis, p.tok.Secret)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		return domain.Reject(domain.OutcomeMalformed, http.StatusBadRequest, err.Error())
	}

	log.Info().Str("subject", form.UserName).Msg("login ok")
	return domain.Decision{
		Outcome: domain.OutcomeLoginOK,
		Subject: form.UserName,
		ShortCircuit: &domain.ShortCircuit{
			Status: http.StatusOK,
			Body:   pnet.OK(domain.BearerPrefix + tok),
		},
	}
}

// protected requires a valid, unexpired bearer token
// unexpected failures, panics included, become 400 with the failure text
func (p *Policy) protected(ctx context.Context, header string) (d domain.Decision) {
	log := logger.C(ctx)
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			log.Error().Interface("panic", r).Msg("[auth fail] panic while checking token")
			d = domain.Reject(domain.OutcomeMalformed, http.StatusBadRequest, msg)
		}
	}()

	noToken := func(outcome domain.Outcome, reason string) domain.Decision {
		log.Warn().Str("reason", reason).Msg("[auth fail] " + reason)
		return domain.Reject(outcome, http.StatusUnauthorized, domain.NoTokenInfo)
	}

	raw, ok := strings.CutPrefix(header, domain.BearerPrefix)
	if !ok {
		return noToken(domain.OutcomeNoToken, "no token")
	}
	if raw == "" {
		return noToken(domain.OutcomeNoToken, "token is empty")
	}

	claims, err := p.codec.Verify(raw, p.tok.Secret)
	if err != nil {
		return noToken(domain.OutcomeInvalidToken, "token is error")
	}
	if !claims.HasExpiry {
		log.Warn().Msg("[auth fail] token has no exp claim")
		return domain.Reject(domain.OutcomeMalformed, http.StatusBadRequest, "token has no exp claim")
	}
	if claims.ExpiresAt < p.clock.EpochSeconds() {
		return noToken(domain.OutcomeExpired, "token expired")
	}

	return domain.Decision{Authorized: true, Subject: claims.Subject, Outcome: domain.OutcomeAuthorized}
}
