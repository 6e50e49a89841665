package domain

import (
	"context"

	"querygate/internal/core/token"
)

// CredentialStore checks a login identity
type CredentialStore interface {
	CheckLogin(ctx context.Context, c Credentials) bool
}

// TokenCodec signs and verifies bearer tokens
type TokenCodec interface {
	Sign(subject, issuer, audience string, ttlMillis int64, secret []byte) (string, error)
	Verify(raw string, secret []byte) (token.Claims, error)
}

// PolicyPort decides whether a request may reach the query engine
type PolicyPort interface {
	Decide(ctx context.Context, in Inbound) Decision
}
