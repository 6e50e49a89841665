// Package token signs and verifies the HS256 bearer tokens handed out on login
//
// Verify checks structure and signature only. Expiry is judged by the caller
// with its own clock so an expired but authentic token stays distinguishable
// from a forged one.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrEmptySecret is returned when signing or verifying without key material
	ErrEmptySecret = errors.New("token: empty secret")
	// ErrInvalid wraps every structural, algorithm or signature failure
	ErrInvalid = errors.New("token: invalid")
)

// Claims is the verified content of a token
type Claims struct {
	Subject  string
	Issuer   string
	Audience string
	ID       string

	IssuedAt  int64 // epoch seconds
	ExpiresAt int64 // epoch seconds, meaningful only when HasExpiry
	HasExpiry bool
}

// Codec signs and verifies tokens; the zero value is usable
type Codec struct {
	// Now defaults to time.Now
	Now func() time.Time
	// NewID defaults to a random uuid
	NewID func() string
}

var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Sign issues an HS256 token for subject with exp = iat + ttlMillis/1000
// the division truncates toward zero so a negative ttl yields a token that is already expired
func (c Codec) Sign(subject, issuer, audience string, ttlMillis int64, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	iat := c.now().Unix()
	exp := iat + ttlMillis/1000

	rc := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(time.Unix(iat, 0)),
		ExpiresAt: jwt.NewNumericDate(time.Unix(exp, 0)),
		ID:        c.newID(),
	}
	if audience != "" {
		rc.Audience = jwt.ClaimStrings{audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, rc).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses raw and checks the HMAC signature against secret
// time based claims are not validated here
func (c Codec) Verify(raw string, secret []byte) (Claims, error) {
	if len(secret) == 0 {
		return Claims{}, ErrEmptySecret
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods(hmacMethods),
		jwt.WithoutClaimsValidation(),
	)

	var rc jwt.RegisteredClaims
	tok, err := parser.ParseWithClaims(raw, &rc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !tok.Valid {
		return Claims{}, ErrInvalid
	}

	out := Claims{
		Subject: rc.Subject,
		Issuer:  rc.Issuer,
		ID:      rc.ID,
	}
	if len(rc.Audience) > 0 {
		out.Audience = rc.Audience[0]
	}
	if rc.IssuedAt != nil {
		out.IssuedAt = rc.IssuedAt.Unix()
	}
	if rc.ExpiresAt != nil {
		out.ExpiresAt = rc.ExpiresAt.Unix()
		out.HasExpiry = true
	}
	return out, nil
}

func (c Codec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Codec) newID() string {
	if c.NewID != nil {
		return c.NewID()
	}
	return uuid.NewString()
}
