// Package repo holds the credential stores behind the login route
package repo

import (
	"context"
	"crypto/subtle"

	"querygate/internal/services/auth/domain"
)

// Static accepts exactly one plaintext username/password pair
// comparison is byte-exact and case-sensitive on both fields
type Static struct {
	want domain.Credentials
}

// NewStatic builds a store for the given identity
func NewStatic(c domain.Credentials) *Static { return &Static{want: c} }

// CheckLogin implements domain.CredentialStore
func (s *Static) CheckLogin(_ context.Context, c domain.Credentials) bool {
	// both compares always run so timing does not reveal which field failed
	u := subtle.ConstantTimeCompare([]byte(c.UserName), []byte(s.want.UserName))
	p := subtle.ConstantTimeCompare([]byte(c.Password), []byte(s.want.Password))
	return u&p == 1
}
