// Package domain defines the auth policy types and the ports it depends on
package domain

import (
	"net/http"

	pnet "querygate/internal/platform/net"
)

// BearerPrefix is the literal scheme the Authorization header must start with
// note the semicolon; "Bearer " is not accepted
const BearerPrefix = "bearer;"

// Default marker and wording values
const (
	DefaultMarkerHeader = "apmurl"
	DefaultCheckValue   = "/api/check"
	DefaultLoginValue   = "/api/login/account"
	DefaultExemptPath   = "/agent/gRPC"
	DefaultLoginError   = "userName or password error!"
	NoTokenInfo         = "no token info"
)

// Credentials is the single accepted login identity
type Credentials struct {
	UserName string
	Password string
}

// TokenConfig holds token issuance parameters
type TokenConfig struct {
	Issuer    string // jwt.name
	Audience  string // jwt.clientId
	Secret    []byte // decoded jwt.base64Secret
	TTLMillis int64  // jwt.expiresMillisSecond
}

// Markers names the header that tags check and login requests
type Markers struct {
	Header     string
	CheckValue string
	LoginValue string
}

// PolicyConfig is the static input of the auth policy
type PolicyConfig struct {
	Markers     Markers
	ExemptPaths []string
	LoginError  string
}

// Inbound is the part of a request the policy looks at
type Inbound struct {
	Path   string
	Header http.Header
	Body   []byte
}

// Outcome labels a decision for logs and metrics
type Outcome string

// Outcome values
const (
	OutcomeExempt       Outcome = "exempt"
	OutcomeLoginOK      Outcome = "login_ok"
	OutcomeLoginFailed  Outcome = "login_failed"
	OutcomeNoToken      Outcome = "no_token"
	OutcomeInvalidToken Outcome = "invalid_token"
	OutcomeExpired      Outcome = "expired"
	OutcomeMalformed    Outcome = "malformed"
	OutcomeAuthorized   Outcome = "authorized"
)

// ShortCircuit is a finished response the gateway returns without running the query
type ShortCircuit struct {
	Status int
	Body   pnet.Envelope
}

// Decision is the policy verdict for one request
// a present ShortCircuit wins regardless of Authorized
type Decision struct {
	Authorized   bool
	Subject      string
	Outcome      Outcome
	ShortCircuit *ShortCircuit
}

// Reject builds an unauthorized decision that short-circuits with status and message
func Reject(outcome Outcome, status int, message string) Decision {
	return Decision{
		Outcome: outcome,
		ShortCircuit: &ShortCircuit{
			Status: status,
			Body:   pnet.Fail(status, message),
		},
	}
}
