package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"querygate/internal/core/token"
	ptime "querygate/internal/platform/time"
	"querygate/internal/services/auth/domain"
	"querygate/internal/services/auth/repo"
	"querygate/internal/services/auth/service"
)

var (
	now    = time.Date(2024, 5, 1, 8, 0, 0, 0, ptime.UTCPlus8)
	secret = []byte("test-secret-test-secret")
	tokens = domain.TokenConfig{Issuer: "oap", Audience: "ui", Secret: secret, TTLMillis: 1_800_000}
)

func newPolicy(t *testing.T, mut func(*service.Config)) *service.Policy {
	t.Helper()
	cfg := service.Config{
		Policy: domain.PolicyConfig{ExemptPaths: []string{"/agent/gRPC"}},
		Tokens: tokens,
		Store:  repo.NewStatic(domain.Credentials{UserName: "admin", Password: "pw"}),
		Codec:  token.Codec{Now: func() time.Time { return now }},
		Clock:  ptime.Fixed(now),
	}
	if mut != nil {
		mut(&cfg)
	}
	return service.New(cfg)
}

func in(path string, body string, kv ...string) domain.Inbound {
	h := http.Header{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return domain.Inbound{Path: path, Header: h, Body: []byte(body)}
}

func mustReject(t *testing.T, d domain.Decision, status int, msg string) {
	t.Helper()
	if d.Authorized {
		t.Fatalf("expected unauthorized, got %+v", d)
	}
	if d.ShortCircuit == nil {
		t.Fatalf("expected short-circuit, got %+v", d)
	}
	if d.ShortCircuit.Status != status || d.ShortCircuit.Body.BizCode != status {
		t.Fatalf("status=%d biz=%d, want %d", d.ShortCircuit.Status, d.ShortCircuit.Body.BizCode, status)
	}
	if got := d.ShortCircuit.Body.Messages(); len(got) != 1 || got[0] != msg {
		t.Fatalf("messages = %v, want [%s]", got, msg)
	}
	if d.ShortCircuit.Body.Data != nil {
		t.Fatalf("reject must carry no data, got %#v", d.ShortCircuit.Body.Data)
	}
}

func sign(t *testing.T, ttl int64) string {
	t.Helper()
	raw, err := token.Codec{Now: func() time.Time { return now }}.Sign("admin", "oap", "ui", ttl, secret)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestDecide_Exempt(t *testing.T) {
	p := newPolicy(t, nil)
	ctx := context.Background()

	d := p.Decide(ctx, in("/graphql", "", "apmurl", "/api/check"))
	if !d.Authorized || d.ShortCircuit != nil || d.Outcome != domain.OutcomeExempt {
		t.Fatalf("check marker should exempt: %+v", d)
	}

	d = p.Decide(ctx, in("/agent/gRPC", `{"query":"x"}`))
	if !d.Authorized || d.ShortCircuit != nil {
		t.Fatalf("exempt path should pass: %+v", d)
	}

	// marker check wins even with a garbage Authorization header
	d = p.Decide(ctx, in("/graphql", "", "apmurl", "/api/check", "Authorization", "garbage"))
	if !d.Authorized {
		t.Fatalf("exempt should win over token check: %+v", d)
	}
}

func TestDecide_LoginSuccess(t *testing.T) {
	p := newPolicy(t, nil)
	for _, body := range []string{
		`{"userName":"admin","password":"pw"}`,
		`{"username":"admin","password":"pw"}`,
		`{"userName":"admin","password":"pw","remember":true}`,
	} {
		d := p.Decide(context.Background(), in("/graphql", body, "apmurl", "/api/login/account"))
		if d.Authorized {
			t.Fatalf("login success must report authorized=false: %+v", d)
		}
		if d.ShortCircuit == nil || d.ShortCircuit.Status != http.StatusOK || d.ShortCircuit.Body.BizCode != 200 {
			t.Fatalf("login success must short-circuit 200: %+v", d.ShortCircuit)
		}
		if len(d.ShortCircuit.Body.Errors) != 0 {
			t.Fatalf("login success errors = %v", d.ShortCircuit.Body.Errors)
		}
		data, _ := d.ShortCircuit.Body.Data.(string)
		if len(data) <= len("bearer;") || data[:7] != "bearer;" {
			t.Fatalf("data = %q, want bearer;<jwt>", data)
		}

		claims, err := token.Codec{}.Verify(data[7:], secret)
		if err != nil {
			t.Fatalf("issued token does not verify: %v", err)
		}
		if claims.Subject != "admin" || claims.Issuer != "oap" || claims.Audience != "ui" {
			t.Fatalf("claims = %+v", claims)
		}
		if claims.ExpiresAt != now.Unix()+1800 {
			t.Fatalf("exp = %d, want %d", claims.ExpiresAt, now.Unix()+1800)
		}
	}
}

func TestDecide_LoginFailure(t *testing.T) {
	p := newPolicy(t, func(c *service.Config) { c.Policy.LoginError = "bad login" })
	for name, body := range map[string]string{
		"empty":          "",
		"wrong password": `{"userName":"admin","password":"nope"}`,
		"wrong user":     `{"userName":"root","password":"pw"}`,
		"not json":       `userName=admin&password=pw`,
		"missing fields": `{}`,
		"array":          `[1,2]`,
	} {
		t.Run(name, func(t *testing.T) {
			d := p.Decide(context.Background(), in("/graphql", body, "apmurl", "/api/login/account"))
			mustReject(t, d, http.StatusForbidden, "bad login")
			if d.Outcome != domain.OutcomeLoginFailed {
				t.Fatalf("outcome = %s", d.Outcome)
			}
		})
	}
}

func TestDecide_LoginDefaultWording(t *testing.T) {
	d := newPolicy(t, nil).Decide(context.Background(), in("/graphql", "", "apmurl", "/api/login/account"))
	mustReject(t, d, http.StatusForbidden, "userName or password error!")
}

func TestDecide_ProtectedRejections(t *testing.T) {
	p := newPolicy(t, nil)
	valid := sign(t, 60_000)
	other, _ := token.Codec{Now: func() time.Time { return now }}.Sign("admin", "oap", "ui", 60_000, []byte("another"))

	cases := map[string]string{
		"missing header":   "",
		"Bearer scheme":    "Bearer " + valid,
		"bearer space":     "bearer " + valid,
		"upper prefix":     "BEARER;" + valid,
		"empty token":      "bearer;",
		"garbage token":    "bearer;not-a-jwt",
		"wrong secret":     "bearer;" + other,
		"expired -1000 ms": "bearer;" + sign(t, -1000),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			kv := []string{}
			if header != "" {
				kv = append(kv, "Authorization", header)
			}
			d := p.Decide(context.Background(), in("/graphql", `{"query":"x"}`, kv...))
			mustReject(t, d, http.StatusUnauthorized, "no token info")
		})
	}
}

func TestDecide_ProtectedAccepts(t *testing.T) {
	p := newPolicy(t, nil)
	d := p.Decide(context.Background(), in("/graphql", "", "Authorization", "bearer;"+sign(t, 60_000)))
	if !d.Authorized || d.ShortCircuit != nil || d.Subject != "admin" {
		t.Fatalf("valid token rejected: %+v", d)
	}

	// exp == now is still accepted, only exp < now is expired
	d = p.Decide(context.Background(), in("/graphql", "", "authorization", "bearer;"+sign(t, 0)))
	if !d.Authorized {
		t.Fatalf("token expiring this second should pass: %+v", d)
	}
}

func TestDecide_ExpiryUsesInjectedClock(t *testing.T) {
	raw := sign(t, 60_000)
	later := newPolicy(t, func(c *service.Config) { c.Clock = ptime.Fixed(now.Add(2 * time.Minute)) })
	d := later.Decide(context.Background(), in("/graphql", "", "Authorization", "bearer;"+raw))
	if d.Outcome != domain.OutcomeExpired {
		t.Fatalf("outcome = %s, want expired", d.Outcome)
	}
}

// stubCodec lets tests force unusual verify results
type stubCodec struct {
	claims token.Claims
	err    error
	panic  any
}

func (s stubCodec) Sign(string, string, string, int64, []byte) (string, error) {
	return "", errors.New("sign disabled")
}

func (s stubCodec) Verify(string, []byte) (token.Claims, error) {
	if s.panic != nil {
		panic(s.panic)
	}
	return s.claims, s.err
}

func TestDecide_MissingExpiryIs400(t *testing.T) {
	p := newPolicy(t, func(c *service.Config) { c.Codec = stubCodec{claims: token.Claims{Subject: "admin"}} })
	d := p.Decide(context.Background(), in("/graphql", "", "Authorization", "bearer;x"))
	mustReject(t, d, http.StatusBadRequest, "token has no exp claim")
}

func TestDecide_PanicIs400WithMessage(t *testing.T) {
	p := newPolicy(t, func(c *service.Config) { c.Codec = stubCodec{panic: "claims map broken"} })
	d := p.Decide(context.Background(), in("/graphql", "", "Authorization", "bearer;x"))
	mustReject(t, d, http.StatusBadRequest, "claims map broken")
	if d.Outcome != domain.OutcomeMalformed {
		t.Fatalf("outcome = %s", d.Outcome)
	}
}

func TestDecide_SignFailureIs400(t *testing.T) {
	p := newPolicy(t, func(c *service.Config) { c.Codec = stubCodec{} })
	d := p.Decide(context.Background(), in("/graphql", `{"userName":"admin","password":"pw"}`, "apmurl", "/api/login/account"))
	mustReject(t, d, http.StatusBadRequest, "sign disabled")
}

func TestDecide_CustomMarkers(t *testing.T) {
	p := newPolicy(t, func(c *service.Config) {
		c.Policy.Markers = domain.Markers{Header: "X-Gate", CheckValue: "probe", LoginValue: "signin"}
	})
	if d := p.Decide(context.Background(), in("/graphql", "", "X-Gate", "probe")); !d.Authorized {
		t.Fatalf("custom check marker ignored: %+v", d)
	}
	// the default marker no longer means anything
	d := p.Decide(context.Background(), in("/graphql", "", "apmurl", "/api/check"))
	mustReject(t, d, http.StatusUnauthorized, "no token info")

	d = p.Decide(context.Background(), in("/graphql", `{"userName":"admin","password":"pw"}`, "X-Gate", "signin"))
	if d.Outcome != domain.OutcomeLoginOK {
		t.Fatalf("custom login marker ignored: %+v", d)
	}
}
