package domain_test

import (
	"net/http"
	"testing"

	"querygate/internal/services/auth/domain"
)

func TestReject(t *testing.T) {
	d := domain.Reject(domain.OutcomeNoToken, http.StatusUnauthorized, domain.NoTokenInfo)
	if d.Authorized || d.ShortCircuit == nil {
		t.Fatalf("reject must short-circuit unauthorized: %+v", d)
	}
	if d.ShortCircuit.Status != 401 || d.ShortCircuit.Body.BizCode != 401 {
		t.Fatalf("status/biz mismatch: %+v", d.ShortCircuit)
	}
	if got := d.ShortCircuit.Body.Messages(); len(got) != 1 || got[0] != "no token info" {
		t.Fatalf("messages = %v", got)
	}
	if d.ShortCircuit.Body.Data != nil {
		t.Fatal("reject must carry no data")
	}
}

func TestLoginForm_Credentials(t *testing.T) {
	c := domain.LoginForm{UserName: "admin", Password: "pw"}.Credentials()
	if c != (domain.Credentials{UserName: "admin", Password: "pw"}) {
		t.Fatalf("credentials = %+v", c)
	}
}
