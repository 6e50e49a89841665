package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"querygate/internal/platform/config"
	pnet "querygate/internal/platform/net"
	"querygate/internal/platform/testkit"
)

func applyStack(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

func TestStackFromConfig(t *testing.T) {
	t.Setenv("CORE_API_CORS_ORIGINS", "https://ui.example, https://ops.example")
	t.Setenv("CORE_API_REQUEST_TIMEOUT", "5s")

	o := StackFromConfig(config.New())
	if o.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v", o.Timeout)
	}
	if len(o.CORS.AllowedOrigins) != 2 || o.CORS.AllowedOrigins[1] != "https://ops.example" {
		t.Fatalf("origins = %v", o.CORS.AllowedOrigins)
	}
	if o.AccessLog.Slow != time.Second {
		t.Fatalf("slow default = %v", o.AccessLog.Slow)
	}
}

func TestCommonStack_RequestReachesHandler(t *testing.T) {
	hit := 0
	root := applyStack(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit++
		w.WriteHeader(http.StatusNoContent)
	}), CommonStack(StackOptions{}))

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/graphql", nil))
	if hit != 1 || rr.Code != http.StatusNoContent {
		t.Fatalf("hit=%d code=%d", hit, rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected the request id to be echoed")
	}
}

func TestCommonStack_PanicBecomesEnvelope(t *testing.T) {
	root := applyStack(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), CommonStack(StackOptions{}))

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	testkit.MustStatus(t, rr, http.StatusInternalServerError)

	env := testkit.DecodeJSON[pnet.Envelope](t, rr)
	if env.Status != pnet.StatusOK || env.BizCode != http.StatusInternalServerError {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestCommonStack_CORSPreflightAllowsMarkerHeader(t *testing.T) {
	root := applyStack(http.NotFoundHandler(), CommonStack(StackOptions{ExtraHeaders: []string{"apmurl"}}))

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "https://ui.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "apmurl")
	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS headers, got %v", rr.Header())
	}
}
