// Package http provides the gateway transport: POST executes, GET is rejected
package http

import (
	stdhttp "net/http"

	"querygate/internal/modkit/httpkit"
	pnet "querygate/internal/platform/net"
	"querygate/internal/platform/net/http/bind"
	authdomain "querygate/internal/services/auth/domain"
	"querygate/internal/services/query/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Gateway  domain.GatewayPort
	Paths    []string
	MaxBytes int64
}

type handlers struct{ deps Deps }

// Register mounts POST and GET on every gateway path
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	for _, p := range d.Paths {
		r.Post(p, httpkit.Handle(h.execute))
		r.Get(p, httpkit.Handle(h.rejectGet))
	}
}

// swagger:route POST /graphql Query queryExecute
// @Summary Execute a query behind the bearer; auth gate
// @Tags Query
// @Accept json
// @Produce json
// @Param apmurl header string false "marker: /api/check or /api/login/account"
// @Param Authorization header string false "bearer;<token>"
// @Success 200 {object} httpkit.Envelope "ok, biz_code carries the outcome"
// @Failure 401 {object} httpkit.Envelope "no token info"
// @Failure 403 {object} httpkit.Envelope "login failed"
// @Router /graphql [post]
func (h *handlers) execute(r *stdhttp.Request) httpkit.Response {
	body, err := bind.ReadBody(r, h.deps.MaxBytes)
	if err != nil {
		return httpkit.Error(err)
	}
	res := h.deps.Gateway.Handle(r.Context(), authdomain.Inbound{
		Path:   r.URL.Path,
		Header: r.Header,
		Body:   body,
	})
	return httpkit.Reply(res.Status, res.Body)
}

// swagger:route GET /graphql Query queryGet
// @Summary Always rejected
// @Tags Query
// @Produce json
// @Failure 405 {object} httpkit.Envelope "GraphQL only supports POST method"
// @Router /graphql [get]
func (h *handlers) rejectGet(_ *stdhttp.Request) httpkit.Response {
	resp := httpkit.Reply(stdhttp.StatusMethodNotAllowed, pnet.Fail(stdhttp.StatusMethodNotAllowed, domain.PostOnly))
	resp.Header = stdhttp.Header{"Allow": {stdhttp.MethodPost}}
	return resp
}
