// Package http provides the server, router facade and helpers for writing envelope responses
package http

import (
	"encoding/json"
	stdhttp "net/http"

	"querygate/internal/platform/logger"
	pnet "querygate/internal/platform/net"
)

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Named("http").Debug().Err(err).Msg("write json body")
	}
}

//
// Effectful helpers (Respond*) for classic handlers
//

// RespondEnvelope writes env with the given HTTP status
func RespondEnvelope(w stdhttp.ResponseWriter, status int, env pnet.Envelope) {
	JSON(w, status, env)
}

// RespondOK writes a 200 envelope with data
func RespondOK(w stdhttp.ResponseWriter, data any) {
	JSON(w, stdhttp.StatusOK, pnet.OK(data))
}

// RespondError maps a project error into an envelope and writes it with the mapped status
func RespondError(w stdhttp.ResponseWriter, err error) {
	status, env := pnet.Error(err)
	JSON(w, status, env)
}

//
// Return-style helpers for early returns in handlers
//

// Response is a functional response object for return-style handlers
type Response struct {
	Status int
	Body   pnet.Envelope
	// optional headers if a handler wants to add any
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter) {
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	body := resp.Body
	if body.Status == "" {
		body = pnet.Reply(status, body.Data, body.Messages()...)
	}
	JSON(w, status, body)
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: pnet.OK(data)} }

// Error returns a response that maps the error to status and envelope
func Error(err error) Response {
	status, env := pnet.Error(err)
	return Response{Status: status, Body: env}
}

// Envelope returns a response carrying env with an explicit HTTP status
func Envelope(status int, env pnet.Envelope) Response { return Response{Status: status, Body: env} }
