// Package httpkit re-exports the platform http seam for modules
// modules use these so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	pnet "querygate/internal/platform/net"
	phttp "querygate/internal/platform/net/http"
)

type (
	// Envelope is the wire shape of every response
	Envelope = pnet.Envelope

	// Response is the return-style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Reply returns a response with an explicit HTTP status and envelope
func Reply(status int, env Envelope) Response { return phttp.Envelope(status, env) }

// Handle lets you directly adapt a Response-returning function
func Handle(fn func(*http.Request) Response) Handler {
	return phttp.Handle(fn)
}

// Call adapts a handler that takes no body; a returned Response passes through
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}

// Get mounts fn as a GET route
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, Call(fn))
}
