// Package domain defines the query gateway types, the engine port and the envelope builder
package domain

import (
	"net/http"

	pnet "querygate/internal/platform/net"
)

// Wording used on the wire
const (
	PostOnly           = "GraphQL only supports POST method"
	VariablesNotObject = "variables must be a JSON object"
	QueryNotString     = "query must be a string"
)

// Request is one query to execute; Variables is never nil
type Request struct {
	Query     string
	Variables map[string]any
}

// Outcome is what an engine returns for a query
type Outcome struct {
	Data   any
	Errors []string
}

// Result is the finished HTTP status and body for one gateway call
type Result struct {
	Status int
	Body   pnet.Envelope
}

// Envelope wraps an engine outcome; biz_code is always 200 on this path
func Envelope(o Outcome) pnet.Envelope {
	return pnet.Reply(http.StatusOK, o.Data, o.Errors...)
}

// Failed is the HTTP 200 envelope for a query that could not run
func Failed(msg string) Result {
	return Result{Status: http.StatusOK, Body: pnet.Fail(http.StatusOK, msg)}
}
