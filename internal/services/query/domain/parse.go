package domain

import (
	"bytes"
	"encoding/json"
)

// ParseBody extracts the query and variables from a POST body
// an object with a "query" key yields {query, variables}; anything else is a bare query
// the returned message is non-empty when the body is well formed but unusable
func ParseBody(body []byte) (Request, string) {
	req := Request{Query: string(body), Variables: map[string]any{}}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return req, ""
	}
	rawQuery, ok := obj["query"]
	if !ok {
		return req, ""
	}

	var q any
	_ = json.Unmarshal(rawQuery, &q)
	switch v := q.(type) {
	case string:
		req.Query = v
	case float64, bool:
		req.Query = string(bytes.TrimSpace(rawQuery))
	default:
		return req, QueryNotString
	}

	rawVars, ok := obj["variables"]
	if !ok || isNull(rawVars) {
		return req, ""
	}
	var vars map[string]any
	if err := json.Unmarshal(rawVars, &vars); err != nil {
		return req, VariablesNotObject
	}
	req.Variables = vars
	return req, ""
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || string(t) == "null"
}
