package swaggerkit

import (
	"encoding/json"
	"net/http"

	"querygate/internal/core/version"
)

func ref(name string) map[string]any { return map[string]any{"$ref": "#/components/schemas/" + name} }

func envelopeResponse(desc string) map[string]any {
	return map[string]any{
		"description": desc,
		"content":     map[string]any{"application/json": map[string]any{"schema": ref("Envelope")}},
	}
}

// Doc builds the OpenAPI document for the meta endpoints and the given gateway paths
func Doc(gatewayPaths []string) map[string]any {
	paths := map[string]any{}
	for _, p := range gatewayPaths {
		paths[p] = map[string]any{
			"post": map[string]any{
				"tags":    []string{"Query"},
				"summary": "Execute a query behind the bearer; auth gate",
				"parameters": []any{
					map[string]any{"name": "apmurl", "in": "header", "schema": map[string]any{"type": "string"},
						"description": "marker: /api/check exempts, /api/login/account logs in"},
					map[string]any{"name": "Authorization", "in": "header", "schema": map[string]any{"type": "string"},
						"description": "bearer;<token>"},
				},
				"requestBody": map[string]any{
					"content": map[string]any{"application/json": map[string]any{"schema": ref("QueryRequest")}},
				},
				"responses": map[string]any{
					"200": envelopeResponse("executed, or login token in data"),
					"400": envelopeResponse("malformed token"),
					"401": envelopeResponse("no token info"),
					"403": envelopeResponse("login failed"),
				},
			},
			"get": map[string]any{
				"tags":      []string{"Query"},
				"summary":   "Always rejected",
				"responses": map[string]any{"405": envelopeResponse("GraphQL only supports POST method")},
			},
		}
	}
	for _, p := range []string{"health", "ready", "version", "service"} {
		paths["/api/v1/meta/"+p] = map[string]any{
			"get": map[string]any{
				"tags":      []string{"Meta"},
				"responses": map[string]any{"200": envelopeResponse("ok")},
			},
		}
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "querygate",
			"version": version.Info().Version,
		},
		"paths": paths,
		"components": map[string]any{
			"schemas": map[string]any{
				"Envelope": map[string]any{
					"type":     "object",
					"required": []string{"errors", "biz_code", "status"},
					"properties": map[string]any{
						"data": map[string]any{"nullable": true},
						"errors": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "object", "properties": map[string]any{"message": map[string]any{"type": "string"}}},
						},
						"biz_code": map[string]any{"type": "integer"},
						"status":   map[string]any{"type": "string", "enum": []string{"ok"}},
					},
				},
				"QueryRequest": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query":     map[string]any{"type": "string"},
						"variables": map[string]any{"type": "object", "additionalProperties": true},
						"userName":  map[string]any{"type": "string"},
						"password":  map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}

// serveDocJSON marshals the document once and serves it
func serveDocJSON(gatewayPaths []string) http.HandlerFunc {
	raw, err := json.Marshal(Doc(gatewayPaths))
	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			http.Error(w, "spec encode error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(raw)
	}
}
