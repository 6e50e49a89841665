package domain

import (
	"context"

	authdomain "querygate/internal/services/auth/domain"
)

// Engine executes a query; errors are reported to the caller as a single envelope message
type Engine interface {
	Execute(ctx context.Context, req Request) (Outcome, error)
}

// GatewayPort runs one inbound request through auth and the engine
type GatewayPort interface {
	Handle(ctx context.Context, in authdomain.Inbound) Result
}

// EngineFunc adapts a function to Engine
type EngineFunc func(ctx context.Context, req Request) (Outcome, error)

// Execute calls f
func (f EngineFunc) Execute(ctx context.Context, req Request) (Outcome, error) { return f(ctx, req) }
