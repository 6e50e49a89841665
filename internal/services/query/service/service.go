// Package service implements the query gateway: auth decision, engine call, envelope
package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	perr "querygate/internal/platform/errors"
	"querygate/internal/platform/logger"
	"querygate/internal/platform/metrics"
	pnet "querygate/internal/platform/net"
	authdomain "querygate/internal/services/auth/domain"
	"querygate/internal/services/query/domain"
)

// Query execution results recorded in metrics
const (
	ResultOK       = "ok"
	ResultFailed   = "failed"
	ResultPanic    = "panic"
	ResultRejected = "rejected"
)

// Config wires the gateway collaborators
type Config struct {
	Policy  authdomain.PolicyPort
	Engine  domain.Engine
	Metrics *metrics.Metrics // optional
}

// Gateway runs requests through the auth policy and then the engine
type Gateway struct {
	policy  authdomain.PolicyPort
	engine  domain.Engine
	metrics *metrics.Metrics
}

// New constructs a Gateway; Policy and Engine are required
func New(cfg Config) *Gateway {
	if cfg.Policy == nil || cfg.Engine == nil {
		panic("query: gateway needs a policy and an engine")
	}
	return &Gateway{policy: cfg.Policy, engine: cfg.Engine, metrics: cfg.Metrics}
}

// Handle decides, executes and wraps one request
// only auth short-circuits carry a non-200 HTTP status
func (g *Gateway) Handle(ctx context.Context, in authdomain.Inbound) domain.Result {
	req, problem := domain.ParseBody(in.Body)

	d := g.policy.Decide(ctx, in)
	g.metrics.RecordDecision(string(d.Outcome))

	if d.ShortCircuit != nil {
		return domain.Result{Status: d.ShortCircuit.Status, Body: d.ShortCircuit.Body}
	}
	if !d.Authorized {
		return domain.Result{
			Status: http.StatusUnauthorized,
			Body:   pnet.Fail(http.StatusUnauthorized, authdomain.NoTokenInfo),
		}
	}

	ctx = pnet.WithSubject(logger.WithSubject(ctx, d.Subject), d.Subject)
	if problem != "" {
		g.metrics.RecordQuery(ResultRejected, 0)
		logger.C(ctx).Debug().Str("reason", problem).Msg("query rejected")
		return domain.Failed(problem)
	}

	start := time.Now()
	out, err := g.execute(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		result := ResultFailed
		if perr.IsCode(err, perr.ErrorCodePanic) {
			result = ResultPanic
		}
		g.metrics.RecordQuery(result, elapsed)
		logger.C(ctx).Error().Err(err).Dur("elapsed", elapsed).Msg("query execution failed")
		return domain.Failed(perr.MessageOf(err))
	}

	g.metrics.RecordQuery(ResultOK, elapsed)
	logger.C(ctx).Debug().Int("errors", len(out.Errors)).Dur("elapsed", elapsed).Msg("query executed")
	return domain.Result{Status: http.StatusOK, Body: domain.Envelope(out)}
}

func (g *Gateway) execute(ctx context.Context, req domain.Request) (out domain.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = domain.Outcome{}, perr.PanicErrf("%s", fmt.Sprint(r))
		}
	}()
	return g.engine.Execute(ctx, req)
}
