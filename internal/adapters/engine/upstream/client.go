// Package upstream provides a query engine that forwards to a GraphQL HTTP endpoint
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"querygate/internal/platform/config"
	perr "querygate/internal/platform/errors"
	"querygate/internal/platform/logger"
	pnet "querygate/internal/platform/net"
	"querygate/internal/platform/telemetry"
	"querygate/internal/services/query/domain"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUA        = "querygate"
	defaultMaxBytes  = 16 << 20
	defaultPingQuery = "{ __typename }"
)

// Options configures the Client
type Options struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64

	// SubjectHeader, when set, carries the token subject to the engine
	SubjectHeader string
	PingQuery     string
}

// FromConfig reads with ENGINE_ prefix; UPSTREAM_URL is required
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ENGINE_")
	u := c.MayURL("UPSTREAM_URL")
	if u == nil {
		logger.Get().Panic().Str("key", "ENGINE_UPSTREAM_URL").Msg("missing required config")
	}
	return Options{
		URL:           u.String(),
		Timeout:       c.MayDuration("TIMEOUT", defaultTimeout),
		UserAgent:     c.MayString("USER_AGENT", defaultUA),
		MaxBytes:      c.MayInt64("MAX_RESPONSE_BYTES", defaultMaxBytes),
		SubjectHeader: c.MayString("SUBJECT_HEADER", ""),
		PingQuery:     c.MayString("PING_QUERY", defaultPingQuery),
	}
}

// Client forwards queries over HTTP; it never retries
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// New creates a Client whose transport carries trace context
func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = defaultMaxBytes
	}
	if o.PingQuery == "" {
		o.PingQuery = defaultPingQuery
	}
	return &Client{
		http: telemetry.InstrumentClient(&http.Client{Timeout: o.Timeout}),
		opts: o,
		log:  *logger.Named("engine"),
		now:  time.Now,
	}
}

type wireRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type wireError struct {
	Message string `json:"message"`
}

type wireResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []wireError     `json:"errors"`
}

// Execute posts the query and maps the GraphQL response onto an Outcome
// GraphQL errors become Outcome.Errors; transport and non-GraphQL failures are errors
func (c *Client) Execute(ctx context.Context, req domain.Request) (domain.Outcome, error) {
	vars := req.Variables
	if vars == nil {
		vars = map[string]any{}
	}
	status, body, err := c.post(ctx, wireRequest{Query: req.Query, Variables: vars})
	if err != nil {
		return domain.Outcome{}, err
	}

	var wr wireResponse
	decodeErr := json.Unmarshal(body, &wr)
	if status < 200 || status >= 300 {
		// GraphQL servers commonly answer validation failures with 4xx plus an errors list
		if decodeErr == nil && len(wr.Errors) > 0 {
			return outcome(wr), nil
		}
		return domain.Outcome{}, perr.Upstreamf("engine returned status %d", status)
	}
	if decodeErr != nil {
		return domain.Outcome{}, perr.Wrap(decodeErr, perr.ErrorCodeUpstream, "engine returned invalid json")
	}
	return outcome(wr), nil
}

// Ping checks the engine answers a trivial query; any non 5xx reply counts as up
func (c *Client) Ping(ctx context.Context) error {
	status, _, err := c.post(ctx, wireRequest{Query: c.opts.PingQuery, Variables: map[string]any{}})
	if err != nil {
		return err
	}
	if status >= 500 {
		return perr.Unavailablef("engine returned status %d", status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, in wireRequest) (int, []byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "encode engine request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, perr.Wrap(err, perr.ErrorCodeConfig, "engine new request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	if id := pnet.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if c.opts.SubjectHeader != "" {
		if sub := pnet.Subject(ctx); sub != "" {
			req.Header.Set(c.opts.SubjectHeader, sub)
		}
	}

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		return 0, nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "engine request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBytes+1))
	if err != nil {
		return 0, nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "engine read failed")
	}
	if int64(len(body)) > c.opts.MaxBytes {
		return 0, nil, perr.Upstreamf("engine response exceeds %d bytes", c.opts.MaxBytes)
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Int("bytes", len(body)).
		Msg("engine http response")
	return resp.StatusCode, body, nil
}

func outcome(wr wireResponse) domain.Outcome {
	out := domain.Outcome{Errors: make([]string, 0, len(wr.Errors))}
	if len(wr.Data) > 0 && string(wr.Data) != "null" {
		out.Data = wr.Data
	}
	for _, e := range wr.Errors {
		out.Errors = append(out.Errors, e.Message)
	}
	return out
}
