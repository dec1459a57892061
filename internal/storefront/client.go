// Package storefront is the GraphQL-over-HTTP client for the storefront API.
//
// The client sends one request per call and never retries. It returns the raw
// decoded envelope; interpreting `errors` and the mutation's own userErrors is
// left to the caller.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/metrics"
	"github.com/and161185/shop-account/internal/model"
)

// AccessTokenHeader carries the static storefront access token.
const AccessTokenHeader = "X-Shopify-Storefront-Access-Token"

// Config is the storefront endpoint and its static credential.
type Config struct {
	Endpoint    string
	AccessToken string
	Timeout     time.Duration // zero: no client-side timeout
}

// Client issues GraphQL queries and mutations.
type Client struct {
	cfg     Config
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option { return func(c *Client) { c.metrics = m } }

// New constructs a client for cfg.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Response is the GraphQL envelope: payload and top-level errors, uninterpreted.
type Response[T any] struct {
	Data   *T                   `json:"data"`
	Errors []model.GraphQLError `json:"errors,omitempty"`
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Minify replaces newlines with spaces, then removes runs of two spaces
// left to right. Cosmetic only.
func Minify(q string) string {
	q = strings.ReplaceAll(q, "\n", " ")
	return strings.ReplaceAll(q, "  ", "")
}

var reOperation = regexp.MustCompile(`^\s*(?:mutation|query)\s+(\w+)`)

func operationName(q string) string {
	if m := reOperation.FindStringSubmatch(q); m != nil {
		return m[1]
	}
	return "anonymous"
}

// Execute POSTs {query, variables} and returns the raw response.
// Variables are omitted from the body when nil. Network failures wrap errs.ErrTransport.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (*http.Response, error) {
	op := operationName(query)
	body, err := json.Marshal(request{Query: Minify(query), Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(AccessTokenHeader, c.cfg.AccessToken)

	start := time.Now()
	resp, err := c.http.Do(req)
	dur := time.Since(start)
	if err != nil {
		c.metrics.Request(op, metrics.OutcomeTransport, dur)
		c.log.Debug("storefront request failed", zap.String("operation", op), zap.Duration("dur", dur), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errs.ErrTransport, err)
	}
	outcome := metrics.OutcomeOK
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = metrics.OutcomeTransport
	}
	c.metrics.Request(op, outcome, dur)
	c.log.Debug("storefront",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", dur),
	)
	return resp, nil
}

// Decode reads and closes resp. Non-2xx statuses and bodies that are not
// JSON wrap errs.ErrTransport; both error channels are returned as-is.
func Decode[T any](resp *http.Response) (*Response[T], error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", errs.ErrTransport, resp.StatusCode)
	}
	var out Response[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", errs.ErrTransport, err)
	}
	return &out, nil
}

// Do is Execute followed by Decode.
func Do[T any](ctx context.Context, c *Client, query string, variables map[string]any) (*Response[T], error) {
	resp, err := c.Execute(ctx, query, variables)
	if err != nil {
		return nil, err
	}
	return Decode[T](resp)
}
