// ABOUTME: HTTP client core for the Campaign Watch API
// ABOUTME: GET caching, bearer auth, retry with backoff, 401 handling, error normalization

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rodriigosc/campaign-watch/cache"
	"github.com/rodriigosc/campaign-watch/config"
	"github.com/rodriigosc/campaign-watch/metrics"
	"github.com/rodriigosc/campaign-watch/middleware"
	"github.com/rodriigosc/campaign-watch/store"
)

// Client is the single choke point for backend communication.
// Create one per process (or per test) and share it between services.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	tokens     *store.TokenStore
	pipeline   *middleware.Pipeline
	metrics    *metrics.Metrics
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration
	devLogging bool
	sleep      func(context.Context, time.Duration) error
	flight     singleflight.Group

	mu             sync.RWMutex
	onUnauthorized func(context.Context)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (timeout and transport).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache replaces the response cache.
func WithCache(rc *cache.Cache) Option {
	return func(c *Client) { c.cache = rc }
}

// WithRetry sets the retry budget and the base backoff delay.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryDelay = delay
	}
}

// WithMetrics records requests, cache use and retries.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithDevLogging installs the request/response logging stages.
func WithDevLogging(enabled bool) Option {
	return func(c *Client) { c.devLogging = enabled }
}

// New creates a client for baseURL. A nil token store means an in-memory one.
func New(baseURL string, tokens *store.TokenStore, opts ...Option) *Client {
	if tokens == nil {
		tokens = store.New(store.NewMemoryBackend())
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens:     tokens,
		logger:     slog.Default(),
		maxRetries: 3,
		retryDelay: time.Second,
		sleep:      sleepContext,
	}
	for _, o := range opts {
		o(c)
	}
	if c.cache == nil {
		c.cache = cache.New(5*time.Minute, cache.WithLogger(c.logger))
	}

	c.pipeline = middleware.NewPipeline().
		UseRequest(middleware.RequestID(), middleware.BearerAuth(c.tokens.Token))
	if c.devLogging {
		c.pipeline.
			UseRequest(middleware.LogRequest(c.logger)).
			UseResponse(middleware.LogResponse(c.logger))
	}
	return c
}

// NewFromConfig creates a client from resolved configuration. Extra options
// are applied after the configured ones.
func NewFromConfig(cfg *config.Config, tokens *store.TokenStore, opts ...Option) (*Client, error) {
	transport, err := NewTransport(cfg.AllProxy)
	if err != nil {
		return nil, fmt.Errorf("failed to configure transport: %w", err)
	}

	base := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout, Transport: transport}),
		WithCache(cache.New(cfg.CacheDuration)),
		WithRetry(cfg.MaxRetries, cfg.RetryDelay),
		WithDevLogging(cfg.Dev()),
	}
	return New(cfg.APIURL, tokens, append(base, opts...)...), nil
}

// BaseURL returns the API root every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Tokens returns the token store the client reads credentials from.
func (c *Client) Tokens() *store.TokenStore {
	return c.tokens
}

// Pipeline exposes the installed stages for inspection.
func (c *Client) Pipeline() *middleware.Pipeline {
	return c.pipeline
}

// SetToken stores a new bearer token, or removes it when token is "".
func (c *Client) SetToken(ctx context.Context, token string) error {
	return c.tokens.SetToken(ctx, token)
}

// SetUnauthorizedHandler registers the callback run after a 401 has
// cleared the token store.
func (c *Client) SetUnauthorizedHandler(fn func(context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.ClearAll()
	c.logger.Debug("API cache cleared")
}

// Close stops the cache sweeper.
func (c *Client) Close() {
	c.cache.Close()
}

// RequestOptions are the optional parts of a request.
type RequestOptions struct {
	Params url.Values
	Body   any
	// NoCache skips the response cache for a GET.
	NoCache bool
}

// CacheKey is the identity a GET is cached under: path, "?", then the
// params encoded with keys sorted.
func CacheKey(path string, params url.Values) string {
	return path + "?" + params.Encode()
}

// Get fetches path and decodes the body into out, using the cache.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.Request(ctx, http.MethodGet, path, RequestOptions{Params: params}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPost, path, RequestOptions{Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPut, path, RequestOptions{Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodDelete, path, RequestOptions{}, out)
}

// Prefetch warms the cache for a GET. Failures are logged and dropped.
func (c *Client) Prefetch(ctx context.Context, path string, params url.Values) {
	if err := c.Get(ctx, path, params, nil); err != nil {
		c.logger.Warn("Prefetch failed", "path", path, "error", err)
	}
}

type call struct {
	method string
	path   string
	query  string
	body   []byte
}

func (c *Client) url(cl call) string {
	u := c.baseURL + cl.path
	if cl.query != "" {
		u += "?" + cl.query
	}
	return u
}

// Request performs one logical request and decodes the response payload
// into out (which may be nil). Errors are *Error except for request
// construction failures and caller cancellation.
func (c *Client) Request(ctx context.Context, method, path string, opts RequestOptions, out any) error {
	cl := call{method: method, path: path, query: opts.Params.Encode()}
	if opts.Body != nil {
		body, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		cl.body = body
	}

	if method != http.MethodGet || opts.NoCache {
		data, err := c.execute(ctx, cl)
		if err != nil {
			return err
		}
		return decode(cl, data, out)
	}

	key := CacheKey(path, opts.Params)
	if data, ok := c.cache.Get(key); ok {
		c.metrics.CacheHit()
		return decode(cl, data, out)
	}
	c.metrics.CacheMiss()

	if err := ctx.Err(); err != nil {
		return canceled(cl, err)
	}

	// Identical GETs in flight share one network call. The shared call is
	// detached from any single caller; each caller stops waiting when its
	// own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		data, err := c.execute(shared, cl)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return canceled(cl, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return decode(cl, res.Val.([]byte), out)
	}
}

// execute runs the retry loop for one logical request.
func (c *Client) execute(ctx context.Context, cl call) ([]byte, error) {
	for a := firstAttempt(); ; a = a.next() {
		data, err := c.roundTrip(ctx, cl, a)
		if err == nil {
			return data, nil
		}
		if !a.canRetry(c.maxRetries) || !shouldRetry(ctx, err) {
			return nil, err
		}

		delay := a.backoff(c.retryDelay)
		c.logger.Warn("Retrying request",
			"method", cl.method,
			"path", cl.path,
			"retry", a.number,
			"max_retries", c.maxRetries,
			"delay", delay,
			"error", err,
		)
		c.metrics.Retry()

		if err := c.sleep(ctx, delay); err != nil {
			return nil, canceled(cl, err)
		}
	}
}

// roundTrip sends a single attempt.
func (c *Client) roundTrip(ctx context.Context, cl call, a attempt) ([]byte, error) {
	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.url(cl), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req, err = c.pipeline.ApplyRequest(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, canceled(cl, ctx.Err())
		}
		e := transportError(err)
		e.Method, e.Path = cl.method, cl.path
		c.metrics.ObserveRequest(cl.method, e.Kind.String(), time.Since(start))
		c.logger.Warn("API request failed",
			"method", cl.method,
			"path", cl.path,
			"attempt", a.number,
			"kind", e.Kind.String(),
			"error", err,
		)
		return nil, e
	}
	defer raw.Body.Close()

	resp, err := c.pipeline.ApplyResponse(raw)
	if err != nil {
		c.metrics.ObserveRequest(cl.method, strconv.Itoa(raw.StatusCode), time.Since(start))
		return nil, err
	}
	if resp == nil {
		resp = raw
	} else if resp.Body != raw.Body {
		defer resp.Body.Close()
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, canceled(cl, ctx.Err())
		}
		e := transportError(err)
		e.Method, e.Path = cl.method, cl.path
		return nil, e
	}
	c.metrics.ObserveRequest(cl.method, strconv.Itoa(resp.StatusCode), time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.handleUnauthorized(ctx, cl)
		return nil, &Error{
			Kind:    KindUnauthenticated,
			Status:  resp.StatusCode,
			Message: MsgSessionExpired,
			Method:  cl.method,
			Path:    cl.path,
		}
	case resp.StatusCode >= 400:
		e := normalizeResponse(resp.StatusCode, data)
		e.Method, e.Path = cl.method, cl.path
		c.logger.Warn("API error",
			"method", cl.method,
			"path", cl.path,
			"status", resp.StatusCode,
			"request_id", req.Header.Get(middleware.RequestIDHeader),
			"message", e.Message,
		)
		return nil, e
	}

	return data, nil
}

// handleUnauthorized clears stored credentials and notifies the session.
func (c *Client) handleUnauthorized(ctx context.Context, cl call) {
	c.metrics.Unauthorized()
	c.logger.Warn("Session rejected by API", "method", cl.method, "path", cl.path)

	if err := c.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error("Failed to clear token store", "error", err)
	}

	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}

func decode(cl call, data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{
			Kind:    KindDecode,
			Message: "Invalid response from server.",
			Method:  cl.method,
			Path:    cl.path,
			Cause:   err,
		}
	}
	return nil
}

func canceled(cl call, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: MsgTimeout, Method: cl.method, Path: cl.path, Cause: err}
	}
	return fmt.Errorf("%s %s: request canceled: %w", cl.method, cl.path, err)
}
