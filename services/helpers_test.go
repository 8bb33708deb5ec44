package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rodriigosc/campaign-watch/client"
	"github.com/rodriigosc/campaign-watch/fake"
	"github.com/rodriigosc/campaign-watch/logger"
	"github.com/rodriigosc/campaign-watch/store"
)

type env struct {
	fake   *fake.Server
	client *client.Client
	tokens *store.TokenStore
	svc    *Services
}

func newEnv(t *testing.T) *env {
	t.Helper()
	f := fake.New(fake.WithLogger(logger.Discard()), fake.WithStallLength(2*time.Second))
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	tokens := store.New(store.NewMemoryBackend())
	c := client.New(fake.BaseURL(srv.URL), tokens,
		client.WithLogger(logger.Discard()),
		client.WithRetry(3, time.Millisecond),
		client.WithHTTPClient(&http.Client{Timeout: 200 * time.Millisecond}),
	)
	t.Cleanup(c.Close)

	return &env{fake: f, client: c, tokens: tokens, svc: New(c, tokens)}
}

func (e *env) loginAs(t *testing.T, email, password string) {
	t.Helper()
	if _, err := e.svc.Auth.Login(context.Background(), email, password); err != nil {
		t.Fatalf("login as %s: %v", email, err)
	}
}

func (e *env) admin(t *testing.T) *env {
	e.loginAs(t, fake.AdminEmail, fake.AdminPassword)
	return e
}

type apiCall struct {
	method string
	path   string
	params url.Values
	body   any
}

// recordingAPI captures calls and answers with canned JSON per path.
type recordingAPI struct {
	mu        sync.Mutex
	calls     []apiCall
	responses map[string]string
	err       error
	clears    int
}

func (r *recordingAPI) record(method, path string, params url.Values, body, out any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, apiCall{method: method, path: path, params: params, body: body})
	if r.err != nil {
		return r.err
	}
	if raw, ok := r.responses[path]; ok && out != nil {
		return json.Unmarshal([]byte(raw), out)
	}
	return nil
}

func (r *recordingAPI) Get(_ context.Context, path string, params url.Values, out any) error {
	return r.record(http.MethodGet, path, params, nil, out)
}

func (r *recordingAPI) Post(_ context.Context, path string, body, out any) error {
	return r.record(http.MethodPost, path, nil, body, out)
}

func (r *recordingAPI) Put(_ context.Context, path string, body, out any) error {
	return r.record(http.MethodPut, path, nil, body, out)
}

func (r *recordingAPI) Delete(_ context.Context, path string, out any) error {
	return r.record(http.MethodDelete, path, nil, nil, out)
}

func (r *recordingAPI) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
}

func (r *recordingAPI) last(t *testing.T) apiCall {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		t.Fatal("Expected at least one API call")
	}
	return r.calls[len(r.calls)-1]
}
