// ABOUTME: Builds the API client, token store and session for a command
// ABOUTME: Picks the token store backend from configuration

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rodriigosc/campaign-watch/client"
	"github.com/rodriigosc/campaign-watch/config"
	"github.com/rodriigosc/campaign-watch/metrics"
	"github.com/rodriigosc/campaign-watch/services"
	"github.com/rodriigosc/campaign-watch/store"
)

const disclaimerText = `Campaign Watch shows monitoring data collected from client marketing platforms.
Data may be delayed or incomplete; confirm critical issues in the source system.
Run 'campaign-watch disclaimer accept' to hide this notice.`

// runtime is everything a command needs to talk to the API.
type runtime struct {
	cfg     *config.Config
	tokens  *store.TokenStore
	client  *client.Client
	svc     *services.Services
	session *services.SessionManager
	metrics *metrics.Metrics
	closers []func() error
}

// openRuntime loads configuration and restores the stored session. The
// disclaimer goes to notice until it has been accepted; pass io.Discard
// to skip it.
func openRuntime(ctx context.Context, notice io.Writer) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rt := &runtime{cfg: cfg}
	backend, err := rt.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	rt.tokens = store.New(backend)

	rt.metrics = metrics.New(cfg.MetricsAddr != "")
	c, err := client.NewFromConfig(cfg, rt.tokens, client.WithMetrics(rt.metrics))
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.client = c
	rt.closers = append(rt.closers, func() error {
		c.Close()
		return nil
	})

	rt.svc = services.New(c, rt.tokens)
	rt.session = services.NewSessionManager(ctx, rt.svc.Auth, c)
	c.SetUnauthorizedHandler(rt.session.HandleUnauthorized)

	rt.showDisclaimer(ctx, notice)
	return rt, nil
}

func (rt *runtime) openBackend(ctx context.Context) (store.Backend, error) {
	switch rt.cfg.TokenStore {
	case config.TokenStoreRedis:
		rb, err := store.NewRedisBackend(ctx, rt.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, rb.Close)
		return rb, nil
	case config.TokenStoreMemory:
		return store.NewMemoryBackend(), nil
	default:
		return store.NewFileBackend(rt.cfg.Home)
	}
}

func (rt *runtime) showDisclaimer(ctx context.Context, w io.Writer) {
	if w == io.Discard {
		return
	}
	accepted, err := rt.tokens.DisclaimerAccepted(ctx)
	if err != nil {
		slog.Debug("Could not read disclaimer flag", "error", err)
	}
	if !accepted {
		fmt.Fprintln(w, disclaimerText)
		fmt.Fprintln(w)
	}
}

// requireSession reports whether someone is logged in, printing the usual
// hint when not.
func (rt *runtime) requireSession(w io.Writer) bool {
	if rt.session.State().IsAuthenticated {
		return true
	}
	fmt.Fprintln(w, "Error: not logged in. Run 'campaign-watch login' first.")
	return false
}

// Close releases the client and store connections.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			slog.Debug("Close failed", "error", err)
		}
	}
}
