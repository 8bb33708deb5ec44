// ABOUTME: Session state container: who is logged in right now
// ABOUTME: Rehydrates from the token store and notifies subscribers on change

package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rodriigosc/campaign-watch/models"
	"github.com/rodriigosc/campaign-watch/store"
)

// DefaultLoginError is shown when a failed login carries no message
const DefaultLoginError = "Login failed"

// State is a snapshot of the session. Either IsAuthenticated is false and
// User and Token are empty, or it is true and both are set.
type State struct {
	User            *models.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// LoginResult is what Login reports to the caller.
type LoginResult struct {
	Success bool
	Error   string
	// Err is the underlying failure, for callers that classify it.
	Err error
}

// CacheFlusher drops cached responses. *client.Client satisfies it.
type CacheFlusher interface {
	ClearCache()
}

// SessionManager is the single source of truth for the logged-in user.
type SessionManager struct {
	auth   *AuthService
	cache  CacheFlusher
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(m *SessionManager) { m.logger = l }
}

// WithSessionClock replaces time.Now for token expiry checks.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// NewSessionManager restores any stored session. A stored session missing
// its token or user, or whose JWT has expired, is cleared instead.
func NewSessionManager(ctx context.Context, auth *AuthService, cache CacheFlusher, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		auth:   auth,
		cache:  cache,
		logger: slog.Default(),
		now:    time.Now,
		subs:   make(map[int]func(State)),
	}
	for _, o := range opts {
		o(m)
	}
	m.rehydrate(ctx)
	return m
}

func (m *SessionManager) rehydrate(ctx context.Context) {
	tokens := m.auth.Tokens()

	token, user, err := tokens.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		m.clearStored(ctx)
		return
	case err != nil:
		m.logger.Warn("Discarding unreadable stored session", "error", err)
		m.clearStored(ctx)
		return
	}

	if exp, ok := TokenExpiry(token); ok && !m.now().Before(exp) {
		m.logger.Info("Stored session expired", "expired_at", exp)
		m.clearStored(ctx)
		return
	}

	m.state = State{User: user, Token: token, IsAuthenticated: true}
}

// clearStored removes any half-written session left in the store.
func (m *SessionManager) clearStored(ctx context.Context) {
	if err := m.auth.Tokens().Clear(ctx); err != nil {
		m.logger.Warn("Failed to clear stored session", "error", err)
	}
}

// State returns the current snapshot.
func (m *SessionManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAdmin reports whether the logged-in user has the admin role.
func (m *SessionManager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IsAuthenticated && m.state.User.IsAdmin()
}

// Subscribe registers fn to receive every new state. Call the returned
// function to unsubscribe.
func (m *SessionManager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// update applies change under the lock and notifies subscribers outside it.
func (m *SessionManager) update(change func(*State)) {
	m.mu.Lock()
	change(&m.state)
	snapshot := m.state
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Login authenticates and replaces the session. IsLoading is cleared
// whatever the outcome.
func (m *SessionManager) Login(ctx context.Context, email, password string) LoginResult {
	m.update(func(s *State) {
		s.IsLoading = true
		s.Error = ""
	})

	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = DefaultLoginError
		}
		m.logger.Warn("Login failed", "email", email, "error", err)
		// the auth service cleared the store, so the session is gone too
		m.update(func(s *State) {
			*s = State{Error: msg}
		})
		return LoginResult{Success: false, Error: msg, Err: err}
	}

	m.cache.ClearCache()
	m.logger.Info("Login succeeded", "user", resp.User.Email)
	m.update(func(s *State) {
		*s = State{User: resp.User, Token: resp.Token, IsAuthenticated: true}
	})
	return LoginResult{Success: true}
}

// Logout clears stored credentials and session state. No network call.
func (m *SessionManager) Logout(ctx context.Context) {
	if err := m.auth.Logout(ctx); err != nil {
		m.logger.Warn("Failed to clear stored session", "error", err)
	}
	m.cache.ClearCache()
	m.update(func(s *State) {
		*s = State{}
	})
}

// ClearError drops the last login error.
func (m *SessionManager) ClearError() {
	m.update(func(s *State) {
		s.Error = ""
	})
}

// HandleUnauthorized resets the session after the API rejected the token.
// Register it with client.SetUnauthorizedHandler.
func (m *SessionManager) HandleUnauthorized(ctx context.Context) {
	m.clearStored(context.WithoutCancel(ctx))
	m.cache.ClearCache()
	m.update(func(s *State) {
		*s = State{}
	})
}
