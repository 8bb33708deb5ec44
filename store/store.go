// ABOUTME: Token store persisting the auth token and user profile
// ABOUTME: Wraps a key-value backend (file, redis, memory) under well-known keys

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rodriigosc/campaign-watch/models"
)

// Well-known keys
const (
	KeyToken      = "token"
	KeyUser       = "user"
	KeyDisclaimer = "disclaimerAccepted"
)

// ErrNotFound means no complete session (token and user) is stored
var ErrNotFound = errors.New("no stored session")

// Backend is persistent key-value storage.
type Backend interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// TokenStore saves, reads and clears the session token and user profile.
type TokenStore struct {
	backend Backend
}

// New creates a token store on top of a backend
func New(backend Backend) *TokenStore {
	return &TokenStore{backend: backend}
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	token, _, err := s.backend.Get(ctx, KeyToken)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// SetToken replaces the stored token; an empty token removes it.
func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.backend.Delete(ctx, KeyToken)
	}
	if err := s.backend.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// User returns the stored user profile, or nil when none is stored.
func (s *TokenStore) User(ctx context.Context) (*models.User, error) {
	raw, ok, err := s.backend.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to parse stored user: %w", err)
	}
	return &user, nil
}

// Save stores token and user together.
func (s *TokenStore) Save(ctx context.Context, token string, user *models.User) error {
	if token == "" || user == nil {
		return fmt.Errorf("token and user are both required")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}
	if err := s.backend.Set(ctx, KeyUser, string(data)); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if err := s.backend.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load returns the stored token and user together. ErrNotFound is
// returned when either half is missing.
func (s *TokenStore) Load(ctx context.Context) (string, *models.User, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return "", nil, err
	}
	user, err := s.User(ctx)
	if err != nil {
		return "", nil, err
	}
	if token == "" || user == nil {
		return "", nil, ErrNotFound
	}
	return token, user, nil
}

// Clear removes token and user. The disclaimer flag survives logout.
func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// DisclaimerAccepted reports whether the one-time disclaimer was accepted.
func (s *TokenStore) DisclaimerAccepted(ctx context.Context) (bool, error) {
	v, _, err := s.backend.Get(ctx, KeyDisclaimer)
	if err != nil {
		return false, fmt.Errorf("failed to read disclaimer flag: %w", err)
	}
	return v == "true", nil
}

// AcceptDisclaimer records the disclaimer as accepted.
func (s *TokenStore) AcceptDisclaimer(ctx context.Context) error {
	return s.backend.Set(ctx, KeyDisclaimer, "true")
}
