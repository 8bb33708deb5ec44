// ABOUTME: Login and logout against /User/login
// ABOUTME: Persists token and user on success and clears both on any failure

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rodriigosc/campaign-watch/models"
	"github.com/rodriigosc/campaign-watch/store"
)

const loginPath = "/User/login"

// ErrInvalidLoginResponse means the API answered 2xx without both a token and a user.
var ErrInvalidLoginResponse = errors.New("invalid login response from API")

// AuthService authenticates against the API and owns the stored credentials.
type AuthService struct {
	api    API
	tokens *store.TokenStore
}

func NewAuthService(api API, tokens *store.TokenStore) *AuthService {
	return &AuthService{api: api, tokens: tokens}
}

// Login posts the credentials and stores the returned session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	resp, err := s.login(ctx, email, password)
	if err != nil {
		if clearErr := s.tokens.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			return nil, errors.Join(err, clearErr)
		}
		return nil, err
	}
	return resp, nil
}

func (s *AuthService) login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := s.api.Post(ctx, loginPath, models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, ErrInvalidLoginResponse
	}
	if err := s.tokens.Save(ctx, resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &resp, nil
}

// Logout removes stored credentials. It does not call the API.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.tokens.Clear(ctx)
}

// CurrentUser returns the stored user or nil.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.tokens.User(ctx)
}

// IsAuthenticated reports whether a token is stored.
func (s *AuthService) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Tokens returns the underlying token store.
func (s *AuthService) Tokens() *store.TokenStore {
	return s.tokens
}
