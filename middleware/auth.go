// ABOUTME: Bearer token request stage
// ABOUTME: Attaches Authorization only when a token is stored

package middleware

import (
	"context"
	"net/http"
)

// TokenSource returns the current bearer token, or "" when logged out.
type TokenSource func(ctx context.Context) (string, error)

// BearerAuth sets "Authorization: Bearer <token>" when the source has a token.
// Any Authorization header already on the request is removed when there is none.
func BearerAuth(source TokenSource) RequestStage {
	return RequestStage{
		Name: "bearer-auth",
		Fn: func(r *http.Request) (*http.Request, error) {
			token, err := source(r.Context())
			if err != nil {
				return nil, err
			}
			if token == "" {
				r.Header.Del("Authorization")
				return r, nil
			}
			r.Header.Set("Authorization", "Bearer "+token)
			return r, nil
		},
	}
}
