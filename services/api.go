// ABOUTME: Domain services over the Campaign Watch API client
// ABOUTME: Thin pass-through wrappers that build paths and query parameters

package services

import (
	"context"
	"net/url"

	"github.com/rodriigosc/campaign-watch/store"
)

// API is the subset of the HTTP client the services use.
// *client.Client satisfies it.
type API interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	ClearCache()
}

// Services bundles every domain service over one API client.
type Services struct {
	Auth      *AuthService
	Clients   *ClientService
	Campaigns *CampaignService
	Alerts    *AlertService
	Users     *UserService
	Dashboard *DashboardService
	Settings  *SettingsService
}

// New wires all services to the same client and token store.
func New(api API, tokens *store.TokenStore) *Services {
	return &Services{
		Auth:      NewAuthService(api, tokens),
		Clients:   NewClientService(api),
		Campaigns: NewCampaignService(api),
		Alerts:    NewAlertService(api),
		Users:     NewUserService(api),
		Dashboard: NewDashboardService(api),
		Settings:  NewSettingsService(api),
	}
}

// nonNil turns a missing list into an empty one.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func pathID(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}
