package services

import (
	"context"
	"net/url"

	"github.com/rodriigosc/campaign-watch/models"
)

const (
	alertConfigPath  = "/AlertConfiguration"
	alertHistoryPath = "/AlertHistory"
)

// AlertService manages alert configurations and reads alert history.
// Scope is a client id, models.GlobalScope, or "" for nothing.
type AlertService struct {
	api API
}

func NewAlertService(api API) *AlertService {
	return &AlertService{api: api}
}

func scopeParams(scope string) url.Values {
	return url.Values{"clientId": {scope}}
}

// Configurations lists alerts for a scope. An empty scope returns an
// empty list without calling the API.
func (s *AlertService) Configurations(ctx context.Context, scope string) ([]models.AlertConfiguration, error) {
	if scope == "" {
		return []models.AlertConfiguration{}, nil
	}
	var alerts []models.AlertConfiguration
	if err := s.api.Get(ctx, alertConfigPath, scopeParams(scope), &alerts); err != nil {
		return nil, err
	}
	return nonNil(alerts), nil
}

// History lists fired alerts for a scope. An empty scope returns an
// empty list without calling the API.
func (s *AlertService) History(ctx context.Context, scope string) ([]models.AlertHistory, error) {
	if scope == "" {
		return []models.AlertHistory{}, nil
	}
	var history []models.AlertHistory
	if err := s.api.Get(ctx, alertHistoryPath, scopeParams(scope), &history); err != nil {
		return nil, err
	}
	return nonNil(history), nil
}

// Create adds an alert; a nil ClientID makes it global.
func (s *AlertService) Create(ctx context.Context, in models.AlertConfiguration) (*models.AlertConfiguration, error) {
	var created models.AlertConfiguration
	if err := s.api.Post(ctx, alertConfigPath, in, &created); err != nil {
		return nil, err
	}
	s.api.ClearCache()
	return &created, nil
}

func (s *AlertService) Update(ctx context.Context, id string, in models.AlertConfiguration) error {
	if err := s.api.Put(ctx, pathID(alertConfigPath, id), in, nil); err != nil {
		return err
	}
	s.api.ClearCache()
	return nil
}

func (s *AlertService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, pathID(alertConfigPath, id), nil); err != nil {
		return err
	}
	s.api.ClearCache()
	return nil
}
