// ABOUTME: Campaign and execution monitoring reads
// ABOUTME: Wraps /CampaignMonitoring and /ExecutionMonitoring

package services

import (
	"context"
	"net/url"
	"time"

	"github.com/rodriigosc/campaign-watch/models"
)

const (
	campaignsPath  = "/CampaignMonitoring"
	executionsPath = "/ExecutionMonitoring"
)

// CampaignFilter narrows GET /CampaignMonitoring. Zero fields are not sent.
type CampaignFilter struct {
	ClientName       string
	MonitoringStatus string
	HasErrors        *bool
	From             time.Time
	To               time.Time
	Page             int
	PageSize         int
}

func (f CampaignFilter) values() url.Values {
	return buildQuery(map[string]any{
		"clientName":       f.ClientName,
		"monitoringStatus": f.MonitoringStatus,
		"hasErrors":        f.HasErrors,
		"dataInicio":       f.From,
		"dataFim":          f.To,
		"pagina":           f.Page,
		"tamanhoPagina":    f.PageSize,
	})
}

// ExecutionFilter narrows GET /ExecutionMonitoring/with-errors.
type ExecutionFilter struct {
	ClientName string
	From       time.Time
	To         time.Time
}

func (f ExecutionFilter) values() url.Values {
	return buildQuery(map[string]any{
		"clientName": f.ClientName,
		"dataInicio": f.From,
		"dataFim":    f.To,
	})
}

// CampaignService reads monitored campaigns and their executions
type CampaignService struct {
	api API
}

func NewCampaignService(api API) *CampaignService {
	return &CampaignService{api: api}
}

func (s *CampaignService) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := s.api.Get(ctx, campaignsPath, f.values(), &campaigns); err != nil {
		return nil, err
	}
	return nonNil(campaigns), nil
}

// Get fetches a campaign by its monitoring id.
func (s *CampaignService) Get(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	if err := s.api.Get(ctx, pathID(campaignsPath, id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByOriginalID fetches a campaign by client name and the campaign id
// used in the client's own system.
func (s *CampaignService) GetByOriginalID(ctx context.Context, clientName, campaignID string) (*models.Campaign, error) {
	path := campaignsPath + "/original/" + url.PathEscape(clientName) + "/" + url.PathEscape(campaignID)

	var c models.Campaign
	if err := s.api.Get(ctx, path, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CampaignService) Metrics(ctx context.Context, id string) (*models.CampaignMetrics, error) {
	var m models.CampaignMetrics
	if err := s.api.Get(ctx, pathID(campaignsPath, id)+"/metrics", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *CampaignService) Diagnostic(ctx context.Context, id string) (*models.CampaignDiagnostic, error) {
	var d models.CampaignDiagnostic
	if err := s.api.Get(ctx, pathID(campaignsPath, id)+"/diagnostic", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *CampaignService) Executions(ctx context.Context, id string) ([]models.Execution, error) {
	var execs []models.Execution
	if err := s.api.Get(ctx, pathID(campaignsPath, id)+"/executions", nil, &execs); err != nil {
		return nil, err
	}
	return nonNil(execs), nil
}

// Delayed lists campaigns whose next execution is overdue.
func (s *CampaignService) Delayed(ctx context.Context, clientName string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	params := buildQuery(map[string]any{"clientName": clientName})
	if err := s.api.Get(ctx, campaignsPath+"/delayed", params, &campaigns); err != nil {
		return nil, err
	}
	return nonNil(campaigns), nil
}

// Execution fetches one execution by its original id.
func (s *CampaignService) Execution(ctx context.Context, executionID string) (*models.Execution, error) {
	var e models.Execution
	if err := s.api.Get(ctx, pathID(executionsPath, executionID), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *CampaignService) ExecutionsWithErrors(ctx context.Context, f ExecutionFilter) ([]models.Execution, error) {
	var execs []models.Execution
	if err := s.api.Get(ctx, executionsPath+"/with-errors", f.values(), &execs); err != nil {
		return nil, err
	}
	return nonNil(execs), nil
}
