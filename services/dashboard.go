// ABOUTME: Monitoring dashboard reads and the concurrent overview
// ABOUTME: Wraps /MonitoringDashboard and its stats sub-resources

package services

import (
	"context"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rodriigosc/campaign-watch/models"
)

const (
	dashboardPath = "/MonitoringDashboard"

	// DefaultUpcomingHours is the look-ahead window for upcoming executions
	DefaultUpcomingHours = 24
	// OverviewIssueLimit caps recent issues fetched by Overview
	OverviewIssueLimit = 10
)

// IssueFilter narrows GET /MonitoringDashboard/recent-issues.
type IssueFilter struct {
	Severity string
	Since    time.Time
	Limit    int
}

func (f IssueFilter) values() url.Values {
	return buildQuery(map[string]any{
		"severity": f.Severity,
		"desde":    f.Since,
		"limite":   f.Limit,
	})
}

// StatsFilter narrows the stats endpoints.
type StatsFilter struct {
	ClientName string
	From       time.Time
	To         time.Time
}

func (f StatsFilter) values() url.Values {
	return buildQuery(map[string]any{
		"clientName": f.ClientName,
		"dataInicio": f.From,
		"dataFim":    f.To,
	})
}

// DashboardService reads monitoring aggregates
type DashboardService struct {
	api API
}

func NewDashboardService(api API) *DashboardService {
	return &DashboardService{api: api}
}

// Data returns the consolidated dashboard, optionally for one client.
func (s *DashboardService) Data(ctx context.Context, clientName string) (*models.DashboardData, error) {
	var d models.DashboardData
	params := buildQuery(map[string]any{"clientName": clientName})
	if err := s.api.Get(ctx, dashboardPath, params, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Upcoming lists executions scheduled in the next hours; hours <= 0 means 24.
func (s *DashboardService) Upcoming(ctx context.Context, hours int) ([]models.UpcomingExecution, error) {
	if hours <= 0 {
		hours = DefaultUpcomingHours
	}
	var upcoming []models.UpcomingExecution
	params := buildQuery(map[string]any{"proximasHoras": hours})
	if err := s.api.Get(ctx, dashboardPath+"/upcoming-executions", params, &upcoming); err != nil {
		return nil, err
	}
	return nonNil(upcoming), nil
}

func (s *DashboardService) RecentIssues(ctx context.Context, f IssueFilter) ([]models.Issue, error) {
	var issues []models.Issue
	if err := s.api.Get(ctx, dashboardPath+"/recent-issues", f.values(), &issues); err != nil {
		return nil, err
	}
	return nonNil(issues), nil
}

func (s *DashboardService) StatsByMonitoringStatus(ctx context.Context, f StatsFilter) ([]models.StatusCount, error) {
	var stats []models.StatusCount
	if err := s.api.Get(ctx, dashboardPath+"/stats/by-monitoring-status", f.values(), &stats); err != nil {
		return nil, err
	}
	return nonNil(stats), nil
}

func (s *DashboardService) StatsByHealthLevel(ctx context.Context, clientName string) ([]models.HealthCount, error) {
	var stats []models.HealthCount
	params := buildQuery(map[string]any{"clientName": clientName})
	if err := s.api.Get(ctx, dashboardPath+"/stats/by-health-level", params, &stats); err != nil {
		return nil, err
	}
	return nonNil(stats), nil
}

func (s *DashboardService) SuccessRate(ctx context.Context, f StatsFilter) (models.SuccessRate, error) {
	rate := models.SuccessRate{}
	if err := s.api.Get(ctx, dashboardPath+"/stats/success-rate", f.values(), &rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// Overview is everything the dashboard screen shows.
type Overview struct {
	Data        *models.DashboardData      `json:"data"`
	Upcoming    []models.UpcomingExecution `json:"upcomingExecutions"`
	Issues      []models.Issue             `json:"recentIssues"`
	ByStatus    []models.StatusCount       `json:"byMonitoringStatus"`
	ByHealth    []models.HealthCount       `json:"byHealthLevel"`
	SuccessRate models.SuccessRate         `json:"successRate"`
}

// Overview fetches every dashboard resource concurrently. The first
// failure cancels the rest and is returned.
func (s *DashboardService) Overview(ctx context.Context, clientName string) (*Overview, error) {
	g, ctx := errgroup.WithContext(ctx)
	o := &Overview{}
	stats := StatsFilter{ClientName: clientName}

	g.Go(func() error {
		d, err := s.Data(ctx, clientName)
		o.Data = d
		return err
	})
	g.Go(func() error {
		u, err := s.Upcoming(ctx, DefaultUpcomingHours)
		o.Upcoming = u
		return err
	})
	g.Go(func() error {
		i, err := s.RecentIssues(ctx, IssueFilter{Limit: OverviewIssueLimit})
		o.Issues = i
		return err
	})
	g.Go(func() error {
		st, err := s.StatsByMonitoringStatus(ctx, stats)
		o.ByStatus = st
		return err
	})
	g.Go(func() error {
		h, err := s.StatsByHealthLevel(ctx, clientName)
		o.ByHealth = h
		return err
	})
	g.Go(func() error {
		r, err := s.SuccessRate(ctx, stats)
		o.SuccessRate = r
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return o, nil
}
