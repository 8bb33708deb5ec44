// ABOUTME: Monitoring dashboard aggregates
// ABOUTME: Mirrors /MonitoringDashboard and its stats sub-resources

package models

import "time"

// DashboardData is the consolidated /MonitoringDashboard payload
type DashboardData struct {
	Summary            DashboardSummary    `json:"summary"`
	CampaignsByStatus  []StatusCount       `json:"campaignsByStatus"`
	CampaignsByHealth  []HealthCount       `json:"campaignsByHealth"`
	UpcomingExecutions []UpcomingExecution `json:"upcomingExecutions"`
	RecentIssues       []Issue             `json:"recentIssues"`
	LastUpdated        *time.Time          `json:"lastUpdated,omitempty"`
}

// DashboardSummary holds the headline numbers
type DashboardSummary struct {
	TotalCampaigns            int     `json:"totalCampaigns"`
	ActiveCampaigns           int     `json:"activeCampaigns"`
	CampaignsWithIssues       int     `json:"campaignsWithIssues"`
	TotalExecutionsToday      int     `json:"totalExecutionsToday"`
	SuccessfulExecutionsToday int     `json:"successfulExecutionsToday"`
	OverallHealthScore        float64 `json:"overallHealthScore"`
	OverallHealth             string  `json:"overallHealth,omitempty"`
}

// StatusCount groups campaigns by monitoring status
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// HealthCount groups campaigns by health level
type HealthCount struct {
	HealthLevel string `json:"healthLevel"`
	Count       int    `json:"count"`
}

// UpcomingExecution is a scheduled run in the look-ahead window
type UpcomingExecution struct {
	CampaignID   string     `json:"campaignId"`
	CampaignName string     `json:"campaignName"`
	CampaignType string     `json:"campaignType,omitempty"`
	ClientName   string     `json:"clientName,omitempty"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
}

// Issue is a problem detected by the monitor
type Issue struct {
	CampaignID   string     `json:"campaignId"`
	CampaignName string     `json:"campaignName"`
	ClientName   string     `json:"clientName,omitempty"`
	IssueType    string     `json:"issueType"`
	Severity     string     `json:"severity"`
	Description  string     `json:"description"`
	DetectedAt   *time.Time `json:"detectedAt,omitempty"`
}

// SuccessRate maps a bucket (e.g. day or client) to a success percentage
type SuccessRate map[string]float64
