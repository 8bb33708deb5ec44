// ABOUTME: Campaign and execution monitoring records
// ABOUTME: Mirrors /CampaignMonitoring and /ExecutionMonitoring payloads

package models

import "time"

// Campaign is a monitored campaign as returned by /CampaignMonitoring
type Campaign struct {
	ID                  string     `json:"id"`
	ClientName          string     `json:"clientName"`
	IDCampanha          string     `json:"idCampanha"`
	NumberID            int        `json:"numberId"`
	Name                string     `json:"name"`
	CampaignType        string     `json:"campaignType,omitempty"`
	MonitoringStatus    string     `json:"monitoringStatus"`
	HealthStatus        string     `json:"healthStatus,omitempty"`
	HasMonitoringErrors bool       `json:"hasMonitoringErrors"`
	IsActive            bool       `json:"isActive"`
	NextExecutionDate   *time.Time `json:"nextExecutionDate,omitempty"`
	LastCheckMonitoring *time.Time `json:"lastCheckMonitoring,omitempty"`
}

// CampaignMetrics aggregates execution outcomes for one campaign
type CampaignMetrics struct {
	TotalExecutions      int     `json:"totalExecutions"`
	SuccessfulExecutions int     `json:"successfulExecutions"`
	FailedExecutions     int     `json:"failedExecutions"`
	SuccessRate          float64 `json:"successRate"`
	AverageDurationSecs  float64 `json:"averageDurationSeconds"`
}

// CampaignDiagnostic describes what the monitor found wrong with a campaign
type CampaignDiagnostic struct {
	CampaignID    string   `json:"campaignId"`
	OverallHealth string   `json:"overallHealth"`
	MainIssues    []string `json:"mainIssues"`
	Issues        []Issue  `json:"issues,omitempty"`
}

// Execution is one run of a campaign
type Execution struct {
	ID                  string          `json:"id"`
	ExecutionID         string          `json:"executionId,omitempty"`
	CampaignID          string          `json:"campaignId"`
	CampaignName        string          `json:"campaignName"`
	ClientName          string          `json:"clientName,omitempty"`
	Status              string          `json:"status"`
	StartDate           *time.Time      `json:"startDate,omitempty"`
	EndDate             *time.Time      `json:"endDate,omitempty"`
	HasMonitoringErrors bool            `json:"hasMonitoringErrors"`
	Steps               []ExecutionStep `json:"steps,omitempty"`
}

// ExecutionStep is one step (filter, channel, wait) of an execution
type ExecutionStep struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
