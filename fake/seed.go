package fake

import (
	"fmt"
	"time"

	"github.com/rodriigosc/campaign-watch/models"
)

// Seeded credentials
const (
	AdminEmail     = "admin@campaign.watch"
	AdminPassword  = "admin123"
	ViewerEmail    = "viewer@campaign.watch"
	ViewerPassword = "viewer123"
)

// SeedTime is the reference instant every seeded timestamp is derived from
var SeedTime = time.Date(2025, 11, 2, 14, 30, 0, 0, time.UTC)

// ClientNames are the seeded clients, in list order. Three contain "Banco".
var ClientNames = []string{
	"Acme Retail",
	"Banco Alfa",
	"Loja Central",
	"Telecom Sul",
	"Banco Beta",
	"Farmacia Vida",
	"Seguros Norte",
	"Editora Azul",
	"Banco Gama",
	"Viagens Mar",
	"Academia Forte",
	"Mercado Leste",
}

func at(d time.Duration) *time.Time {
	t := SeedTime.Add(d)
	return &t
}

func strPtr(s string) *string {
	return &s
}

func seedUsers() []userRecord {
	return []userRecord{
		{
			User:     models.User{ID: "u-admin", Name: "Ana Admin", Email: AdminEmail, Role: models.RoleAdmin, IsActive: true, CreatedAt: at(-90 * 24 * time.Hour)},
			password: AdminPassword,
		},
		{
			User:     models.User{ID: "u-viewer", Name: "Victor Viewer", Email: ViewerEmail, Role: "Viewer", IsActive: true, CreatedAt: at(-30 * 24 * time.Hour)},
			password: ViewerPassword,
		},
	}
}

func seedClients() []models.Client {
	clients := make([]models.Client, len(ClientNames))
	for i, name := range ClientNames {
		clients[i] = models.Client{
			ID:        fmt.Sprintf("c-%02d", i+1),
			Name:      name,
			IsActive:  i%5 != 4,
			CreatedAt: at(-time.Duration(365-i*20) * 24 * time.Hour),
			CampaignConfig: &models.CampaignConfig{
				ProjectID: fmt.Sprintf("proj-%03d", (i+1)*7),
				Database:  fmt.Sprintf("db_client_%02d", i+1),
			},
			EffectiveChannels: []models.Channel{{Name: "Email"}, {Name: "SMS"}},
		}
	}
	return clients
}

func seedCampaigns() []models.Campaign {
	return []models.Campaign{
		{ID: "m-1", ClientName: "Acme Retail", IDCampanha: "101", NumberID: 101, Name: "Welcome Journey", CampaignType: "Recurrent", MonitoringStatus: "Completed", HealthStatus: "Healthy", IsActive: true, NextExecutionDate: at(6 * time.Hour), LastCheckMonitoring: at(-5 * time.Minute)},
		{ID: "m-2", ClientName: "Acme Retail", IDCampanha: "102", NumberID: 102, Name: "VIP Segmentation", CampaignType: "Recurrent", MonitoringStatus: "Failed", HealthStatus: "Critical", HasMonitoringErrors: true, IsActive: true, NextExecutionDate: at(-2 * time.Hour), LastCheckMonitoring: at(-5 * time.Minute)},
		{ID: "m-3", ClientName: "Banco Alfa", IDCampanha: "201", NumberID: 201, Name: "Card Upgrade", CampaignType: "Single", MonitoringStatus: "Running", HealthStatus: "Healthy", IsActive: true, NextExecutionDate: at(2 * time.Hour), LastCheckMonitoring: at(-1 * time.Minute)},
		{ID: "m-4", ClientName: "Banco Beta", IDCampanha: "301", NumberID: 301, Name: "Loan Reminder", CampaignType: "Recurrent", MonitoringStatus: "Delayed", HealthStatus: "Warning", HasMonitoringErrors: true, IsActive: true, NextExecutionDate: at(-30 * time.Minute), LastCheckMonitoring: at(-10 * time.Minute)},
		{ID: "m-5", ClientName: "Telecom Sul", IDCampanha: "401", NumberID: 401, Name: "Plan Renewal", CampaignType: "Recurrent", MonitoringStatus: "Completed", HealthStatus: "Healthy", IsActive: false, LastCheckMonitoring: at(-3 * time.Hour)},
	}
}

func seedExecutions() []models.Execution {
	return []models.Execution{
		{ID: "e-1", ExecutionID: "x-1001", CampaignID: "m-1", CampaignName: "Welcome Journey", ClientName: "Acme Retail", Status: "Completed", StartDate: at(-26 * time.Hour), EndDate: at(-25 * time.Hour)},
		{ID: "e-2", ExecutionID: "x-1002", CampaignID: "m-2", CampaignName: "VIP Segmentation", ClientName: "Acme Retail", Status: "Error", StartDate: at(-3 * time.Hour), HasMonitoringErrors: true, Steps: []models.ExecutionStep{
			{Name: "Filter VIP customers", Type: "Filter", Status: "Error", Error: "Filter running for more than 30 minutes"},
		}},
		{ID: "e-3", ExecutionID: "x-1003", CampaignID: "m-4", CampaignName: "Loan Reminder", ClientName: "Banco Beta", Status: "Error", StartDate: at(-1 * time.Hour), HasMonitoringErrors: true, Steps: []models.ExecutionStep{
			{Name: "Send SMS", Type: "Channel", Status: "Error", Error: "Channel reported status Error"},
		}},
	}
}

func seedAlerts() []models.AlertConfiguration {
	return []models.AlertConfiguration{
		{ID: "g-1", Name: "GLOBAL: Critical integration failure", Type: "email", ConditionType: "StepFailed", MinSeverity: "Critical", Recipient: "devops@example.com", IsActive: true, CreatedAt: at(-72 * time.Hour)},
		{ID: "g-2", Name: "GLOBAL: Delays", Type: "webhook", ConditionType: "ExecutionDelayed", MinSeverity: "Warning", Recipient: "https://hooks.example.com/global", IsActive: true, CreatedAt: at(-96 * time.Hour)},
		{ID: "c1-1", ClientID: strPtr("c-01"), Name: "Acme: filter stuck", Type: "email", ConditionType: "FilterStuck", MinSeverity: "Error", Recipient: "acme-admin@example.com", IsActive: true, CreatedAt: at(-120 * time.Hour)},
	}
}

func seedHistory() []models.AlertHistory {
	return []models.AlertHistory{
		{ID: "h-g-1", Severity: "Critical", Message: "Channel step failed: Authentication failed", CampaignName: "Welcome Journey", StepName: "Send welcome email", DetectedAt: at(0)},
		{ID: "h-c1-1", ClientID: strPtr("c-01"), Severity: "Error", Message: "Filter step running for more than 30 minutes", CampaignName: "VIP Segmentation", StepName: "Filter VIP customers", DetectedAt: at(-3 * time.Hour)},
	}
}

func seedIssues() []models.Issue {
	return []models.Issue{
		{CampaignID: "m-2", CampaignName: "VIP Segmentation", ClientName: "Acme Retail", IssueType: "FilterStuck", Severity: "Error", Description: "Filter running for more than 30 minutes", DetectedAt: at(-3 * time.Hour)},
		{CampaignID: "m-4", CampaignName: "Loan Reminder", ClientName: "Banco Beta", IssueType: "ExecutionDelayed", Severity: "Warning", Description: "Execution is 30 minutes late", DetectedAt: at(-30 * time.Minute)},
		{CampaignID: "m-4", CampaignName: "Loan Reminder", ClientName: "Banco Beta", IssueType: "IntegrationError", Severity: "Critical", Description: "SMS channel rejected the batch", DetectedAt: at(-1 * time.Hour)},
	}
}

func seedSettings() models.Settings {
	return models.Settings{
		Profile: models.ProfileSettings{Name: "Ana Admin", Email: AdminEmail},
		System:  map[string]any{"monitoringIntervalMinutes": float64(5)},
		General: map[string]any{"language": "pt-BR", "timezone": "America/Sao_Paulo"},
	}
}
