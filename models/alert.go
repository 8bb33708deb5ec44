// ABOUTME: Alert configuration and alert history records
// ABOUTME: A nil ClientID marks a global alert

package models

import "time"

// GlobalScope selects alerts that belong to no client
const GlobalScope = "global"

// AlertConfiguration describes when and where to send an alert
type AlertConfiguration struct {
	ID            string     `json:"id,omitempty"`
	ClientID      *string    `json:"clientId"`
	Name          string     `json:"name"`
	Type          string     `json:"type"` // email, webhook
	ConditionType string     `json:"conditionType"`
	MinSeverity   string     `json:"minSeverity"`
	Recipient     string     `json:"recipient"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// IsGlobal reports whether the alert applies to every client
func (a AlertConfiguration) IsGlobal() bool {
	return a.ClientID == nil
}

// AlertHistory is an alert that fired
type AlertHistory struct {
	ID           string     `json:"id"`
	ClientID     *string    `json:"clientId"`
	Severity     string     `json:"severity"`
	Message      string     `json:"message"`
	CampaignName string     `json:"campaignName"`
	StepName     string     `json:"stepName"`
	DetectedAt   *time.Time `json:"detectedAt,omitempty"`
}
