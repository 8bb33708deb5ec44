// ABOUTME: Client (tenant) records monitored by Campaign Watch
// ABOUTME: Mirrors the /Client resource payloads

package models

import "time"

// Client is a customer whose campaigns are monitored
type Client struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         *time.Time      `json:"createdAt,omitempty"`
	CampaignConfig    *CampaignConfig `json:"campaignConfig,omitempty"`
	EffectiveChannels []Channel       `json:"effectiveChannels,omitempty"`
}

// CampaignConfig points at the client's campaign project
type CampaignConfig struct {
	ProjectID string `json:"projectID"`
	Database  string `json:"database,omitempty"`
}

// Channel is a delivery channel enabled for a client
type Channel struct {
	Name string `json:"name"`
}

// ProjectID returns the external project id or "" when unset
func (c Client) ProjectID() string {
	if c.CampaignConfig == nil {
		return ""
	}
	return c.CampaignConfig.ProjectID
}
