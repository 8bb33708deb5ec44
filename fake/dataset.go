package fake

import (
	"github.com/rodriigosc/campaign-watch/models"
)

type userRecord struct {
	models.User
	password string
}

// dataset is the mutable state behind the fake. Guarded by Server.mu.
type dataset struct {
	users      []userRecord
	clients    []models.Client
	campaigns  []models.Campaign
	executions []models.Execution
	alerts     []models.AlertConfiguration
	history    []models.AlertHistory
	issues     []models.Issue
	settings   map[string]models.Settings
}

func newDataset() *dataset {
	return &dataset{
		users:      seedUsers(),
		clients:    seedClients(),
		campaigns:  seedCampaigns(),
		executions: seedExecutions(),
		alerts:     seedAlerts(),
		history:    seedHistory(),
		issues:     seedIssues(),
		settings:   make(map[string]models.Settings),
	}
}

func (d *dataset) userByEmail(email string) (userRecord, bool) {
	for _, u := range d.users {
		if u.Email == email {
			return u, true
		}
	}
	return userRecord{}, false
}

func (d *dataset) userIndex(id string) int {
	for i, u := range d.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (d *dataset) clientIndex(id string) int {
	for i, c := range d.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (d *dataset) alertIndex(id string) int {
	for i, a := range d.alerts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (d *dataset) campaign(id string) (models.Campaign, bool) {
	for _, c := range d.campaigns {
		if c.ID == id {
			return c, true
		}
	}
	return models.Campaign{}, false
}

// settingsFor returns the user's settings, defaulting the profile from the user record.
func (d *dataset) settingsFor(userID string) models.Settings {
	if st, ok := d.settings[userID]; ok {
		return st
	}
	st := seedSettings()
	if i := d.userIndex(userID); i >= 0 {
		u := d.users[i]
		st.Profile = models.ProfileSettings{Name: u.Name, Email: u.Email, Phone: u.Phone}
	}
	return st
}

// inScope matches the clientId query convention: "global" selects records
// without a client.
func inScope(clientID *string, scope string) bool {
	if scope == models.GlobalScope {
		return clientID == nil
	}
	return clientID != nil && *clientID == scope
}
