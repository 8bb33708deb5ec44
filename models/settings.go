// ABOUTME: User settings records for /User/settings
// ABOUTME: Profile is typed; system and general sections are free-form

package models

// Settings is the full /User/settings payload
type Settings struct {
	Profile ProfileSettings `json:"profile"`
	System  map[string]any  `json:"system,omitempty"`
	General map[string]any  `json:"general,omitempty"`
}

// ProfileSettings is the only shape PUT /User/settings/profile accepts
type ProfileSettings struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
