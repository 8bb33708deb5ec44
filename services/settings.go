package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rodriigosc/campaign-watch/models"
)

const settingsPath = "/User/settings"

// Settings sections accepted by Save
const (
	SectionProfile  = "profile"
	SectionSystem   = "system"
	SectionGeneral  = "general"
	SectionSecurity = "security"
)

var (
	// ErrUnsupportedSection is a known section the API has no endpoint for
	ErrUnsupportedSection = errors.New("settings section not supported by the API")
	// ErrUnknownSettingsSection is a section name that does not exist
	ErrUnknownSettingsSection = errors.New("unknown settings section")
)

// SettingsService reads and saves the current user's settings
type SettingsService struct {
	api API
}

func NewSettingsService(api API) *SettingsService {
	return &SettingsService{api: api}
}

func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	var st models.Settings
	if err := s.api.Get(ctx, settingsPath, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// SaveProfile sends only name, email and phone.
func (s *SettingsService) SaveProfile(ctx context.Context, p models.ProfileSettings) error {
	return s.put(ctx, SectionProfile, models.ProfileSettings{Name: p.Name, Email: p.Email, Phone: p.Phone})
}

// Save writes one section. Profile data is reduced to name, email and phone.
func (s *SettingsService) Save(ctx context.Context, section string, data map[string]any) error {
	switch section {
	case SectionProfile:
		return s.SaveProfile(ctx, models.ProfileSettings{
			Name:  stringField(data, "name"),
			Email: stringField(data, "email"),
			Phone: stringField(data, "phone"),
		})
	case SectionSystem, SectionGeneral:
		return s.put(ctx, section, data)
	case SectionSecurity:
		return fmt.Errorf("%w: %s", ErrUnsupportedSection, section)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSettingsSection, section)
	}
}

func (s *SettingsService) put(ctx context.Context, section string, payload any) error {
	if err := s.api.Put(ctx, settingsPath+"/"+section, payload, nil); err != nil {
		return err
	}
	s.api.ClearCache()
	return nil
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
