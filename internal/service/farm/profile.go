package farm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/store"
)

type loginForm struct {
	Email string `json:"email" validate:"required,email"`
}

// Login stores a profile for email. There is no credential check; any
// well-formed address signs in.
func (s *Service) Login(ctx context.Context, email, name string) (models.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkForm(loginForm{Email: email}); err != nil {
		return models.UserProfile{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	if existing := s.Profile(); existing != nil && existing.Email == email {
		return *existing, nil
	}

	profile := models.UserProfile{
		ID:        s.newID(),
		Email:     email,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := store.Set(ctx, s.store, store.KeyProfile, &profile); err != nil {
		return models.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}
	s.logger.Info("user signed in", zap.String("user_id", profile.ID))
	return profile, nil
}

// Logout forgets the stored profile. Farm data is kept.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.Delete(ctx, store.KeyProfile)
}

// Profile returns the signed-in user or nil.
func (s *Service) Profile() *models.UserProfile {
	return store.Get[*models.UserProfile](s.store, store.KeyProfile)
}

// UpdateProfile changes the display name and farm name of the signed-in user.
func (s *Service) UpdateProfile(ctx context.Context, name, farmName string) (models.UserProfile, error) {
	var updated models.UserProfile
	err := store.Update(ctx, s.store, store.KeyProfile, func(p *models.UserProfile) (*models.UserProfile, error) {
		if p == nil {
			return nil, fmt.Errorf("profile: %w", models.ErrNotFound)
		}
		if n := strings.TrimSpace(name); n != "" {
			p.Name = n
		}
		p.FarmName = strings.TrimSpace(farmName)
		updated = *p
		return p, nil
	})
	if err != nil {
		return models.UserProfile{}, err
	}
	return updated, nil
}

// Preferences returns the theme and language.
func (s *Service) Preferences() models.Preferences {
	return models.Preferences{
		Theme:    store.Get[models.Theme](s.store, store.KeyTheme),
		Language: store.Get[string](s.store, store.KeyLanguage),
	}
}

// UpdatePreferences stores any non-empty field of p.
func (s *Service) UpdatePreferences(ctx context.Context, p models.Preferences) (models.Preferences, error) {
	if err := checkForm(p); err != nil {
		return models.Preferences{}, err
	}

	if p.Theme != "" {
		if err := store.Set(ctx, s.store, store.KeyTheme, p.Theme); err != nil {
			return models.Preferences{}, fmt.Errorf("save theme: %w", err)
		}
	}
	if p.Language != "" {
		if err := store.Set(ctx, s.store, store.KeyLanguage, p.Language); err != nil {
			return models.Preferences{}, fmt.Errorf("save language: %w", err)
		}
	}
	return s.Preferences(), nil
}

// NotificationSettings returns the reminder settings.
func (s *Service) NotificationSettings() models.NotificationSettings {
	return store.Get[models.NotificationSettings](s.store, store.KeyNotificationSettings)
}

// UpdateNotificationSettings validates and replaces the reminder settings.
func (s *Service) UpdateNotificationSettings(ctx context.Context, settings models.NotificationSettings) (models.NotificationSettings, error) {
	if err := checkForm(settings); err != nil {
		return models.NotificationSettings{}, err
	}
	if err := store.Set(ctx, s.store, store.KeyNotificationSettings, settings); err != nil {
		return models.NotificationSettings{}, fmt.Errorf("save notification settings: %w", err)
	}
	return settings, nil
}
