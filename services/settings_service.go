package services

import (
	"context"
	"strings"
	"time"

	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
)

type SettingsInput struct {
	SiteName       *string `json:"siteName"`
	ContactEmail   *string `json:"contactEmail"`
	SupportEmail   *string `json:"supportEmail"`
	PrivacyPolicy  *string `json:"privacyPolicy"`
	TermsOfService *string `json:"termsOfService"`
}

type SettingsService struct {
	settings repository.SettingsRepository
	now      func() time.Time
}

func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.settings.Get(ctx)
}

// Update applies the non-nil fields.
func (s *SettingsService) Update(ctx context.Context, actor policy.Actor, in SettingsInput) (*models.Settings, error) {
	if err := requireCapability(actor, policy.SettingsManage); err != nil {
		return nil, err
	}
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&current.SiteName, in.SiteName)
	set(&current.ContactEmail, in.ContactEmail)
	set(&current.SupportEmail, in.SupportEmail)
	set(&current.PrivacyPolicy, in.PrivacyPolicy)
	set(&current.TermsOfService, in.TermsOfService)
	current.ID = models.SettingsID
	current.UpdatedAt = s.now()

	if err := s.settings.Save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}
