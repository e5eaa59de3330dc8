// Package services implements the IntelliBiz operations: moderation and
// booking lifecycles, messaging, accounts and settings. Every operation takes
// the calling policy.Actor and enforces authorization itself.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/cache"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
)

// Services bundles every service behind the HTTP layer.
type Services struct {
	Auth         *AuthService
	Users        *UserService
	Businesses   *BusinessService
	Catalog      *CatalogService
	Appointments *AppointmentService
	Reviews      *ReviewService
	Messages     *MessageService
	Settings     *SettingsService
	Analytics    *AnalyticsService
}

// Deps carries the collaborators shared by the services.
type Deps struct {
	Store    *repository.Store
	Tokens   TokenIssuer
	Cache    cache.ListingCache
	Notifier Notifier
	OAuth    map[string]OAuthVerifier
	Now      func() time.Time
}

func New(d Deps) *Services {
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Notifier == nil {
		d.Notifier = NopNotifier{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Services{
		Auth:         &AuthService{users: d.Store.Users, tokens: d.Tokens, oauth: d.OAuth, now: d.Now},
		Users:        &UserService{users: d.Store.Users, now: d.Now},
		Businesses:   &BusinessService{store: d.Store, cache: d.Cache, notifier: d.Notifier, now: d.Now},
		Catalog:      &CatalogService{store: d.Store, now: d.Now},
		Appointments: &AppointmentService{store: d.Store, notifier: d.Notifier, now: d.Now},
		Reviews:      &ReviewService{store: d.Store, notifier: d.Notifier, now: d.Now},
		Messages:     &MessageService{store: d.Store, now: d.Now},
		Settings:     &SettingsService{settings: d.Store.Settings, now: d.Now},
		Analytics:    &AnalyticsService{store: d.Store},
	}
}

func requireCapability(actor policy.Actor, c policy.Capability) error {
	if !actor.Can(c) {
		return apperrors.NewForbiddenError("Insufficient permissions")
	}
	return nil
}

// ownsOrAdmin lets admins through and otherwise requires owner to be the actor.
func ownsOrAdmin(actor policy.Actor, owner uuid.UUID) error {
	if actor.IsAdmin() || actor.UserID == owner {
		return nil
	}
	return apperrors.NewForbiddenError("You do not have access to this resource")
}

func invalidate(ctx context.Context, c cache.ListingCache) {
	if err := c.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate listing cache")
	}
}
