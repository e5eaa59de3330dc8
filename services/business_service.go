package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/cache"
	"intellibiz-backend/metrics"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
	"intellibiz-backend/utils"
)

type BusinessInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Zip         string `json:"zip" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Website     string `json:"website"`
}

// missing repeats the binding check for callers that bypass gin, and also
// catches whitespace-only values.
func (in BusinessInput) missing() []string {
	return utils.MissingFields(
		utils.Field{Name: "name", Value: in.Name},
		utils.Field{Name: "category", Value: in.Category},
		utils.Field{Name: "address", Value: in.Address},
		utils.Field{Name: "city", Value: in.City},
		utils.Field{Name: "state", Value: in.State},
		utils.Field{Name: "zip", Value: in.Zip},
		utils.Field{Name: "phone", Value: in.Phone},
		utils.Field{Name: "email", Value: in.Email},
	)
}

// BusinessQuery is the listing request. Mine restricts to the actor's own
// businesses; Status is honoured for admins and for Mine.
type BusinessQuery struct {
	Category string
	City     string
	Query    string
	Status   models.BusinessStatus
	Mine     bool
}

func (q BusinessQuery) cacheKey() string {
	return fmt.Sprintf("businesses?category=%s&city=%s&q=%s",
		strings.ToLower(q.Category), strings.ToLower(q.City), strings.ToLower(q.Query))
}

type BusinessService struct {
	store    *repository.Store
	cache    cache.ListingCache
	notifier Notifier
	now      func() time.Time
}

func (s *BusinessService) Submit(ctx context.Context, actor policy.Actor, in BusinessInput) (*models.Business, error) {
	if err := requireCapability(actor, policy.BusinessSubmit); err != nil {
		return nil, err
	}
	if missing := in.missing(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}

	now := s.now()
	business := &models.Business{
		ID:          uuid.New(),
		OwnerID:     actor.UserID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		Zip:         in.Zip,
		Phone:       in.Phone,
		Email:       in.Email,
		Website:     in.Website,
		Status:      models.BusinessPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Businesses.Create(ctx, business); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	log.Info().Str("business_id", business.ID.String()).Str("owner_id", actor.UserID.String()).Msg("Business submitted")
	return business, nil
}

// Get returns approved businesses to anyone. Other states are visible to the
// owner and admins only; everyone else gets NOT_FOUND.
func (s *BusinessService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Business, error) {
	business, err := s.store.Businesses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !business.Bookable() && !actor.IsAdmin() && actor.UserID != business.OwnerID {
		return nil, apperrors.NewNotFoundError("Business not found")
	}
	return business, nil
}

func (s *BusinessService) List(ctx context.Context, actor policy.Actor, q BusinessQuery) ([]models.Business, error) {
	filter := repository.BusinessFilter{Category: q.Category, City: q.City, Query: q.Query}

	switch {
	case q.Mine:
		if actor.Anonymous() {
			return nil, apperrors.NewUnauthorizedError("Authentication required")
		}
		filter.OwnerID = actor.UserID
		filter.Status = q.Status
		return s.store.Businesses.List(ctx, filter)
	case actor.Can(policy.BusinessModerate):
		filter.Status = q.Status
		return s.store.Businesses.List(ctx, filter)
	}

	filter.Status = models.BusinessApproved
	var cached []models.Business
	key := q.cacheKey()
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Warn().Err(err).Msg("listing cache read failed")
	} else if hit {
		return cached, nil
	}

	list, err := s.store.Businesses.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, list); err != nil {
		log.Warn().Err(err).Msg("listing cache write failed")
	}
	return list, nil
}

func (s *BusinessService) owned(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Business, error) {
	business, err := s.store.Businesses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownsOrAdmin(actor, business.OwnerID); err != nil {
		return nil, err
	}
	return business, nil
}

// Update replaces the editable profile fields. Status and verification are
// changed through their own operations only.
func (s *BusinessService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, in BusinessInput) (*models.Business, error) {
	business, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if missing := in.missing(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}

	business.Name = in.Name
	business.Description = in.Description
	business.Category = in.Category
	business.Address = in.Address
	business.City = in.City
	business.State = in.State
	business.Zip = in.Zip
	business.Phone = in.Phone
	business.Email = in.Email
	business.Website = in.Website
	business.UpdatedAt = s.now()

	if err := s.store.Businesses.Save(ctx, business); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	return business, nil
}

// Delete removes the business together with its services.
func (s *BusinessService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	business, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	services, err := s.store.Services.List(ctx, repository.ServiceFilter{BusinessID: business.ID})
	if err != nil {
		return err
	}
	for _, svc := range services {
		if err := s.store.Services.Delete(ctx, svc.ID); err != nil && !apperrors.Is(err, apperrors.ErrorTypeNotFound) {
			return err
		}
	}
	if err := s.store.Businesses.Delete(ctx, business.ID); err != nil {
		return err
	}
	invalidate(ctx, s.cache)
	log.Info().Str("business_id", id.String()).Msg("Business deleted")
	return nil
}

func (s *BusinessService) Approve(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Business, error) {
	return s.decide(ctx, actor, id, models.BusinessApproved, "")
}

func (s *BusinessService) Reject(ctx context.Context, actor policy.Actor, id uuid.UUID, reason string) (*models.Business, error) {
	return s.decide(ctx, actor, id, models.BusinessRejected, strings.TrimSpace(reason))
}

func (s *BusinessService) decide(ctx context.Context, actor policy.Actor, id uuid.UUID, to models.BusinessStatus, reason string) (*models.Business, error) {
	if err := requireCapability(actor, policy.BusinessModerate); err != nil {
		return nil, err
	}
	business, err := s.store.Businesses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := business.Status
	if !from.CanTransitionTo(to) {
		metrics.RecordTransition("business", string(to), metrics.ResultRejected)
		return nil, apperrors.NewInvalidTransitionError("business", from, to)
	}
	// A repeated reject may still replace the recorded reason.
	reasonChanged := to == models.BusinessRejected && reason != "" && reason != business.RejectionReason
	if from == to && !reasonChanged {
		metrics.RecordTransition("business", string(to), metrics.ResultNoop)
		return business, nil
	}

	business.Status = to
	business.RejectionReason = reason
	business.UpdatedAt = s.now()
	if err := s.store.Businesses.Save(ctx, business); err != nil {
		return nil, err
	}
	metrics.RecordTransition("business", string(to), metrics.ResultApplied)
	invalidate(ctx, s.cache)

	log.Info().
		Str("business_id", business.ID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Business status changed")

	if from != to {
		msg := fmt.Sprintf("Your business %q has been %s.", business.Name, to)
		if reason != "" {
			msg += " Reason: " + reason
		}
		s.notifier.Notify(ctx, business.OwnerID, msg)
	}
	return business, nil
}

// Verify sets the verified badge. It does not touch the moderation status.
func (s *BusinessService) Verify(ctx context.Context, actor policy.Actor, id uuid.UUID, verified bool) (*models.Business, error) {
	if err := requireCapability(actor, policy.BusinessModerate); err != nil {
		return nil, err
	}
	business, err := s.store.Businesses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	business.IsVerified = verified
	business.UpdatedAt = s.now()
	if err := s.store.Businesses.Save(ctx, business); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache)
	return business, nil
}
