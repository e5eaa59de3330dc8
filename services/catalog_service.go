package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
)

type ServiceInput struct {
	BusinessID  uuid.UUID `json:"businessId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Duration    int       `json:"duration"`
	IsActive    *bool     `json:"isActive"`
}

func (in ServiceInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.NewValidationError("Service name is required")
	}
	if in.Price < 0 {
		return apperrors.NewValidationError("Price cannot be negative")
	}
	if in.Duration < 0 {
		return apperrors.NewValidationError("Duration cannot be negative")
	}
	return nil
}

// CatalogService manages the services a business offers.
type CatalogService struct {
	store *repository.Store
	now   func() time.Time
}

func (s *CatalogService) manageable(ctx context.Context, actor policy.Actor, businessID uuid.UUID) (*models.Business, error) {
	if err := requireCapability(actor, policy.ServiceManage); err != nil {
		return nil, err
	}
	business, err := s.store.Businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := ownsOrAdmin(actor, business.OwnerID); err != nil {
		return nil, err
	}
	return business, nil
}

func (s *CatalogService) Create(ctx context.Context, actor policy.Actor, in ServiceInput) (*models.Service, error) {
	if in.BusinessID == uuid.Nil {
		return nil, apperrors.NewValidationError("businessId is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	business, err := s.manageable(ctx, actor, in.BusinessID)
	if err != nil {
		return nil, err
	}
	if business.Status == models.BusinessRejected {
		return nil, apperrors.NewValidationError("Cannot add services to a rejected business")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := s.now()
	svc := &models.Service{
		ID:          uuid.New(),
		BusinessID:  business.ID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// ListForBusiness returns the active services of an approved business to the
// public, and every service to the owner and admins.
func (s *CatalogService) ListForBusiness(ctx context.Context, actor policy.Actor, businessID uuid.UUID) ([]models.Service, error) {
	business, err := s.store.Businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || actor.UserID == business.OwnerID {
		return s.store.Services.List(ctx, repository.ServiceFilter{BusinessID: businessID})
	}
	if !business.Bookable() {
		return nil, apperrors.NewNotFoundError("Business not found")
	}
	return s.store.Services.List(ctx, repository.ServiceFilter{BusinessID: businessID, ActiveOnly: true})
}

// List returns active services across businesses, optionally for one business.
func (s *CatalogService) List(ctx context.Context, actor policy.Actor, businessID uuid.UUID) ([]models.Service, error) {
	if businessID != uuid.Nil {
		return s.ListForBusiness(ctx, actor, businessID)
	}
	services, err := s.store.Services.List(ctx, repository.ServiceFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	approved := make(map[uuid.UUID]bool)
	out := make([]models.Service, 0, len(services))
	for _, svc := range services {
		ok, seen := approved[svc.BusinessID]
		if !seen {
			business, err := s.store.Businesses.FindByID(ctx, svc.BusinessID)
			ok = err == nil && business.Bookable()
			approved[svc.BusinessID] = ok
		}
		if ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (s *CatalogService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Service, error) {
	svc, err := s.store.Services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	business, err := s.store.Businesses.FindByID(ctx, svc.BusinessID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || actor.UserID == business.OwnerID {
		return svc, nil
	}
	if !business.Bookable() || !svc.IsActive {
		return nil, apperrors.NewNotFoundError("Service not found")
	}
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	svc, err := s.store.Services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.manageable(ctx, actor, svc.BusinessID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	svc.Name = strings.TrimSpace(in.Name)
	svc.Description = in.Description
	svc.Price = in.Price
	svc.Duration = in.Duration
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}
	svc.UpdatedAt = s.now()
	if err := s.store.Services.Save(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	svc, err := s.store.Services.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.manageable(ctx, actor, svc.BusinessID); err != nil {
		return err
	}
	return s.store.Services.Delete(ctx, id)
}
