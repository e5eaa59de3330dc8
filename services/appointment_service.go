package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/metrics"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
	"intellibiz-backend/utils"
)

type BookingInput struct {
	BusinessID uuid.UUID `json:"businessId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	Notes      string    `json:"notes"`
}

type AppointmentQuery struct {
	Status     models.AppointmentStatus
	BusinessID uuid.UUID
	Date       string
}

type AppointmentService struct {
	store    *repository.Store
	notifier Notifier
	now      func() time.Time
}

// Create books a pending appointment. Overlapping bookings are accepted.
func (s *AppointmentService) Create(ctx context.Context, actor policy.Actor, in BookingInput) (*models.Appointment, error) {
	if err := requireCapability(actor, policy.AppointmentBook); err != nil {
		return nil, err
	}
	if in.BusinessID == uuid.Nil || in.ServiceID == uuid.Nil {
		return nil, apperrors.NewValidationError("businessId and serviceId are required")
	}
	if !utils.ValidDate(in.Date) {
		return nil, apperrors.NewValidationError("date must be YYYY-MM-DD")
	}
	before, ok := utils.ClockBefore(in.StartTime, in.EndTime)
	if !ok {
		return nil, apperrors.NewValidationError("startTime and endTime must be HH:MM")
	}
	if !before {
		return nil, apperrors.NewValidationError("endTime must be after startTime")
	}

	business, err := s.store.Businesses.FindByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.Bookable() {
		return nil, apperrors.NewValidationError("Business is not accepting bookings")
	}
	svc, err := s.store.Services.FindByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.BusinessID != business.ID {
		return nil, apperrors.NewValidationError("Service does not belong to this business")
	}
	if !svc.IsActive {
		return nil, apperrors.NewValidationError("Service is not available")
	}

	now := s.now()
	appt := &models.Appointment{
		ID:         uuid.New(),
		UserID:     actor.UserID,
		BusinessID: business.ID,
		ServiceID:  svc.ID,
		Date:       in.Date,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Status:     models.AppointmentPending,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	log.Info().
		Str("appointment_id", appt.ID.String()).
		Str("business_id", business.ID.String()).
		Str("date", appt.Date).
		Msg("Appointment booked")
	s.notifier.Notify(ctx, business.OwnerID,
		fmt.Sprintf("New booking for %s on %s at %s.", svc.Name, appt.Date, appt.StartTime))
	return appt, nil
}

func (s *AppointmentService) ownedBusinessIDs(ctx context.Context, owner uuid.UUID) ([]uuid.UUID, error) {
	businesses, err := s.store.Businesses.List(ctx, repository.BusinessFilter{OwnerID: owner})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(businesses))
	for _, b := range businesses {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

// List scopes results by role: customers see their bookings, owners the
// bookings at their businesses, admins everything.
func (s *AppointmentService) List(ctx context.Context, actor policy.Actor, q AppointmentQuery) ([]models.Appointment, error) {
	if actor.Anonymous() {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status filter")
	}

	filter := repository.AppointmentFilter{Status: q.Status, Date: q.Date}
	if q.BusinessID != uuid.Nil {
		filter.BusinessIDs = []uuid.UUID{q.BusinessID}
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleBusinessOwner:
		owned, err := s.ownedBusinessIDs(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if q.BusinessID != uuid.Nil {
			filter.BusinessIDs = []uuid.UUID{}
			for _, id := range owned {
				if id == q.BusinessID {
					filter.BusinessIDs = []uuid.UUID{id}
				}
			}
		} else {
			filter.BusinessIDs = owned
		}
	default:
		filter.UserID = actor.UserID
	}
	return s.store.Appointments.List(ctx, filter)
}

// access loads the appointment and reports whether the actor booked it and
// whether the actor manages the business it belongs to.
func (s *AppointmentService) access(ctx context.Context, actor policy.Actor, id uuid.UUID) (appt *models.Appointment, customer, manager bool, err error) {
	appt, err = s.store.Appointments.FindByID(ctx, id)
	if err != nil {
		return nil, false, false, err
	}
	customer = !actor.Anonymous() && appt.UserID == actor.UserID
	if actor.IsAdmin() {
		return appt, customer, true, nil
	}
	if actor.Can(policy.AppointmentManage) {
		business, err := s.store.Businesses.FindByID(ctx, appt.BusinessID)
		if err != nil && !apperrors.Is(err, apperrors.ErrorTypeNotFound) {
			return nil, false, false, err
		}
		manager = err == nil && business.OwnerID == actor.UserID
	}
	return appt, customer, manager, nil
}

func (s *AppointmentService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Appointment, error) {
	appt, customer, manager, err := s.access(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !customer && !manager {
		return nil, apperrors.NewForbiddenError("You do not have access to this appointment")
	}
	return appt, nil
}

// UpdateStatus moves an appointment along its lifecycle. Confirming and
// completing belong to the business side; the booking customer may only
// cancel.
func (s *AppointmentService) UpdateStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, to models.AppointmentStatus) (*models.Appointment, error) {
	if !to.Valid() {
		return nil, apperrors.NewValidationError("Invalid status: " + string(to))
	}
	appt, customer, manager, err := s.access(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch {
	case manager:
	case customer && to == models.AppointmentCancelled:
	case customer:
		return nil, apperrors.NewForbiddenError("Customers may only cancel their appointments")
	default:
		return nil, apperrors.NewForbiddenError("You do not have access to this appointment")
	}

	from := appt.Status
	if !from.CanTransitionTo(to) {
		metrics.RecordTransition("appointment", string(to), metrics.ResultRejected)
		return nil, apperrors.NewInvalidTransitionError("appointment", from, to)
	}

	now := s.now()
	appt.Status = to
	appt.UpdatedAt = now
	switch to {
	case models.AppointmentCancelled:
		appt.CancelledAt = &now
	case models.AppointmentCompleted:
		appt.CompletedAt = &now
	}
	if err := s.store.Appointments.Save(ctx, appt); err != nil {
		return nil, err
	}
	metrics.RecordTransition("appointment", string(to), metrics.ResultApplied)

	log.Info().
		Str("appointment_id", appt.ID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Appointment status changed")

	if actor.UserID != appt.UserID {
		s.notifier.Notify(ctx, appt.UserID,
			fmt.Sprintf("Your appointment on %s at %s is now %s.", appt.Date, appt.StartTime, to))
	}
	return appt, nil
}

// Delete hard-deletes regardless of status.
func (s *AppointmentService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	if err := requireCapability(actor, policy.AppointmentDelete); err != nil {
		return err
	}
	return s.store.Appointments.Delete(ctx, id)
}
