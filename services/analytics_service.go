package services

import (
	"context"

	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
)

// Analytics is the admin dashboard summary.
type Analytics struct {
	UsersByRole          map[models.Role]int64              `json:"usersByRole"`
	BusinessesByStatus   map[models.BusinessStatus]int64    `json:"businessesByStatus"`
	AppointmentsByStatus map[models.AppointmentStatus]int64 `json:"appointmentsByStatus"`
	ReviewsByStatus      map[models.ReviewStatus]int64      `json:"reviewsByStatus"`
	FlaggedReviews       int64                              `json:"flaggedReviews"`
	UnreadMessages       int64                              `json:"unreadMessages"`
	TotalUsers           int64                              `json:"totalUsers"`
	TotalBusinesses      int64                              `json:"totalBusinesses"`
	TotalAppointments    int64                              `json:"totalAppointments"`
	TotalReviews         int64                              `json:"totalReviews"`
}

type AnalyticsService struct {
	store *repository.Store
}

func (s *AnalyticsService) Summary(ctx context.Context, actor policy.Actor) (*Analytics, error) {
	if err := requireCapability(actor, policy.AnalyticsView); err != nil {
		return nil, err
	}
	out := &Analytics{
		UsersByRole:          map[models.Role]int64{},
		BusinessesByStatus:   map[models.BusinessStatus]int64{},
		AppointmentsByStatus: map[models.AppointmentStatus]int64{},
		ReviewsByStatus:      map[models.ReviewStatus]int64{},
	}

	for _, role := range []models.Role{models.RoleCustomer, models.RoleBusinessOwner, models.RoleAdmin} {
		n, err := s.store.Users.Count(ctx, repository.UserFilter{Role: role})
		if err != nil {
			return nil, err
		}
		out.UsersByRole[role] = n
		out.TotalUsers += n
	}
	for _, st := range []models.BusinessStatus{models.BusinessPending, models.BusinessApproved, models.BusinessRejected} {
		n, err := s.store.Businesses.Count(ctx, repository.BusinessFilter{Status: st})
		if err != nil {
			return nil, err
		}
		out.BusinessesByStatus[st] = n
		out.TotalBusinesses += n
	}
	for _, st := range []models.AppointmentStatus{models.AppointmentPending, models.AppointmentConfirmed, models.AppointmentCompleted, models.AppointmentCancelled} {
		n, err := s.store.Appointments.Count(ctx, repository.AppointmentFilter{Status: st})
		if err != nil {
			return nil, err
		}
		out.AppointmentsByStatus[st] = n
		out.TotalAppointments += n
	}
	for _, st := range []models.ReviewStatus{models.ReviewPending, models.ReviewApproved, models.ReviewRejected} {
		n, err := s.store.Reviews.Count(ctx, repository.ReviewFilter{Status: st})
		if err != nil {
			return nil, err
		}
		out.ReviewsByStatus[st] = n
		out.TotalReviews += n
	}

	flagged := true
	var err error
	if out.FlaggedReviews, err = s.store.Reviews.Count(ctx, repository.ReviewFilter{Flagged: &flagged}); err != nil {
		return nil, err
	}
	if out.UnreadMessages, err = s.store.Messages.Count(ctx, repository.MessageFilter{UnreadOnly: true}); err != nil {
		return nil, err
	}
	return out, nil
}

// ReminderLogs lists reminder deliveries, newest first.
func (s *AnalyticsService) ReminderLogs(ctx context.Context, actor policy.Actor, status string) ([]models.ReminderLog, error) {
	if err := requireCapability(actor, policy.AnalyticsView); err != nil {
		return nil, err
	}
	return s.store.ReminderLogs.List(ctx, repository.ReminderLogFilter{Status: status})
}
