// Package repository holds the persistence ports used by the services and
// their gorm and in-memory adapters.
package repository

import (
	"context"

	"github.com/google/uuid"

	"intellibiz-backend/models"
)

// Repository is the row-level store for one entity type. F is the entity's
// list filter. FindByID and Delete return an apperrors NOT_FOUND error for
// unknown ids. Writes are last-write-wins.
type Repository[T any, F any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, filter F) ([]T, error)
	Count(ctx context.Context, filter F) (int64, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserFilter struct {
	Email string
	Role  models.Role
}

type BusinessFilter struct {
	OwnerID  uuid.UUID
	Status   models.BusinessStatus
	Category string
	City     string
	Query    string // case-insensitive substring of the name
}

type ServiceFilter struct {
	BusinessID uuid.UUID
	ActiveOnly bool
}

type AppointmentFilter struct {
	UserID uuid.UUID
	// BusinessIDs restricts results to these businesses when non-nil; an
	// empty non-nil slice matches nothing.
	BusinessIDs []uuid.UUID
	Status      models.AppointmentStatus
	Date        string
}

type ReviewFilter struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	Status     models.ReviewStatus
	Flagged    *bool
}

type MessageFilter struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	// Between selects the conversation between two users in either direction.
	Between    []uuid.UUID
	UnreadOnly bool
}

type ReminderLogFilter struct {
	AppointmentID uuid.UUID
	Status        string
}

type (
	UserRepository        = Repository[models.User, UserFilter]
	BusinessRepository    = Repository[models.Business, BusinessFilter]
	ServiceRepository     = Repository[models.Service, ServiceFilter]
	AppointmentRepository = Repository[models.Appointment, AppointmentFilter]
	ReviewRepository      = Repository[models.Review, ReviewFilter]
	MessageRepository     = Repository[models.Message, MessageFilter]
	ReminderLogRepository = Repository[models.ReminderLog, ReminderLogFilter]
)

// SettingsRepository stores the singleton settings row. Get returns the
// defaults when nothing has been saved yet.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

// Store groups every repository the application needs.
type Store struct {
	Users        UserRepository
	Businesses   BusinessRepository
	Services     ServiceRepository
	Appointments AppointmentRepository
	Reviews      ReviewRepository
	Messages     MessageRepository
	ReminderLogs ReminderLogRepository
	Settings     SettingsRepository
}
