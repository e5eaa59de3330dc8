package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
)

type gormRepository[T any, F any] struct {
	db    *gorm.DB
	name  string
	order string
	scope func(*gorm.DB, F) *gorm.DB
}

func (r *gormRepository[T, F]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apperrors.NewInternalError("failed to create "+r.name, err)
	}
	return nil
}

func (r *gormRepository[T, F]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(r.name + " not found")
		}
		return nil, apperrors.NewInternalError("failed to load "+r.name, err)
	}
	return &entity, nil
}

func (r *gormRepository[T, F]) List(ctx context.Context, filter F) ([]T, error) {
	var out []T
	q := r.scope(r.db.WithContext(ctx).Model(new(T)), filter)
	if err := q.Order(r.order).Find(&out).Error; err != nil {
		return nil, apperrors.NewInternalError("failed to list "+r.name+"s", err)
	}
	return out, nil
}

func (r *gormRepository[T, F]) Count(ctx context.Context, filter F) (int64, error) {
	var n int64
	q := r.scope(r.db.WithContext(ctx).Model(new(T)), filter)
	if err := q.Count(&n).Error; err != nil {
		return 0, apperrors.NewInternalError("failed to count "+r.name+"s", err)
	}
	return n, nil
}

func (r *gormRepository[T, F]) Save(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return apperrors.NewInternalError("failed to update "+r.name, err)
	}
	return nil
}

func (r *gormRepository[T, F]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return apperrors.NewInternalError("failed to delete "+r.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(r.name + " not found")
	}
	return nil
}

func userScope(q *gorm.DB, f UserFilter) *gorm.DB {
	if f.Email != "" {
		q = q.Where("email = ?", f.Email)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	return q
}

func businessScope(q *gorm.DB, f BusinessFilter) *gorm.DB {
	if f.OwnerID != uuid.Nil {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.City != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(f.City))
	}
	if f.Query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Query)+"%")
	}
	return q
}

func serviceScope(q *gorm.DB, f ServiceFilter) *gorm.DB {
	if f.BusinessID != uuid.Nil {
		q = q.Where("business_id = ?", f.BusinessID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	return q
}

func appointmentScope(q *gorm.DB, f AppointmentFilter) *gorm.DB {
	if f.UserID != uuid.Nil {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.BusinessIDs != nil {
		q = q.Where("business_id IN ?", f.BusinessIDs)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	return q
}

func reviewScope(q *gorm.DB, f ReviewFilter) *gorm.DB {
	if f.UserID != uuid.Nil {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.BusinessID != uuid.Nil {
		q = q.Where("business_id = ?", f.BusinessID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Flagged != nil {
		q = q.Where("is_flagged = ?", *f.Flagged)
	}
	return q
}

func messageScope(q *gorm.DB, f MessageFilter) *gorm.DB {
	if f.SenderID != uuid.Nil {
		q = q.Where("sender_id = ?", f.SenderID)
	}
	if f.ReceiverID != uuid.Nil {
		q = q.Where("receiver_id = ?", f.ReceiverID)
	}
	if len(f.Between) == 2 {
		a, b := f.Between[0], f.Between[1]
		q = q.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
	}
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	return q
}

func reminderLogScope(q *gorm.DB, f ReminderLogFilter) *gorm.DB {
	if f.AppointmentID != uuid.Nil {
		q = q.Where("appointment_id = ?", f.AppointmentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

type gormSettingsRepository struct {
	db *gorm.DB
}

func (r *gormSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load settings", err)
	}
	return &settings, nil
}

func (r *gormSettingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return apperrors.NewInternalError("failed to update settings", err)
	}
	return nil
}

// NewGormStore builds a Store backed by db.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:        &gormRepository[models.User, UserFilter]{db: db, name: "user", order: "created_at DESC", scope: userScope},
		Businesses:   &gormRepository[models.Business, BusinessFilter]{db: db, name: "business", order: "created_at DESC", scope: businessScope},
		Services:     &gormRepository[models.Service, ServiceFilter]{db: db, name: "service", order: "created_at DESC", scope: serviceScope},
		Appointments: &gormRepository[models.Appointment, AppointmentFilter]{db: db, name: "appointment", order: "date DESC, start_time DESC", scope: appointmentScope},
		Reviews:      &gormRepository[models.Review, ReviewFilter]{db: db, name: "review", order: "created_at DESC", scope: reviewScope},
		Messages:     &gormRepository[models.Message, MessageFilter]{db: db, name: "message", order: "created_at DESC", scope: messageScope},
		ReminderLogs: &gormRepository[models.ReminderLog, ReminderLogFilter]{db: db, name: "reminder log", order: "sent_at DESC", scope: reminderLogScope},
		Settings:     &gormSettingsRepository{db: db},
	}
}

// Migrate creates or updates every table. Safe to run on each start.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Service{},
		&models.Appointment{},
		&models.Review{},
		&models.Message{},
		&models.Settings{},
		&models.ReminderLog{},
	)
}
