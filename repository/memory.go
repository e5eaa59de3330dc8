package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
)

// memoryRepository keeps rows in a map and lists them newest first.
type memoryRepository[T any, F any] struct {
	mu    sync.RWMutex
	name  string
	rows  map[uuid.UUID]T
	order []uuid.UUID
	id    func(*T) uuid.UUID
	match func(*T, F) bool
}

func newMemoryRepository[T any, F any](name string, id func(*T) uuid.UUID, match func(*T, F) bool) *memoryRepository[T, F] {
	return &memoryRepository[T, F]{
		name:  name,
		rows:  make(map[uuid.UUID]T),
		id:    id,
		match: match,
	}
}

func (r *memoryRepository[T, F]) Create(_ context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.id(entity)
	if id == uuid.Nil {
		return apperrors.NewValidationError(r.name + " id is required")
	}
	if _, exists := r.rows[id]; exists {
		return apperrors.NewConflictError(r.name + " already exists")
	}
	r.rows[id] = *entity
	r.order = append(r.order, id)
	return nil
}

func (r *memoryRepository[T, F]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entity, ok := r.rows[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(r.name + " not found")
	}
	return &entity, nil
}

func (r *memoryRepository[T, F]) List(_ context.Context, filter F) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []T{}
	for i := len(r.order) - 1; i >= 0; i-- {
		entity := r.rows[r.order[i]]
		if r.match(&entity, filter) {
			out = append(out, entity)
		}
	}
	return out, nil
}

func (r *memoryRepository[T, F]) Count(ctx context.Context, filter F) (int64, error) {
	rows, err := r.List(ctx, filter)
	return int64(len(rows)), err
}

func (r *memoryRepository[T, F]) Save(_ context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.id(entity)
	if _, exists := r.rows[id]; !exists {
		r.order = append(r.order, id)
	}
	r.rows[id] = *entity
	return nil
}

func (r *memoryRepository[T, F]) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return apperrors.NewNotFoundError(r.name + " not found")
	}
	delete(r.rows, id)
	r.order = slices.DeleteFunc(r.order, func(v uuid.UUID) bool { return v == id })
	return nil
}

type memorySettingsRepository struct {
	mu       sync.RWMutex
	settings models.Settings
}

func (r *memorySettingsRepository) Get(context.Context) (*models.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.settings
	return &s, nil
}

func (r *memorySettingsRepository) Save(_ context.Context, settings *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings.ID = models.SettingsID
	r.settings = *settings
	return nil
}

// NewMemoryStore builds a Store that lives in process memory. It backs the
// "memory" database driver and the test suites.
func NewMemoryStore() *Store {
	return &Store{
		Users: newMemoryRepository("user",
			func(u *models.User) uuid.UUID { return u.ID },
			func(u *models.User, f UserFilter) bool {
				return (f.Email == "" || u.Email == f.Email) &&
					(f.Role == "" || u.Role == f.Role)
			}),
		Businesses: newMemoryRepository("business",
			func(b *models.Business) uuid.UUID { return b.ID },
			func(b *models.Business, f BusinessFilter) bool {
				return (f.OwnerID == uuid.Nil || b.OwnerID == f.OwnerID) &&
					(f.Status == "" || b.Status == f.Status) &&
					(f.Category == "" || strings.EqualFold(b.Category, f.Category)) &&
					(f.City == "" || strings.EqualFold(b.City, f.City)) &&
					(f.Query == "" || strings.Contains(strings.ToLower(b.Name), strings.ToLower(f.Query)))
			}),
		Services: newMemoryRepository("service",
			func(s *models.Service) uuid.UUID { return s.ID },
			func(s *models.Service, f ServiceFilter) bool {
				return (f.BusinessID == uuid.Nil || s.BusinessID == f.BusinessID) &&
					(!f.ActiveOnly || s.IsActive)
			}),
		Appointments: newMemoryRepository("appointment",
			func(a *models.Appointment) uuid.UUID { return a.ID },
			func(a *models.Appointment, f AppointmentFilter) bool {
				return (f.UserID == uuid.Nil || a.UserID == f.UserID) &&
					(f.BusinessIDs == nil || slices.Contains(f.BusinessIDs, a.BusinessID)) &&
					(f.Status == "" || a.Status == f.Status) &&
					(f.Date == "" || a.Date == f.Date)
			}),
		Reviews: newMemoryRepository("review",
			func(r *models.Review) uuid.UUID { return r.ID },
			func(r *models.Review, f ReviewFilter) bool {
				return (f.UserID == uuid.Nil || r.UserID == f.UserID) &&
					(f.BusinessID == uuid.Nil || r.BusinessID == f.BusinessID) &&
					(f.Status == "" || r.Status == f.Status) &&
					(f.Flagged == nil || r.IsFlagged == *f.Flagged)
			}),
		Messages: newMemoryRepository("message",
			func(m *models.Message) uuid.UUID { return m.ID },
			func(m *models.Message, f MessageFilter) bool {
				if len(f.Between) == 2 {
					a, b := f.Between[0], f.Between[1]
					if !(m.SenderID == a && m.ReceiverID == b) && !(m.SenderID == b && m.ReceiverID == a) {
						return false
					}
				}
				return (f.SenderID == uuid.Nil || m.SenderID == f.SenderID) &&
					(f.ReceiverID == uuid.Nil || m.ReceiverID == f.ReceiverID) &&
					(!f.UnreadOnly || !m.IsRead)
			}),
		ReminderLogs: newMemoryRepository("reminder log",
			func(r *models.ReminderLog) uuid.UUID { return r.ID },
			func(r *models.ReminderLog, f ReminderLogFilter) bool {
				return (f.AppointmentID == uuid.Nil || r.AppointmentID == f.AppointmentID) &&
					(f.Status == "" || r.Status == f.Status)
			}),
		Settings: &memorySettingsRepository{settings: models.DefaultSettings()},
	}
}
