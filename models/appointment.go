package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Formats used for the appointment date and clock fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Appointment struct {
	ID         uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	UserID     uuid.UUID `gorm:"type:char(36);index;not null" json:"userId"`
	BusinessID uuid.UUID `gorm:"type:char(36);index;not null" json:"businessId"`
	ServiceID  uuid.UUID `gorm:"type:char(36);index;not null" json:"serviceId"`

	Date      string `gorm:"type:varchar(10);index;not null" json:"date"`
	StartTime string `gorm:"type:varchar(5);not null" json:"startTime"`
	EndTime   string `gorm:"type:varchar(5);not null" json:"endTime"`

	Status AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes  string            `gorm:"type:text" json:"notes"`

	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
