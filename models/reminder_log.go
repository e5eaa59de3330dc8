// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder delivery outcomes.
const (
	ReminderSent   = "sent"
	ReminderFailed = "failed"
)

type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:char(36);index;not null" json:"appointmentId"`
	UserID        uuid.UUID `gorm:"type:char(36);index;not null" json:"userId"`
	Channel       string    `gorm:"type:varchar(20)" json:"channel"` // sms
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string    `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt        time.Time `json:"sentAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
