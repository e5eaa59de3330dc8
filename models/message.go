package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID         uuid.UUID  `gorm:"type:char(36);primary_key" json:"id"`
	SenderID   uuid.UUID  `gorm:"type:char(36);index;not null" json:"senderId"`
	ReceiverID uuid.UUID  `gorm:"type:char(36);index;not null" json:"receiverId"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	IsRead     bool       `gorm:"default:false;index" json:"isRead"`
	ReadAt     *time.Time `json:"readAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
