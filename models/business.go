package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Business struct {
	ID      uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	OwnerID uuid.UUID `gorm:"type:char(36);index;not null" json:"ownerId"`

	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"not null;index" json:"category"`
	Address     string `gorm:"not null" json:"address"`
	City        string `gorm:"not null;index" json:"city"`
	State       string `gorm:"not null" json:"state"`
	Zip         string `gorm:"not null" json:"zip"`
	Phone       string `gorm:"not null" json:"phone"`
	Email       string `gorm:"not null" json:"email"`
	Website     string `json:"website"`

	Status          BusinessStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	IsVerified      bool           `gorm:"default:false" json:"isVerified"`
	RejectionReason string         `gorm:"type:text" json:"rejectionReason,omitempty"`

	Services []Service `gorm:"foreignKey:BusinessID" json:"services,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// Bookable reports whether customers may book appointments with the business.
func (b *Business) Bookable() bool {
	return b.Status == BusinessApproved
}
