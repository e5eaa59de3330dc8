package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	UserID     uuid.UUID `gorm:"type:char(36);index;not null" json:"userId"`
	BusinessID uuid.UUID `gorm:"type:char(36);index;not null" json:"businessId"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	Status     ReviewStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	IsFlagged  bool         `gorm:"default:false;index" json:"isFlagged"`
	FlagReason string       `gorm:"type:text" json:"flagReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// Display badges. A flag outranks the publish status.
const (
	DisplayFlagged   = "flagged"
	DisplayPublished = "published"
	DisplayPending   = "pending"
	DisplayRejected  = "rejected"
)

func (r *Review) DisplayStatus() string {
	if r.IsFlagged {
		return DisplayFlagged
	}
	switch r.Status {
	case ReviewApproved:
		return DisplayPublished
	case ReviewRejected:
		return DisplayRejected
	default:
		return DisplayPending
	}
}
