package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer      Role = "Customer"
	RoleBusinessOwner Role = "BusinessOwner"
	RoleAdmin         Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleBusinessOwner, RoleAdmin:
		return true
	}
	return false
}

// Auth providers a user can sign in with.
const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

type User struct {
	ID           uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	Phone        string    `json:"phone"`

	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`
	Provider string `gorm:"type:varchar(20);default:'local'" json:"provider"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	IsActive  bool       `gorm:"not null" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Initialize UUID before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
