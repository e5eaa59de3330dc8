package policy

import (
	"github.com/google/uuid"

	"intellibiz-backend/models"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

func (a Actor) Can(c Capability) bool {
	return Allowed(a.Role, c)
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Anonymous reports whether no user is signed in.
func (a Actor) Anonymous() bool {
	return a.UserID == uuid.Nil
}
