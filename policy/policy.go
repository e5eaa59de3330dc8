// Package policy maps capabilities to the roles that hold them. The server
// enforces it on every request and the API client consults the same table
// to decide which actions to offer.
package policy

import "intellibiz-backend/models"

type Capability string

const (
	BusinessSubmit    Capability = "business:submit"
	BusinessModerate  Capability = "business:moderate"
	ServiceManage     Capability = "service:manage"
	AppointmentBook   Capability = "appointment:book"
	AppointmentManage Capability = "appointment:manage"
	AppointmentDelete Capability = "appointment:delete"
	ReviewWrite       Capability = "review:write"
	ReviewModerate    Capability = "review:moderate"
	MessageSend       Capability = "message:send"
	UserManage        Capability = "user:manage"
	SettingsManage    Capability = "settings:manage"
	AnalyticsView     Capability = "analytics:view"
)

var grants = map[Capability][]models.Role{
	BusinessSubmit:    {models.RoleBusinessOwner, models.RoleAdmin},
	BusinessModerate:  {models.RoleAdmin},
	ServiceManage:     {models.RoleBusinessOwner, models.RoleAdmin},
	AppointmentBook:   {models.RoleCustomer},
	AppointmentManage: {models.RoleBusinessOwner, models.RoleAdmin},
	AppointmentDelete: {models.RoleAdmin},
	ReviewWrite:       {models.RoleCustomer},
	ReviewModerate:    {models.RoleAdmin},
	MessageSend:       {models.RoleCustomer, models.RoleBusinessOwner, models.RoleAdmin},
	UserManage:        {models.RoleAdmin},
	SettingsManage:    {models.RoleAdmin},
	AnalyticsView:     {models.RoleAdmin},
}

// Allowed reports whether role holds capability c. Unknown capabilities are
// denied.
func Allowed(role models.Role, c Capability) bool {
	for _, r := range grants[c] {
		if r == role {
			return true
		}
	}
	return false
}

// Capabilities lists everything role may do.
func Capabilities(role models.Role) []Capability {
	var out []Capability
	for _, c := range all {
		if Allowed(role, c) {
			out = append(out, c)
		}
	}
	return out
}

var all = []Capability{
	BusinessSubmit, BusinessModerate, ServiceManage,
	AppointmentBook, AppointmentManage, AppointmentDelete,
	ReviewWrite, ReviewModerate, MessageSend,
	UserManage, SettingsManage, AnalyticsView,
}
