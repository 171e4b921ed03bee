package model

import (
	"strings"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
)

// User is a roster member as synced from the SIS. Snapshots received from the
// API are immutable; nothing in the dashboard mutates server-origin data.
type User struct {
	UserID    string          `json:"userId"          db:"user_id"`
	SourcedID string          `json:"sourcedId,omitempty" db:"sourced_id"`
	TenantID  string          `json:"tenantId,omitempty"  db:"tenant_id"`
	FirstName string          `json:"firstName"       db:"first_name"`
	LastName  string          `json:"lastName"        db:"last_name"`
	Email     string          `json:"email,omitempty" db:"email"`
	Role      domainauth.Role `json:"role"            db:"role"`
}

// DisplayName returns the user's full name for table rows and rosters.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsTeacher reports whether the user's server-side role is teacher.
func (u User) IsTeacher() bool { return u.Role == domainauth.RoleTeacher }
