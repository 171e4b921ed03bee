package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents the role a viewer holds in the application.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole normalizes a raw role string into a Role.
// Unrecognized values map to RoleStudent, the least-privileged role, so the
// dashboard always has something to render.
func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleTeacher:
		return RoleTeacher
	case RoleStudent:
		return RoleStudent
	default:
		return RoleStudent
	}
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims (ClassLink SourcedId/TenantId, Cognito
// sub) into this shape.
type Identity struct {
	UserID    string // composite user identifier (tenantId_sourcedId) or sub
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated viewer.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsTeacher returns true if the session role is teacher.
func (s Session) IsTeacher() bool { return s.Role == RoleTeacher }

// DisplayName returns the viewer's full name for presentation.
func (s Session) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
