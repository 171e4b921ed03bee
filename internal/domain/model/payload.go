package model

import (
	apperrors "github.com/classdash/classdash/internal/errors"
)

// RosterPayload is the flat payload shape served by the anonymous endpoint:
// every user, enrollment, and class in one snapshot. The caller derives the
// viewer and their rows from it.
type RosterPayload struct {
	Users       []User       `json:"users"`
	Enrollments []Enrollment `json:"enrollments"`
	Classes     []Class      `json:"classes"`
}

// Validate checks that the payload carries the required collections. Users and
// enrollments must be present (possibly empty arrays); a payload missing them
// entirely is malformed rather than merely empty.
func (p *RosterPayload) Validate() error {
	if p == nil {
		return apperrors.MalformedPayload("payload is missing")
	}
	if p.Users == nil {
		return apperrors.MalformedPayload("payload is missing the users collection")
	}
	if p.Enrollments == nil {
		return apperrors.MalformedPayload("payload is missing the enrollments collection")
	}
	return nil
}

// ClassByID returns the class record for id, or false when the snapshot has no
// record for it.
func (p *RosterPayload) ClassByID(id string) (Class, bool) {
	for _, c := range p.Classes {
		if c.ClassID == id {
			return c, true
		}
	}
	return Class{}, false
}

// UserByID returns the user record for id, or false when absent.
func (p *RosterPayload) UserByID(id string) (User, bool) {
	for _, u := range p.Users {
		if u.UserID == id {
			return u, true
		}
	}
	return User{}, false
}

// DashboardPayload is the pre-resolved payload shape served by the
// authenticated endpoint: the server has already picked the viewer and the
// classes that belong to them, so no client-side viewer resolution is needed.
type DashboardPayload struct {
	UserProfile User         `json:"userProfile"`
	Enrollments []Enrollment `json:"enrollments"`
	Classes     []Class      `json:"classes"`
	// Rosters maps classId to its student enrollments. Populated only for
	// teacher viewers.
	Rosters map[string][]Enrollment `json:"rosters,omitempty"`
}

// Validate checks the pre-resolved payload for required fields.
func (p *DashboardPayload) Validate() error {
	if p == nil {
		return apperrors.MalformedPayload("payload is missing")
	}
	if p.UserProfile.UserID == "" {
		return apperrors.MalformedPayload("payload is missing the user profile")
	}
	if p.Enrollments == nil {
		return apperrors.MalformedPayload("payload is missing the enrollments collection")
	}
	return nil
}
