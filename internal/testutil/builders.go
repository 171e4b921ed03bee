// Package testutil provides testing utilities and helpers for the dashboard.
package testutil

import (
	"fmt"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
)

// RosterBuilder provides a fluent interface for building RosterPayload
// fixtures for testing.
type RosterBuilder struct {
	payload *model.RosterPayload
}

// NewRoster creates a RosterBuilder with empty (non-nil) collections so the
// resulting payload always passes validation.
func NewRoster() *RosterBuilder {
	return &RosterBuilder{
		payload: &model.RosterPayload{
			Users:       []model.User{},
			Enrollments: []model.Enrollment{},
			Classes:     []model.Class{},
		},
	}
}

// WithTeacher adds a teacher user.
func (b *RosterBuilder) WithTeacher(id, first, last string) *RosterBuilder {
	b.payload.Users = append(b.payload.Users, model.User{
		UserID:    id,
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s@example.edu", id),
		Role:      domainauth.RoleTeacher,
	})
	return b
}

// WithStudent adds a student user.
func (b *RosterBuilder) WithStudent(id, first, last string) *RosterBuilder {
	b.payload.Users = append(b.payload.Users, model.User{
		UserID:    id,
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s@example.edu", id),
		Role:      domainauth.RoleStudent,
	})
	return b
}

// WithClass adds a class.
func (b *RosterBuilder) WithClass(id, name string) *RosterBuilder {
	b.payload.Classes = append(b.payload.Classes, model.Class{ClassID: id, ClassName: name})
	return b
}

// WithEnrollment adds an enrollment.
func (b *RosterBuilder) WithEnrollment(userID, classID string, role domainauth.Role) *RosterBuilder {
	b.payload.Enrollments = append(b.payload.Enrollments, model.Enrollment{
		UserID:  userID,
		ClassID: classID,
		Role:    role,
	})
	return b
}

// Teaching adds a teacher enrollment.
func (b *RosterBuilder) Teaching(userID, classID string) *RosterBuilder {
	return b.WithEnrollment(userID, classID, domainauth.RoleTeacher)
}

// Taking adds a student enrollment.
func (b *RosterBuilder) Taking(userID, classID string) *RosterBuilder {
	return b.WithEnrollment(userID, classID, domainauth.RoleStudent)
}

// Build returns the constructed payload.
func (b *RosterBuilder) Build() *model.RosterPayload {
	return b.payload
}

// SmallRoster returns a two-user, one-class roster: teacher t1 teaches c1,
// student s1 takes it.
func SmallRoster() *model.RosterPayload {
	return NewRoster().
		WithTeacher("t1", "Tina", "Teach").
		WithStudent("s1", "Sam", "Student").
		WithClass("c1", "Math").
		Teaching("t1", "c1").
		Taking("s1", "c1").
		Build()
}
