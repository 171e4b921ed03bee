package dashboard

// Package dashboard contains the view-model layer for the class dashboard:
// pure transforms from roster payloads to per-viewer rows, plus the load
// controller that owns the fetch lifecycle.

import (
	"fmt"
	"strings"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
)

// ViewerIdentity is the resolved "current user" the dashboard renders for.
// When it comes from the auth layer its UserID and Role are trusted as-is;
// in anonymous/demo mode it is derived from the payload instead.
type ViewerIdentity struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Role        domainauth.Role `json:"role"`
	// Token is the bearer credential for the authenticated payload endpoint.
	// Empty in anonymous mode.
	Token string `json:"-"`
}

// ClassRow is one presentation-ready table row: a class the viewer is enrolled
// in, decorated with the teaching user's display name.
type ClassRow struct {
	Key         string `json:"key"`
	ClassID     string `json:"class_id"`
	ClassName   string `json:"class_name"`
	TeacherName string `json:"teacher_name"`
}

// ViewModel is the derived, presentation-ready structure built from raw
// payload data for one viewer. Users and enrollments are retained only so the
// teacher view can look up a class roster on demand.
type ViewModel struct {
	Viewer ViewerIdentity `json:"viewer"`
	Rows   []ClassRow     `json:"rows"`

	users       []model.User
	enrollments []model.Enrollment
}

// Search returns the rows whose class or teacher name contains term,
// case-insensitively. An empty term returns all rows. A non-empty term with no
// matches returns an empty (non-nil) slice so callers can distinguish "no
// matches" from "viewer has no classes".
func (vm *ViewModel) Search(term string) []ClassRow {
	if vm == nil {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return vm.Rows
	}

	matches := make([]ClassRow, 0, len(vm.Rows))
	for _, row := range vm.Rows {
		if strings.Contains(strings.ToLower(row.ClassName), needle) ||
			strings.Contains(strings.ToLower(row.TeacherName), needle) {
			matches = append(matches, row)
		}
	}
	return matches
}

// RosterFor returns the students enrolled in classID, one entry per
// student-role enrollment, in source order. Enrollments without a matching
// user record resolve to an "Unknown Student" placeholder carrying the
// enrollment's userId.
//
// Precondition: the viewer holds the teacher role. Calling this for a student
// viewer is a programming error, not a runtime condition the UI localizes.
func (vm *ViewModel) RosterFor(classID string) []model.User {
	if vm == nil {
		return nil
	}
	roster := make([]model.User, 0)
	for _, e := range vm.enrollments {
		if e.ClassID != classID || e.Role != domainauth.RoleStudent {
			continue
		}
		if u, ok := vm.userByID(e.UserID); ok {
			roster = append(roster, u)
			continue
		}
		roster = append(roster, model.User{
			UserID:    e.UserID,
			FirstName: "Unknown",
			LastName:  "Student",
			Role:      domainauth.RoleStudent,
		})
	}
	return roster
}

func (vm *ViewModel) userByID(id string) (model.User, bool) {
	for _, u := range vm.users {
		if u.UserID == id {
			return u, true
		}
	}
	return model.User{}, false
}

// rowKey composes a key unique even when the same (userId, classId) pair
// appears twice in the source enrollments.
func rowKey(userID, classID string, index int) string {
	return fmt.Sprintf("%s-%s-%d", userID, classID, index)
}

// fallbackClassName labels a class referenced by an enrollment but absent from
// the classes collection.
func fallbackClassName(classID string) string {
	return "Class " + classID
}

// missingTeacherName is shown when a class has no teacher-role enrollment.
const missingTeacherName = "N/A"
