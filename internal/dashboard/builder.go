package dashboard

import (
	"errors"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
	apperrors "github.com/classdash/classdash/internal/errors"
)

// ErrNoViewerFound is the cause carried by resolution errors when no user in
// the payload qualifies as a viewer. Check with errors.Is or apperrors.IsResolution.
var ErrNoViewerFound = errors.New("no viewer found")

// Build transforms a flat roster payload into a ViewModel scoped to one
// viewer. When hint is non-nil it is an externally authenticated identity and
// is used directly; its UserID and Role come from the trusted auth layer, not
// from the payload. When hint is nil (anonymous/demo mode) the viewer is
// derived from the payload by the resolution tiers in resolveViewer.
//
// Build is a pure transform: it never partially populates a view model, and
// the same payload and hint always produce rows equal by value.
func Build(payload *model.RosterPayload, hint *ViewerIdentity) (*ViewModel, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	viewer := ViewerIdentity{}
	if hint != nil {
		viewer = *hint
	} else {
		resolved, err := resolveViewer(payload)
		if err != nil {
			return nil, err
		}
		viewer = ViewerIdentity{
			UserID:      resolved.UserID,
			DisplayName: resolved.DisplayName(),
			Role:        resolved.Role,
		}
	}

	return &ViewModel{
		Viewer:      viewer,
		Rows:        buildRows(payload, viewer.UserID),
		users:       payload.Users,
		enrollments: payload.Enrollments,
	}, nil
}

// BuildFromDashboard adapts the pre-resolved payload shape, where the server
// has already performed viewer resolution and selected the viewer's classes.
// Viewer resolution and enrollment filtering are skipped entirely.
func BuildFromDashboard(payload *model.DashboardPayload) (*ViewModel, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	profile := payload.UserProfile
	viewer := ViewerIdentity{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName(),
		Role:        domainauth.ParseRole(string(profile.Role)),
	}

	// Roster enrollments (teacher viewers only) are the retained enrollment
	// set; they are what RosterFor filters over.
	retained := make([]model.Enrollment, 0, len(payload.Enrollments))
	for _, classRoster := range payload.Rosters {
		retained = append(retained, classRoster...)
	}

	rows := make([]ClassRow, 0, len(payload.Enrollments))
	for i, e := range payload.Enrollments {
		name := fallbackClassName(e.ClassID)
		if c, ok := classByID(payload.Classes, e.ClassID); ok {
			name = c.ClassName
		}
		rows = append(rows, ClassRow{
			Key:         rowKey(e.UserID, e.ClassID, i),
			ClassID:     e.ClassID,
			ClassName:   name,
			TeacherName: teacherNameFor(e.ClassID, retained, []model.User{profile}),
		})
	}

	return &ViewModel{
		Viewer:      viewer,
		Rows:        rows,
		users:       []model.User{profile},
		enrollments: retained,
	}, nil
}

// resolveViewer derives the viewer from the payload in anonymous/demo mode.
// Priority order: a teacher with more than one enrollment, then any teacher
// with at least one enrollment, then any student with at least one enrollment.
// Within a tier, source order wins.
func resolveViewer(payload *model.RosterPayload) (model.User, error) {
	counts := make(map[string]int, len(payload.Enrollments))
	for _, e := range payload.Enrollments {
		counts[e.UserID]++
	}

	for _, u := range payload.Users {
		if u.IsTeacher() && counts[u.UserID] > 1 {
			return u, nil
		}
	}
	for _, u := range payload.Users {
		if u.IsTeacher() && counts[u.UserID] >= 1 {
			return u, nil
		}
	}
	for _, u := range payload.Users {
		if u.Role == domainauth.RoleStudent && counts[u.UserID] >= 1 {
			return u, nil
		}
	}

	return model.User{}, apperrors.Wrap(ErrNoViewerFound, apperrors.ErrCodeResolution,
		"no user in the payload has an enrollment")
}

// buildRows produces one ClassRow per enrollment of the viewer, in source
// order.
func buildRows(payload *model.RosterPayload, viewerID string) []ClassRow {
	rows := make([]ClassRow, 0)
	for i, e := range payload.Enrollments {
		if e.UserID != viewerID {
			continue
		}
		name := fallbackClassName(e.ClassID)
		if c, ok := payload.ClassByID(e.ClassID); ok {
			name = c.ClassName
		}
		rows = append(rows, ClassRow{
			Key:         rowKey(e.UserID, e.ClassID, i),
			ClassID:     e.ClassID,
			ClassName:   name,
			TeacherName: teacherNameFor(e.ClassID, payload.Enrollments, payload.Users),
		})
	}
	return rows
}

// teacherNameFor resolves the teaching user's display name for a class via the
// first teacher-role enrollment with a matching classId. Multiple teacher
// enrollments per class are undefined behavior upstream; first match wins.
func teacherNameFor(classID string, enrollments []model.Enrollment, users []model.User) string {
	for _, e := range enrollments {
		if !e.IsTeacherFor(classID) {
			continue
		}
		for _, u := range users {
			if u.UserID == e.UserID {
				return u.DisplayName()
			}
		}
		break
	}
	return missingTeacherName
}

func classByID(classes []model.Class, id string) (model.Class, bool) {
	for _, c := range classes {
		if c.ClassID == id {
			return c, true
		}
	}
	return model.Class{}, false
}
