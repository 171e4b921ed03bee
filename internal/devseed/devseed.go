// Package devseed loads a small demo roster into the database so the
// dashboard can be exercised without a live OneRoster feed.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/classdash/classdash/internal/data"
	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
)

const demoTenant = "district-9"

// Run replaces the stored roster with the demo dataset. It reuses the same
// transactional swap the ingest worker uses, so a later real sync simply
// overwrites the seed data.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	repo := data.NewRosterRepo(db)

	in := demoRoster()
	if err := repo.ReplaceAll(ctx, in); err != nil {
		return fmt.Errorf("seed roster: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "seeded demo roster",
			"tenant", demoTenant,
			"users", len(in.Users),
			"classes", len(in.Classes),
			"enrollments", len(in.Enrollments),
		)
	}
	return nil
}

func demoRoster() data.ReplaceInput {
	users := []model.User{
		demoUser("t-100", "Maria", "Okafor", domainauth.RoleTeacher),
		demoUser("t-101", "James", "Whitfield", domainauth.RoleTeacher),
		demoUser("s-200", "Ava", "Chen", domainauth.RoleStudent),
		demoUser("s-201", "Liam", "Patel", domainauth.RoleStudent),
		demoUser("s-202", "Noah", "Garcia", domainauth.RoleStudent),
		demoUser("s-203", "Emma", "Dubois", domainauth.RoleStudent),
		demoUser("s-204", "Olivia", "Nakamura", domainauth.RoleStudent),
	}

	classes := []model.Class{
		{ClassID: demoTenant + "_c-300", ClassName: "Algebra I", CourseCode: "MATH-101"},
		{ClassID: demoTenant + "_c-301", ClassName: "Biology", CourseCode: "SCI-110"},
		{ClassID: demoTenant + "_c-302", ClassName: "World History", CourseCode: "HIST-120"},
	}

	enrollments := []model.Enrollment{
		demoEnrollment("t-100", "c-300", domainauth.RoleTeacher),
		demoEnrollment("s-200", "c-300", domainauth.RoleStudent),
		demoEnrollment("s-201", "c-300", domainauth.RoleStudent),
		demoEnrollment("s-202", "c-300", domainauth.RoleStudent),
		demoEnrollment("t-100", "c-301", domainauth.RoleTeacher),
		demoEnrollment("s-202", "c-301", domainauth.RoleStudent),
		demoEnrollment("s-203", "c-301", domainauth.RoleStudent),
		demoEnrollment("t-101", "c-302", domainauth.RoleTeacher),
		demoEnrollment("s-200", "c-302", domainauth.RoleStudent),
		demoEnrollment("s-204", "c-302", domainauth.RoleStudent),
	}

	ids := make([]string, len(enrollments))
	for i := range enrollments {
		ids[i] = fmt.Sprintf("%s_seed-%03d", demoTenant, i)
	}

	return data.ReplaceInput{
		Users:         users,
		Classes:       classes,
		Enrollments:   enrollments,
		EnrollmentIDs: ids,
	}
}

func demoUser(sourcedID, first, last string, role domainauth.Role) model.User {
	return model.User{
		UserID:    demoTenant + "_" + sourcedID,
		SourcedID: sourcedID,
		TenantID:  demoTenant,
		FirstName: first,
		LastName:  last,
		Email:     sourcedID + "@district9.example.edu",
		Role:      role,
	}
}

func demoEnrollment(userSourcedID, classSourcedID string, role domainauth.Role) model.Enrollment {
	return model.Enrollment{
		UserID:  demoTenant + "_" + userSourcedID,
		ClassID: demoTenant + "_" + classSourcedID,
		Role:    role,
	}
}
