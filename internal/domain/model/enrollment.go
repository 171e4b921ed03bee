package model

import domainauth "github.com/classdash/classdash/internal/domain/auth"

// Enrollment is the many-to-many join between User and Class, tagged with the
// role the user holds for that class. A teacher enrollment and a student
// enrollment for the same class share the classId.
type Enrollment struct {
	UserID  string          `json:"userId"  db:"user_id"`
	ClassID string          `json:"classId" db:"class_id"`
	Role    domainauth.Role `json:"role"    db:"role"`
}

// IsTeacherFor reports whether this enrollment marks its user as the teacher of classID.
func (e Enrollment) IsTeacherFor(classID string) bool {
	return e.ClassID == classID && e.Role == domainauth.RoleTeacher
}
