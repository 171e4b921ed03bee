package authroles

import (
	"strings"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups by simple string membership rules.
// TeacherGroup matches the Cognito group (or ClassLink role claim) granted to
// teachers; everything else maps to the student role.
type StaticRoleMapper struct {
	TeacherGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.TeacherGroup != "" && strings.EqualFold(g, m.TeacherGroup) {
			return domainauth.RoleTeacher
		}
	}
	return domainauth.RoleStudent
}
