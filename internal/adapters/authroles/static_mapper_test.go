package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
)

func TestStaticRoleMapper(t *testing.T) {
	m := StaticRoleMapper{TeacherGroup: "teachers"}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{"teacher group present", []string{"students", "teachers"}, domainauth.RoleTeacher},
		{"case insensitive", []string{"Teachers"}, domainauth.RoleTeacher},
		{"no teacher group", []string{"students"}, domainauth.RoleStudent},
		{"empty groups", nil, domainauth.RoleStudent},
		{"unrecognized groups", []string{"proctors", "aides"}, domainauth.RoleStudent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}
}

func TestStaticRoleMapperEmptyConfig(t *testing.T) {
	m := StaticRoleMapper{}
	assert.Equal(t, domainauth.RoleStudent, m.Map([]string{"teachers"}))
}
