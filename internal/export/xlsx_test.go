package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
)

func TestRosterWorkbook(t *testing.T) {
	roster := []model.User{
		{UserID: "d1_s1", FirstName: "Ava", LastName: "Chen", Email: "ava@example.edu", Role: domainauth.RoleStudent},
		{UserID: "d1_s2", FirstName: "Liam", LastName: "Patel", Role: domainauth.RoleStudent},
	}

	f, err := RosterWorkbook(roster)
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.GetRows(RosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"User ID", "First Name", "Last Name", "Email"}, rows[0])
	assert.Equal(t, "d1_s1", rows[1][0])
	assert.Equal(t, "Liam", rows[2][1])
}

func TestRosterWorkbookEmptyRoster(t *testing.T) {
	f, err := RosterWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.GetRows(RosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
