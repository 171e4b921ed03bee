package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
	"github.com/classdash/classdash/internal/mocks"
)

func teacherDashboardPayload() *model.DashboardPayload {
	return &model.DashboardPayload{
		UserProfile: model.User{UserID: "t1", FirstName: "Tina", LastName: "Teach", Role: domainauth.RoleTeacher},
		Enrollments: []model.Enrollment{
			{UserID: "t1", ClassID: "c1", Role: domainauth.RoleTeacher},
		},
		Classes: []model.Class{{ClassID: "c1", ClassName: "Math"}},
	}
}

func TestControllerLoadAuthenticatedUsesBearerToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockPayloadSource(ctrl)
	src.EXPECT().
		FetchDashboard(gomock.Any(), "tok-1").
		Return(teacherDashboardPayload(), nil)

	c := NewController(ControllerOptions{Source: src})
	c.SetViewer(ViewerIdentity{UserID: "t1", Role: domainauth.RoleTeacher, Token: "tok-1"})

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, StateReady, c.State())

	vm, ok := c.ViewModel()
	require.True(t, ok)
	assert.Equal(t, "t1", vm.Viewer.UserID)
}

func TestControllerHandleAuthCodeExchangesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockPayloadSource(ctrl)
	src.EXPECT().
		ExchangeCode(gomock.Any(), "code-1").
		Return(teacherDashboardPayload(), nil).
		Times(1)

	c := NewController(ControllerOptions{Source: src})

	require.NoError(t, c.HandleAuthCode(context.Background(), "code-1"))
	assert.Equal(t, StateReady, c.State())

	// A refresh replays the same code; the exchange must not run again.
	require.NoError(t, c.HandleAuthCode(context.Background(), "code-1"))
	assert.Equal(t, StateReady, c.State())
}
