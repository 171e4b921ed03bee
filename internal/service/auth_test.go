package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	mocks "github.com/classdash/classdash/internal/mocks/auth"
	"github.com/classdash/classdash/internal/ports"
)

// mockSessionStore is a test helper for testing session store errors.
type mockSessionStore struct {
	saveFunc   func(context.Context, domainauth.Session) error
	getFunc    func(context.Context, string) (domainauth.Session, error)
	deleteFunc func(context.Context, string) error
}

func (m *mockSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sess)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domainauth.Session{}, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestAuthService(provider ports.AuthProvider, sessions ports.SessionStore) *AuthService {
	return NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    mocks.StaticRoleMapper{TeacherGroup: "teachers"},
	})
}

func TestAuthService_BeginLogin_Success(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/auth/callback")

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestAuthService_BeginLogin_EmptyRedirectURL(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.BeginLogin(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "", "", "", errors.New("provider error")
		},
	}
	service := newTestAuthService(provider, mocks.NewMemorySessionStore())

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/auth/callback")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "begin auth flow")
	assert.Contains(t, err.Error(), "provider error")
}

func TestAuthService_CompleteLogin_TeacherSession(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Session.ID)
	assert.Equal(t, "district-9_u-1", result.Session.UserID)
	assert.Equal(t, "Mock", result.Session.FirstName)
	assert.Equal(t, "Teacher", result.Session.LastName)
	assert.Equal(t, "mock.teacher@example.edu", result.Session.Email)
	assert.Equal(t, domainauth.RoleTeacher, result.Session.Role)
	assert.True(t, result.Session.ExpiresAt.After(time.Now()))

	// The session must be retrievable from the store.
	saved, err := sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Session.UserID, saved.UserID)
}

func TestAuthService_CompleteLogin_StudentByDefault(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		DefaultUser: domainauth.Identity{
			UserID:    "district-9_u-7",
			FirstName: "Sam",
			LastName:  "Student",
			Email:     "sam@example.edu",
			Groups:    []string{"students"},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	service := newTestAuthService(provider, mocks.NewMemorySessionStore())

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, result.Session.Role)
}

func TestAuthService_CompleteLogin_MissingParameters(t *testing.T) {
	tests := []struct {
		name    string
		input   CompleteLoginInput
		wantErr string
	}{
		{
			name:    "missing code",
			input:   CompleteLoginInput{State: "state-1", Nonce: "nonce-1"},
			wantErr: "authorization code is required",
		},
		{
			name:    "missing state",
			input:   CompleteLoginInput{Code: "auth-code", Nonce: "nonce-1"},
			wantErr: "state parameter is required",
		},
		{
			name:    "missing nonce",
			input:   CompleteLoginInput{Code: "auth-code", State: "state-1"},
			wantErr: "nonce parameter is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

			result, err := service.CompleteLogin(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuthService_CompleteLogin_ExchangeError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("exchange error")
		},
	}
	service := newTestAuthService(provider, mocks.NewMemorySessionStore())

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "exchange authorization code")
	assert.Contains(t, err.Error(), "exchange error")
}

func TestAuthService_CompleteLogin_SessionSaveError(t *testing.T) {
	sessions := &mockSessionStore{
		saveFunc: func(_ context.Context, _ domainauth.Session) error {
			return errors.New("save error")
		},
	}
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "save session")
}

func TestAuthService_GetSession_Success(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "district-9_u-42",
		Email:     "viewer@example.edu",
		Role:      domainauth.RoleStudent,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	result, err := service.GetSession(ctx, "test-session-1")

	require.NoError(t, err)
	assert.Equal(t, session.ID, result.ID)
	assert.Equal(t, session.UserID, result.UserID)
	assert.Equal(t, session.Role, result.Role)
}

func TestAuthService_GetSession_EmptyID(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.GetSession(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "session ID is required")
}

func TestAuthService_GetSession_NotFound(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.GetSession(context.Background(), "non-existent")

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestAuthService_GetSession_Expired(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "stale-session",
		UserID:    "district-9_u-42",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	result, err := service.GetSession(ctx, "stale-session")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "session expired")

	// The expired session must have been removed from the store.
	_, err = sessions.Get(ctx, "stale-session")
	assert.Equal(t, mocks.ErrNotFound, err)
}

func TestAuthService_Logout(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "district-9_u-42",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	require.NoError(t, service.Logout(ctx, "test-session-1"))

	_, err := sessions.Get(ctx, "test-session-1")
	assert.Equal(t, mocks.ErrNotFound, err)

	// Logging out with no session is a no-op.
	assert.NoError(t, service.Logout(ctx, ""))
}

func TestAuthService_Logout_DeleteError(t *testing.T) {
	sessions := &mockSessionStore{
		deleteFunc: func(_ context.Context, _ string) error {
			return errors.New("delete error")
		},
	}
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)

	err := service.Logout(context.Background(), "test-session-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete session")
}
