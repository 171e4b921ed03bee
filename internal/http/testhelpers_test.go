package httpx

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/service"
)

// fakeAuthService is an in-memory AuthServiceInterface used by handler and
// middleware tests.
type fakeAuthService struct {
	sessions map[string]domainauth.Session

	beginResult *service.BeginLoginResult
	beginErr    error
	completeErr error
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{
		sessions: make(map[string]domainauth.Session),
		beginResult: &service.BeginLoginResult{
			AuthURL: "https://idp.example.com/authorize",
			State:   "state-1",
			Nonce:   "nonce-1",
		},
	}
}

func (f *fakeAuthService) addSession(sess domainauth.Session) {
	f.sessions[sess.ID] = sess
}

func (f *fakeAuthService) BeginLogin(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	return f.beginResult, nil
}

func (f *fakeAuthService) CompleteLogin(_ context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	sess := domainauth.Session{
		ID:        "sess-" + input.Code,
		UserID:    "district-9_u-1",
		FirstName: "Tina",
		LastName:  "Teach",
		Role:      domainauth.RoleTeacher,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.sessions[sess.ID] = sess
	return &service.CompleteLoginResult{Session: sess}, nil
}

func (f *fakeAuthService) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("not found")
	}
	return &sess, nil
}

func (f *fakeAuthService) Logout(_ context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}
