package rosterapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/classdash/classdash/internal/errors"
)

const flatPayload = `{
	"users": [
		{"userId": "1", "firstName": "A", "lastName": "B", "role": "teacher"},
		{"userId": "2", "firstName": "C", "lastName": "D", "role": "student"}
	],
	"enrollments": [
		{"userId": "1", "classId": "10", "role": "teacher"},
		{"userId": "2", "classId": "10", "role": "student"}
	],
	"classes": [
		{"classId": "10", "className": "Math"}
	]
}`

const dashboardPayload = `{
	"userProfile": {"userId": "t1", "firstName": "Tina", "lastName": "Teach", "role": "teacher"},
	"enrollments": [{"userId": "t1", "classId": "c1", "role": "teacher"}],
	"classes": [{"classId": "c1", "className": "Math"}],
	"rosters": {"c1": [{"userId": "s1", "classId": "c1", "role": "student"}]}
}`

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
}

func TestFetchSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(flatPayload))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	payload, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, payload.Users, 2)
	assert.Len(t, payload.Enrollments, 2)
	assert.Len(t, payload.Classes, 1)
}

func TestFetchSnapshotUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestFetchSnapshotMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"users": "not-an-array"`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformedPayload(err))
	// Malformed payloads surface to callers the same way transport failures do.
	assert.True(t, apperrors.IsNetwork(err))
}

func TestFetchSnapshotMissingRequiredFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"classes": []}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformedPayload(err))
}

func TestFetchDashboardSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(dashboardPayload))
	}))
	defer srv.Close()

	client, err := NewClient(Config{SecureURL: srv.URL})
	require.NoError(t, err)

	payload, err := client.FetchDashboard(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "t1", payload.UserProfile.UserID)
	assert.Len(t, payload.Rosters["c1"], 1)
}

func TestFetchDashboardRequiresToken(t *testing.T) {
	client, err := NewClient(Config{SecureURL: "http://localhost:0"})
	require.NoError(t, err)

	_, err = client.FetchDashboard(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFetchDashboardWithoutSecureURL(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://localhost:0"})
	require.NoError(t, err)

	_, err = client.FetchDashboard(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "one-time-code", body["code"])

		_, _ = w.Write([]byte(dashboardPayload))
	}))
	defer srv.Close()

	client, err := NewClient(Config{SecureURL: srv.URL})
	require.NoError(t, err)

	payload, err := client.ExchangeCode(context.Background(), "one-time-code")
	require.NoError(t, err)
	assert.Equal(t, "t1", payload.UserProfile.UserID)
}

func TestExchangeCodeRejectedUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(Config{SecureURL: srv.URL})
	require.NoError(t, err)

	_, err = client.ExchangeCode(context.Background(), "bad-code")
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthExchange(err))
}

func TestExchangeCodeRequiresCode(t *testing.T) {
	client, err := NewClient(Config{SecureURL: "http://localhost:0"})
	require.NoError(t, err)

	_, err = client.ExchangeCode(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
