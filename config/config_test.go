package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:  "single service - http",
			input: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
		},
		{
			name:  "single service - ingest",
			input: "ingest",
			expected: map[ServiceMode]bool{
				ServiceModeIngest: true,
			},
		},
		{
			name:  "both services",
			input: "http,ingest",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeIngest: true,
			},
		},
		{
			name:  "services with spaces",
			input: " http , ingest ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeIngest: true,
			},
		},
		{
			name:  "duplicate services",
			input: "http,http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only commas",
			input:       ",,,",
			expectError: true,
		},
		{
			name:        "invalid service",
			input:       "http,worker",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services, err := ParseServices(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for input %q, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(services, tt.expected) {
				t.Errorf("ParseServices(%q) = %v, want %v", tt.input, services, tt.expected)
			}
		})
	}
}

func TestAuthModeUnmarshalText(t *testing.T) {
	var mode AuthMode

	if err := mode.UnmarshalText([]byte("OAuth")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != AuthModeOAuth {
		t.Errorf("got %q, want %q", mode, AuthModeOAuth)
	}

	if err := mode.UnmarshalText([]byte("mock")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != AuthModeMock {
		t.Errorf("got %q, want %q", mode, AuthModeMock)
	}

	if err := mode.UnmarshalText([]byte("saml")); err == nil {
		t.Error("expected error for invalid auth mode")
	}
}

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Services != "http" {
		t.Errorf("Services default = %q, want %q", cfg.Services, "http")
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr default = %q, want %q", cfg.HTTP.Addr, ":8080")
	}
	if cfg.Postgres.Name != "classdash" {
		t.Errorf("Postgres.Name default = %q, want %q", cfg.Postgres.Name, "classdash")
	}
	if cfg.Auth.Mode != AuthModeOAuth {
		t.Errorf("Auth.Mode default = %q, want %q", cfg.Auth.Mode, AuthModeOAuth)
	}
	if cfg.Auth.TeacherGroup != "teachers" {
		t.Errorf("Auth.TeacherGroup default = %q, want %q", cfg.Auth.TeacherGroup, "teachers")
	}
	if cfg.Cache.SnapshotTTL != 5*time.Minute {
		t.Errorf("Cache.SnapshotTTL default = %v, want %v", cfg.Cache.SnapshotTTL, 5*time.Minute)
	}
	if cfg.OneRoster.PageSize != 200 {
		t.Errorf("OneRoster.PageSize default = %d, want 200", cfg.OneRoster.PageSize)
	}
}

func TestOneRosterSanitize(t *testing.T) {
	cfg := OneRosterConfig{PageSize: -5, Interval: 0}
	cfg.Sanitize()

	if cfg.PageSize != 200 {
		t.Errorf("PageSize = %d, want 200", cfg.PageSize)
	}
	if cfg.Interval != time.Hour {
		t.Errorf("Interval = %v, want %v", cfg.Interval, time.Hour)
	}
}
