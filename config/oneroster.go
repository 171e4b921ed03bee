package config

import "time"

// OneRosterConfig contains configuration for the OneRoster SIS feed.
type OneRosterConfig struct {
	// BaseURL is the provider root, e.g.
	// https://district.oneroster.example/ims/oneroster/v1p1.
	BaseURL string `env:"BASE_URL"`

	// Token is the bearer credential for the feed.
	Token string `env:"TOKEN"`

	// TenantID prefixes every sourcedId so multiple districts can share one
	// database.
	TenantID string `env:"TENANT_ID"`

	// PageSize bounds each page fetch.
	PageSize int `env:"PAGE_SIZE" envDefault:"200"`

	// Interval between scheduled ingest runs.
	Interval time.Duration `env:"INTERVAL" envDefault:"1h"`

	// Extraction overrides for providers with non-standard response shapes.
	// Each value is a JMESPath expression; empty values use OneRoster 1.1
	// defaults.
	UsersCollection       string `env:"USERS_COLLECTION"`
	ClassesCollection     string `env:"CLASSES_COLLECTION"`
	EnrollmentsCollection string `env:"ENROLLMENTS_COLLECTION"`
	UserRoleExpr          string `env:"USER_ROLE_EXPR"`
	UserEmailExpr         string `env:"USER_EMAIL_EXPR"`
}

// Sanitize applies guardrails to feed configuration values.
func (o *OneRosterConfig) Sanitize() {
	if o.PageSize < 1 {
		o.PageSize = 200
	}
	if o.Interval <= 0 {
		o.Interval = time.Hour
	}
}
