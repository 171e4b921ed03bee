package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"classdash"`
	Password string `env:"PASSWORD"                envDefault:"classdash"`
	Name     string `env:"NAME"                    envDefault:"classdash"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// CacheConfig contains snapshot cache configuration (Redis-based).
type CacheConfig struct {
	// Enabled turns the roster snapshot cache on or off.
	Enabled bool `env:"CACHE_ENABLED" envDefault:"true"`

	// SnapshotTTL is the TTL for the cached roster snapshot.
	SnapshotTTL time.Duration `env:"CACHE_SNAPSHOT_TTL" envDefault:"5m"`
}
