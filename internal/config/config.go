// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application settings from CHURCHCMS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains example secrets that must never reach production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Storage backends
const (
	StorageLocal    = "local"
	StorageSupabase = "supabase"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver      string `env:"CHURCHCMS_DB_DRIVER" envDefault:"sqlite"`
	DBPath        string `env:"CHURCHCMS_DB_PATH" envDefault:"./data/churchcms.db"`
	DatabaseURL   string `env:"CHURCHCMS_DATABASE_URL"` // Postgres URL when DBDriver is postgres
	SessionSecret string `env:"CHURCHCMS_SESSION_SECRET,required"`
	ServerHost    string `env:"CHURCHCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CHURCHCMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CHURCHCMS_ENV" envDefault:"development"`
	LogLevel      string `env:"CHURCHCMS_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"CHURCHCMS_SITE_URL"` // public origin for sitemap links; request host when empty

	// Object storage
	Storage            string `env:"CHURCHCMS_STORAGE" envDefault:"local"`
	UploadsDir         string `env:"CHURCHCMS_UPLOADS_DIR" envDefault:"./uploads"`
	SupabaseURL        string `env:"CHURCHCMS_SUPABASE_URL"`
	SupabaseServiceKey string `env:"CHURCHCMS_SUPABASE_SERVICE_KEY"`
	SupabaseBucket     string `env:"CHURCHCMS_SUPABASE_BUCKET" envDefault:"church-media"`
	UploadMaxMB        int    `env:"CHURCHCMS_UPLOAD_MAX_MB" envDefault:"5"`
	ImageMaxWidth      int    `env:"CHURCHCMS_IMAGE_MAX_WIDTH" envDefault:"1920"`

	// Cache
	RedisURL    string `env:"CHURCHCMS_REDIS_URL"`
	CachePrefix string `env:"CHURCHCMS_CACHE_PREFIX" envDefault:"churchcms:"`

	// Notifications
	NotificationTTL      time.Duration `env:"CHURCHCMS_NOTIFICATION_TTL" envDefault:"336h"`
	NotificationCacheTTL time.Duration `env:"CHURCHCMS_NOTIFICATION_CACHE_TTL" envDefault:"1m"`
	WebhookURLs          []string      `env:"CHURCHCMS_WEBHOOK_URLS" envSeparator:","`
	WebhookSecret        string        `env:"CHURCHCMS_WEBHOOK_SECRET"`

	// Public JSON API
	APIRateLimit float64  `env:"CHURCHCMS_API_RATE_LIMIT" envDefault:"5"`
	APIRateBurst int      `env:"CHURCHCMS_API_RATE_BURST" envDefault:"20"`
	CORSOrigins  []string `env:"CHURCHCMS_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	OEmbedEndpoint        string `env:"CHURCHCMS_OEMBED_ENDPOINT" envDefault:"https://www.youtube.com/oembed"`
	ActivityRetentionDays int    `env:"CHURCHCMS_ACTIVITY_RETENTION_DAYS" envDefault:"90"`
	GeoIPDBPath           string `env:"CHURCHCMS_GEOIP_DB_PATH"` // GeoLite2-Country.mmdb, optional

	// Seeded administrator
	AdminEmail    string `env:"CHURCHCMS_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"CHURCHCMS_ADMIN_PASSWORD" envDefault:"changeme"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction reports whether the application runs in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UsePostgres returns true when the relational store is Postgres.
func (c Config) UsePostgres() bool {
	return c.DBDriver == "postgres"
}

// UploadMaxBytes is the upload size limit in bytes.
func (c Config) UploadMaxBytes() int64 {
	return int64(c.UploadMaxMB) << 20
}

// MinSessionSecretLength is the minimum length of the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CHURCHCMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("CHURCHCMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("CHURCHCMS_SESSION_SECRET is a known default value and must not be used")
		}
	}

	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("CHURCHCMS_DATABASE_URL is required when CHURCHCMS_DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("CHURCHCMS_DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}

	switch c.Storage {
	case StorageLocal:
	case StorageSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return errors.New("CHURCHCMS_SUPABASE_URL and CHURCHCMS_SUPABASE_SERVICE_KEY are required for supabase storage")
		}
		c.SupabaseURL = strings.TrimRight(c.SupabaseURL, "/")
	default:
		return fmt.Errorf("CHURCHCMS_STORAGE must be local or supabase, got %q", c.Storage)
	}

	if c.UploadMaxMB <= 0 {
		return fmt.Errorf("CHURCHCMS_UPLOAD_MAX_MB must be positive, got %d", c.UploadMaxMB)
	}
	return nil
}

// hasMinimumEntropy checks that a secret mixes at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
