// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CHURCHCMS_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.DBPath != "./data/churchcms.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/churchcms.db")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.Storage != StorageLocal {
		t.Errorf("Storage = %q, want %q", cfg.Storage, StorageLocal)
	}
	if cfg.NotificationTTL != 14*24*time.Hour {
		t.Errorf("NotificationTTL = %v, want 336h", cfg.NotificationTTL)
	}
	if cfg.UploadMaxBytes() != 5<<20 {
		t.Errorf("UploadMaxBytes = %d, want %d", cfg.UploadMaxBytes(), 5<<20)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CHURCHCMS_SESSION_SECRET", testSecret)
	setEnv(t, "CHURCHCMS_SERVER_HOST", "0.0.0.0")
	setEnv(t, "CHURCHCMS_SERVER_PORT", "3000")
	setEnv(t, "CHURCHCMS_ENV", "production")
	setEnv(t, "CHURCHCMS_WEBHOOK_URLS", "https://a.example/hook,https://b.example/hook")
	setEnv(t, "CHURCHCMS_NOTIFICATION_CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment should be false in production")
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction should be true")
	}
	if len(cfg.WebhookURLs) != 2 {
		t.Errorf("WebhookURLs = %v, want 2 entries", cfg.WebhookURLs)
	}
	if cfg.NotificationCacheTTL != 30*time.Second {
		t.Errorf("NotificationCacheTTL = %v", cfg.NotificationCacheTTL)
	}
}

func TestLoad_RequiredSessionSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail when CHURCHCMS_SESSION_SECRET is not set")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"short secret", map[string]string{"CHURCHCMS_SESSION_SECRET": "short"}},
		{"weak secret", map[string]string{"CHURCHCMS_SESSION_SECRET": "change-me-to-32-byte-secret-key!"}},
		{"unknown driver", map[string]string{"CHURCHCMS_SESSION_SECRET": testSecret, "CHURCHCMS_DB_DRIVER": "mysql"}},
		{"postgres without url", map[string]string{"CHURCHCMS_SESSION_SECRET": testSecret, "CHURCHCMS_DB_DRIVER": "postgres"}},
		{"unknown storage", map[string]string{"CHURCHCMS_SESSION_SECRET": testSecret, "CHURCHCMS_STORAGE": "s3"}},
		{"supabase without key", map[string]string{
			"CHURCHCMS_SESSION_SECRET": testSecret,
			"CHURCHCMS_STORAGE":        "supabase",
			"CHURCHCMS_SUPABASE_URL":   "https://proj.supabase.co",
		}},
		{"zero upload size", map[string]string{"CHURCHCMS_SESSION_SECRET": testSecret, "CHURCHCMS_UPLOAD_MAX_MB": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				setEnv(t, k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load() should fail")
			}
		})
	}
}

func TestLoad_SupabaseTrimsTrailingSlash(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CHURCHCMS_SESSION_SECRET", testSecret)
	setEnv(t, "CHURCHCMS_STORAGE", "supabase")
	setEnv(t, "CHURCHCMS_SUPABASE_URL", "https://proj.supabase.co/")
	setEnv(t, "CHURCHCMS_SUPABASE_SERVICE_KEY", "service-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SupabaseURL != "https://proj.supabase.co" {
		t.Errorf("SupabaseURL = %q", cfg.SupabaseURL)
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	if hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") {
		t.Error("single class should fail")
	}
	if !hasMinimumEntropy("Abc123abc123abc123abc123abc123ab") {
		t.Error("three classes should pass")
	}
}
