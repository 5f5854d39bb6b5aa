// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"PAGEGEN_MARKER_TTL", "PAGEGEN_BINDING_BLOCK", "PAGEGEN_RECONCILE_BATCH",
}

// clearEnv sets every variable Load reads to "", which envOrDefault treats
// as unset. t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	defaults := map[string]string{
		"Host":         cfg.Host,
		"Port":         cfg.Port,
		"Env":          cfg.Env,
		"DBHost":       cfg.DBHost,
		"DBPort":       cfg.DBPort,
		"DBUser":       cfg.DBUser,
		"DBName":       cfg.DBName,
		"ValkeyHost":   cfg.ValkeyHost,
		"ValkeyPort":   cfg.ValkeyPort,
		"BindingBlock": cfg.BindingBlock,
	}
	want := map[string]string{
		"Host":         "0.0.0.0",
		"Port":         "8080",
		"Env":          "development",
		"DBHost":       "localhost",
		"DBPort":       "5432",
		"DBUser":       "profilepages",
		"DBName":       "profilepages",
		"ValkeyHost":   "localhost",
		"ValkeyPort":   "6379",
		"BindingBlock": "profilepages/profile",
	}
	for field, got := range defaults {
		if got != want[field] {
			t.Errorf("%s: got %q, want %q", field, got, want[field])
		}
	}

	if cfg.MarkerTTL != 365*24*time.Hour {
		t.Errorf("MarkerTTL: got %v, want 8760h", cfg.MarkerTTL)
	}
	if cfg.ReconcileBatch != 200 {
		t.Errorf("ReconcileBatch: got %d, want 200", cfg.ReconcileBatch)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() should be true by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PAGEGEN_MARKER_TTL", "2h")
	t.Setenv("PAGEGEN_BINDING_BLOCK", "acme/officer")
	t.Setenv("PAGEGEN_RECONCILE_BATCH", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port: got %q", cfg.Port)
	}
	if cfg.MarkerTTL != 2*time.Hour {
		t.Errorf("MarkerTTL: got %v", cfg.MarkerTTL)
	}
	if cfg.BindingBlock != "acme/officer" {
		t.Errorf("BindingBlock: got %q", cfg.BindingBlock)
	}
	if cfg.ReconcileBatch != 50 {
		t.Errorf("ReconcileBatch: got %d", cfg.ReconcileBatch)
	}
}

func TestLoad_InvalidPageEngineValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unparsable ttl", "PAGEGEN_MARKER_TTL", "a year"},
		{"negative ttl", "PAGEGEN_MARKER_TTL", "-1h"},
		{"unparsable batch", "PAGEGEN_RECONCILE_BATCH", "lots"},
		{"zero batch", "PAGEGEN_RECONCILE_BATCH", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should name %s", err, tt.key)
			}
		})
	}
}

// TestLoad_ProductionRequiresPassword verifies that production mode rejects
// the default database password.
func TestLoad_ProductionRequiresPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for default password in production")
	}
	if !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
		t.Errorf("unexpected error: %v", err)
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with password: %v", err)
	}
	if cfg.IsDev() {
		t.Error("IsDev() should be false in production")
	}
}

func TestConfig_Addresses(t *testing.T) {
	cfg := &Config{
		Host: "127.0.0.1", Port: "8080",
		DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "n",
		ValkeyHost: "cache", ValkeyPort: "6379",
	}
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr: got %q", got)
	}
	if got := cfg.DSN(); got != "postgres://u:p@db:5432/n?sslmode=disable" {
		t.Errorf("DSN: got %q", got)
	}
	if got := cfg.ValkeyAddr(); got != "cache:6379" {
		t.Errorf("ValkeyAddr: got %q", got)
	}
}
