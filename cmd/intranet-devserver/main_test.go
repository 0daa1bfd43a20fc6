package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Undertaker4032/secret-lab-app/internal/logging"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}
	if s.Addr != ":8000" || s.AccessTTL != 15*time.Minute || !s.RequireCSRF || s.LoginRateLimit != 10 {
		t.Errorf("defaults = %+v", s)
	}
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("DEVSERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("DEVSERVER_ACCESS_TTL", "30s")
	t.Setenv("DEVSERVER_REQUIRE_CSRF", "false")
	t.Setenv("DEVSERVER_ROTATE_REFRESH", "true")
	t.Setenv("DEVSERVER_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	s, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}
	cfg := s.apiConfig()
	if cfg.AccessTTL != 30*time.Second || cfg.RequireCSRF || !cfg.RotateRefresh {
		t.Errorf("apiConfig() = %+v", cfg)
	}
	if diff := cmp.Diff([]string{"http://localhost:5173", "http://localhost:3000"}, cfg.AllowedOrigins); diff != "" {
		t.Errorf("AllowedOrigins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	t.Setenv("DEVSERVER_ACCESS_TTL", "soon")
	if _, err := loadSettings(); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestRunRejectsWeakKeyInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("GO_ENV", "")

	err := run(context.Background(), settings{Addr: "127.0.0.1:0", SigningKey: "changeme"}, logging.Discard())
	if err == nil {
		t.Fatal("expected signing key error")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, settings{Addr: "127.0.0.1:0", SigningKey: "dev"}, logging.Discard())
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
