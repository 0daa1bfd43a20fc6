package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME at a fresh directory and unsets every override.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{
		"SERVER_URL", "HTTP_TIMEOUT", "AUTH_MODE", "STORE_BACKEND", "REDIS_ADDR",
		"LOG_LEVEL", "LOG_FORMAT", "LOCALE", "DROP_STALE_RESULTS",
	} {
		key := EnvPrefix + "_" + name
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	return home
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		env       map[string]string
		wantURL   string
		wantMode  string
		wantError bool
	}{
		{
			name:     "defaults without file",
			wantURL:  "http://localhost:8000",
			wantMode: "cookie",
		},
		{
			name:     "file values",
			file:     "server:\n  url: https://intranet.example.com\nauth:\n  mode: body\n",
			wantURL:  "https://intranet.example.com",
			wantMode: "body",
		},
		{
			name:     "environment overrides file",
			file:     "server:\n  url: https://intranet.example.com\n",
			env:      map[string]string{"INTRANET_SERVER_URL": "http://custom:9000", "INTRANET_AUTH_MODE": "body"},
			wantURL:  "http://custom:9000",
			wantMode: "body",
		},
		{
			name:      "invalid auth mode",
			env:       map[string]string{"INTRANET_AUTH_MODE": "header"},
			wantError: true,
		},
		{
			name:      "unparseable file",
			file:      "server: [",
			wantError: true,
		},
		{
			name:      "bad timeout",
			env:       map[string]string{"INTRANET_HTTP_TIMEOUT": "soon"},
			wantError: true,
		},
		{
			name:      "empty timeout",
			env:       map[string]string{"INTRANET_HTTP_TIMEOUT": ""},
			wantError: true,
		},
		{
			name:      "bad drop stale results",
			env:       map[string]string{"INTRANET_DROP_STALE_RESULTS": "sometimes"},
			wantError: true,
		},
		{
			name:     "empty string override is ignored",
			file:     "server:\n  url: https://intranet.example.com\n",
			env:      map[string]string{"INTRANET_SERVER_URL": ""},
			wantURL:  "https://intranet.example.com",
			wantMode: "cookie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			if tt.file != "" {
				dir := filepath.Join(home, ".intranet")
				if err := os.MkdirAll(dir, 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.file), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if cfg.Server.URL != tt.wantURL {
				t.Errorf("expected server URL %s, got %s", tt.wantURL, cfg.Server.URL)
			}
			if cfg.Auth.Mode != tt.wantMode {
				t.Errorf("expected auth mode %s, got %s", tt.wantMode, cfg.Auth.Mode)
			}
		})
	}
}

func TestLoad_EnvOverlayTypes(t *testing.T) {
	isolate(t)
	t.Setenv("INTRANET_HTTP_TIMEOUT", "3s")
	t.Setenv("INTRANET_DROP_STALE_RESULTS", "true")
	t.Setenv("INTRANET_STORE_BACKEND", "redis")
	t.Setenv("INTRANET_REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("INTRANET_LOCALE", "en")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Timeout != 3*time.Second {
		t.Errorf("timeout = %s", cfg.Server.Timeout)
	}
	if !cfg.Lists.DropStaleResults {
		t.Error("drop stale results not applied")
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.RedisAddr != "127.0.0.1:6379" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Locale != "en" {
		t.Errorf("locale = %s", cfg.Locale)
	}
}

func TestLoad_EnvOverridesFileFalse(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".intranet")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	file := "server:\n  timeout: 30s\nlists:\n  drop_stale_results: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Timeout != 30*time.Second || !cfg.Lists.DropStaleResults {
		t.Fatalf("file values not applied: timeout=%s drop=%v", cfg.Server.Timeout, cfg.Lists.DropStaleResults)
	}

	t.Setenv("INTRANET_DROP_STALE_RESULTS", "false")
	t.Setenv("INTRANET_HTTP_TIMEOUT", "1m30s")
	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Lists.DropStaleResults {
		t.Error("INTRANET_DROP_STALE_RESULTS=false did not override the file")
	}
	if cfg.Server.Timeout != 90*time.Second {
		t.Errorf("timeout = %s, want 1m30s", cfg.Server.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "https with port", mutate: func(c *Config) { c.Server.URL = "https://api.example.com:8443" }},
		{name: "empty server URL", mutate: func(c *Config) { c.Server.URL = "" }, wantError: true},
		{name: "ftp scheme", mutate: func(c *Config) { c.Server.URL = "ftp://example.com" }, wantError: true},
		{name: "missing scheme", mutate: func(c *Config) { c.Server.URL = "example.com:8080" }, wantError: true},
		{name: "missing host", mutate: func(c *Config) { c.Server.URL = "http://" }, wantError: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "etcd" }, wantError: true},
		{name: "redis without address", mutate: func(c *Config) { c.Store.Backend = BackendRedis }, wantError: true},
		{name: "redis with address", mutate: func(c *Config) {
			c.Store.Backend = BackendRedis
			c.Store.RedisAddr = "localhost:6379"
		}},
		{name: "unknown level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantError: true},
		{name: "unknown locale", mutate: func(c *Config) { c.Locale = "de" }, wantError: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Server.Timeout = -time.Second }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestIsInsecure(t *testing.T) {
	tests := []struct {
		name      string
		serverURL string
		insecure  bool
	}{
		{"http localhost is secure", "http://localhost:8080", false},
		{"http 127.0.0.1 is secure", "http://127.0.0.1:8080", false},
		{"http ::1 is secure", "http://[::1]:8080", false},
		{"https remote is secure", "https://api.example.com", false},
		{"http remote is insecure", "http://api.example.com", true},
		{"http remote with port is insecure", "http://api.example.com:8080", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Server.URL = tt.serverURL
			if got := cfg.IsInsecure(); got != tt.insecure {
				t.Errorf("expected IsInsecure()=%v, got %v", tt.insecure, got)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	home := isolate(t)

	cfg := Default()
	cfg.Server.URL = "https://intranet.example.com"
	cfg.Server.Timeout = 5 * time.Second
	cfg.Lists.DropStaleResults = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if GetConfigPath() != filepath.Join(home, ".intranet", "config.yaml") {
		t.Errorf("config path = %s", GetConfigPath())
	}
	info, err := os.Stat(GetConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.URL != cfg.Server.URL || loaded.Server.Timeout != cfg.Server.Timeout || !loaded.Lists.DropStaleResults {
		t.Errorf("reloaded config = %+v", loaded)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key, value string
		wantError  bool
	}{
		{"server.url", "https://x.example.com", false},
		{"server.timeout", "15s", false},
		{"server.timeout", "later", true},
		{"lists.drop_stale_results", "true", false},
		{"lists.drop_stale_results", "maybe", true},
		{"locale", "en", false},
		{"profiles.directory", "/tmp", true},
	}
	for _, tt := range tests {
		err := Default().Set(tt.key, tt.value)
		if (err != nil) != tt.wantError {
			t.Errorf("Set(%q, %q) error = %v, wantError %v", tt.key, tt.value, err, tt.wantError)
		}
	}
}

func TestKeysMatchSet(t *testing.T) {
	for _, k := range Keys() {
		key := strings.SplitN(k, "\t", 2)[0]
		if err := Default().Set(key, "x"); err != nil && strings.Contains(err.Error(), "unknown config key") {
			t.Errorf("completion key %q is not settable", key)
		}
	}
}
