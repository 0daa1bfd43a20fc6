package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestConfigShowCommand(t *testing.T) {
	tempHome := isolateHome(t)
	writeConfig(t, tempHome, `server:
  url: https://intranet.example.com
auth:
  mode: body
logging:
  level: debug
`)

	got, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show command failed: %v", err)
	}

	assertContains(t, got,
		"Server:",
		"URL: https://intranet.example.com",
		"Timeout: 10s",
		"Mode: body",
		"Backend: system",
		"Level: debug",
		"Locale: ru",
	)
	assertNotContains(t, got, "Warning:")
}

func TestConfigShowCommand_WithEnvOverride(t *testing.T) {
	tempHome := isolateHome(t)
	writeConfig(t, tempHome, "server:\n  url: https://intranet.example.com\n")
	t.Setenv("INTRANET_SERVER_URL", "http://intranet.internal:8000")
	t.Setenv("INTRANET_AUTH_MODE", "body")

	got, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show command failed: %v", err)
	}

	assertContains(t, got,
		"URL: http://intranet.internal:8000",
		"Mode: body",
		"Warning: http://intranet.internal:8000 is reached over plain http",
	)
}

func TestConfigSetCommand(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(map[string]any) any
	}{
		{"server.url", "https://new.example.com", func(c map[string]any) any { return c["server"].(map[string]any)["url"] }},
		{"auth.mode", "body", func(c map[string]any) any { return c["auth"].(map[string]any)["mode"] }},
		{"logging.format", "json", func(c map[string]any) any { return c["logging"].(map[string]any)["format"] }},
		{"locale", "en", func(c map[string]any) any { return c["locale"] }},
		{"lists.drop_stale_results", "true", func(c map[string]any) any { return c["lists"].(map[string]any)["drop_stale_results"] }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			tempHome := isolateHome(t)

			got, err := execute(t, "config", "set", tt.key, tt.value)
			if err != nil {
				t.Fatalf("config set failed: %v", err)
			}
			if want := "Updated " + tt.key + " to: " + tt.value; !strings.Contains(got, want) {
				t.Errorf("output = %q, want %q", got, want)
			}

			data, err := os.ReadFile(filepath.Join(tempHome, ".intranet", "config.yaml"))
			if err != nil {
				t.Fatalf("config not saved: %v", err)
			}
			var cfg map[string]any
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				t.Fatal(err)
			}

			saved := tt.check(cfg)
			if b, ok := saved.(bool); ok {
				saved = map[bool]string{true: "true", false: "false"}[b]
			}
			if saved != tt.value {
				t.Errorf("saved %s = %v, want %s", tt.key, saved, tt.value)
			}
		})
	}
}

func TestConfigSetCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown key", []string{"nonexistent.key", "x"}, "unknown config key"},
		{"bad url scheme", []string{"server.url", "ftp://example.com"}, "http or https"},
		{"bad auth mode", []string{"auth.mode", "header"}, "Mode"},
		{"redis without address", []string{"store.backend", "redis"}, "RedisAddr"},
		{"bad duration", []string{"server.timeout", "soon"}, "invalid duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempHome := isolateHome(t)

			_, err := execute(t, append([]string{"config", "set"}, tt.args...)...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
			if _, statErr := os.Stat(filepath.Join(tempHome, ".intranet", "config.yaml")); !os.IsNotExist(statErr) {
				t.Error("invalid value was saved")
			}
		})
	}
}

func TestConfigKeyCompletion(t *testing.T) {
	keys, _ := configKeyCompletion(configSetCmd, nil, "")
	if len(keys) == 0 {
		t.Fatal("no completions")
	}
	if !strings.HasPrefix(keys[0], "server.url") {
		t.Errorf("first completion = %q", keys[0])
	}

	keys, _ = configKeyCompletion(configSetCmd, []string{"server.url"}, "")
	if keys != nil {
		t.Errorf("value position completions = %v, want none", keys)
	}
}
