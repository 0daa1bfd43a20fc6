package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORS(t *testing.T) {
	s := New(Config{AllowedOrigins: []string{"http://localhost:5173"}})

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"allowed origin", http.MethodGet, "http://localhost:5173", http.StatusOK, "http://localhost:5173"},
		{"other origin", http.MethodGet, "http://evil.example", http.StatusOK, ""},
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://localhost:5173", http.StatusNoContent, "http://localhost:5173"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if tt.method == http.MethodOptions && !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "X-CSRFToken") {
				t.Errorf("preflight does not allow X-CSRFToken: %q", rec.Header().Get("Access-Control-Allow-Headers"))
			}
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	s := New(Config{MaxBodyBytes: 64})

	body := `{"username":"ivanov","password":"` + strings.Repeat("x", 128) + `"}`
	rec := do(t, s, http.MethodPost, "/api/auth/login/", body, "")
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/auth/login/", `{"username":`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("truncated body status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, New(Config{}), http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("health = %d %s", rec.Code, rec.Body)
	}
}

func TestValidateSigningKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		isDev   bool
		wantErr bool
	}{
		{"empty", "", true, true},
		{"weak in development", "changeme", true, false},
		{"weak in production", "changeme", false, true},
		{"short", "abc123", false, true},
		{"long enough", strings.Repeat("k", 32), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSigningKey(tt.key, tt.isDev, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSigningKey() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsDevelopmentMode(t *testing.T) {
	tests := []struct {
		env, goEnv string
		want       bool
	}{
		{"", "", false},
		{"development", "", true},
		{"", "dev", true},
		{"production", "", false},
	}
	for _, tt := range tests {
		t.Setenv("ENVIRONMENT", tt.env)
		t.Setenv("GO_ENV", tt.goEnv)
		if got := IsDevelopmentMode(); got != tt.want {
			t.Errorf("IsDevelopmentMode(ENVIRONMENT=%q, GO_ENV=%q) = %v, want %v", tt.env, tt.goEnv, got, tt.want)
		}
	}
}
