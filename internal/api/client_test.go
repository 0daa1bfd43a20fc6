package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Undertaker4032/secret-lab-app/internal/keychain"
	"github.com/Undertaker4032/secret-lab-app/internal/session"
)

func newSession() *session.Session {
	return session.New(keychain.NewMemoryKeychain(), nil)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http", baseURL: "http://localhost:8000"},
		{name: "trailing slash", baseURL: "https://intranet.example.com/"},
		{name: "no scheme", baseURL: "localhost:8000", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, newSession())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if strings.HasSuffix(client.BaseURL(), "/") {
				t.Errorf("base URL kept trailing slash: %s", client.BaseURL())
			}
			if client.httpClient.Jar == nil {
				t.Error("expected a cookie jar")
			}
			if client.AuthMode() != AuthModeCookie {
				t.Errorf("default auth mode = %s, want cookie", client.AuthMode())
			}
		})
	}
}

func TestNewClient_RequiresSession(t *testing.T) {
	if _, err := NewClient("http://localhost", nil); err == nil {
		t.Fatal("expected error for nil session")
	}
}

func TestParseAuthMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AuthMode
		wantErr bool
	}{
		{"", AuthModeCookie, false},
		{"cookie", AuthModeCookie, false},
		{" BODY ", AuthModeBody, false},
		{"header", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAuthMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseAuthMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestReadLimitedResponse(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		max     int64
		wantErr error
	}{
		{name: "under limit", size: 10, max: 100},
		{name: "at limit", size: 100, max: 100},
		{name: "over limit", size: 101, max: 100, wantErr: ErrResponseTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := readLimitedResponse(bytes.NewReader(make([]byte, tt.size)), tt.max)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && len(data) != tt.size {
				t.Errorf("read %d bytes, want %d", len(data), tt.size)
			}
		})
	}
}

func TestBuildHeaders(t *testing.T) {
	tests := []struct {
		method   string
		token    string
		csrf     string
		wantAuth string
		wantCSRF string
	}{
		{http.MethodGet, "", "c", "", ""},
		{http.MethodGet, "t", "c", "Bearer t", ""},
		{http.MethodPost, "t", "c", "Bearer t", "c"},
		{http.MethodPut, "", "c", "", "c"},
		{http.MethodPatch, "", "c", "", "c"},
		{http.MethodDelete, "", "c", "", "c"},
		{http.MethodPost, "", "", "", ""},
	}

	for _, tt := range tests {
		h := BuildHeaders(tt.method, tt.token, tt.csrf)
		if got := h.Get("Content-Type"); got != "application/json" {
			t.Errorf("%s: Content-Type = %q", tt.method, got)
		}
		if got := h.Get("Authorization"); got != tt.wantAuth {
			t.Errorf("%s token=%q: Authorization = %q, want %q", tt.method, tt.token, got, tt.wantAuth)
		}
		if got := h.Get(HeaderCSRF); got != tt.wantCSRF {
			t.Errorf("%s csrf=%q: %s = %q, want %q", tt.method, tt.csrf, HeaderCSRF, got, tt.wantCSRF)
		}
	}
}

func TestCSRFToken(t *testing.T) {
	c, err := NewClient("http://intranet.test", newSession())
	if err != nil {
		t.Fatal(err)
	}
	if got := c.csrfToken(); got != "" {
		t.Errorf("csrf before handshake = %q", got)
	}

	u, _ := url.Parse("http://intranet.test/api/auth/csrf/")
	c.httpClient.Jar.SetCookies(u, []*http.Cookie{{Name: CSRFCookieName, Value: "abc%3D", Path: "/"}})
	if got := c.csrfToken(); got != "abc=" {
		t.Errorf("csrf = %q, want %q", got, "abc=")
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantDetail string
	}{
		{"detail", 404, `{"detail":"Not found."}`, KindClient, "Not found."},
		{"message", 400, `{"message":"bad"}`, KindClient, "bad"},
		{"error", 409, `{"error":"conflict"}`, KindClient, "conflict"},
		{"html body", 502, `<html>bad gateway</html>`, KindServer, "HTTP error! status: 502"},
		{"empty body", 500, ``, KindServer, "HTTP error! status: 500"},
		{"field errors", 400, `{"username":["required"]}`, KindClient, "HTTP error! status: 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusError(&response{status: tt.status, body: []byte(tt.body)})
			if err.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", err.Kind, tt.wantKind)
			}
			if err.Detail != tt.wantDetail {
				t.Errorf("detail = %q, want %q", err.Detail, tt.wantDetail)
			}
			if err.Status != tt.status {
				t.Errorf("status = %d", err.Status)
			}
			if err.Data == nil {
				t.Error("data should never be nil")
			}
		})
	}
}

func TestDo(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantName string
	}{
		{name: "ok", status: http.StatusOK, body: `{"name":"x"}`, wantName: "x"},
		{name: "no content", status: http.StatusNoContent},
		{name: "not found", status: http.StatusNotFound, body: `{"detail":"Not found."}`, wantKind: KindClient},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantKind: KindServer},
		{name: "bad json", status: http.StatusOK, body: `{"name":`, wantKind: KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := NewClient(server.URL, newSession())
			if err != nil {
				t.Fatal(err)
			}

			var out struct {
				Name string `json:"name"`
			}
			err = c.Get(context.Background(), "/thing/", &out)
			if got := KindOf(err); got != tt.wantKind {
				t.Fatalf("kind = %s, want %s (err %v)", got, tt.wantKind, err)
			}
			if out.Name != tt.wantName {
				t.Errorf("name = %q, want %q", out.Name, tt.wantName)
			}
		})
	}
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	c, err := NewClient(server.URL, newSession())
	if err != nil {
		t.Fatal(err)
	}
	err = c.Get(context.Background(), "/thing/", nil)
	if KindOf(err) != KindNetwork {
		t.Fatalf("kind = %s, want network (err %v)", KindOf(err), err)
	}
}

func TestDo_OversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, MaxResponseSize+1))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, newSession())
	if err != nil {
		t.Fatal(err)
	}
	err = c.Get(context.Background(), "/big/", nil)
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("error = %v, want ErrResponseTooLarge", err)
	}
}

func TestDo_401WithoutTokenIsNotRetried(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c, err := NewClient(server.URL, newSession())
	if err != nil {
		t.Fatal(err)
	}
	err = c.Get(context.Background(), "/api/employees/", nil)
	if StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", StatusOf(err))
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if c.Refresher().Renewals() != 0 {
		t.Errorf("renewals = %d, want 0", c.Refresher().Renewals())
	}
}
