package keychain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zalando/go-keyring"
)

func TestMemoryKeychain(t *testing.T) {
	kc := NewMemoryKeychain()

	if _, err := kc.Get(KeyAccessToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty store: expected ErrNotFound, got %v", err)
	}

	for _, key := range SessionKeys {
		if err := kc.Set(key, key+"-value"); err != nil {
			t.Fatalf("Set(%s) failed: %v", key, err)
		}
	}
	if value, err := kc.Get(KeyUser); err != nil || value != "user-value" {
		t.Errorf("Get(user) = %q, %v", value, err)
	}

	if err := kc.Delete(KeyAccessToken); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := kc.Delete(KeyAccessToken); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}

	want := map[string]string{
		KeyUser:         "user-value",
		KeyEmployee:     "employee-value",
		KeyRefreshToken: "refreshToken-value",
	}
	if diff := cmp.Diff(want, kc.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if kc.Len() != 3 {
		t.Errorf("Len() = %d, want 3", kc.Len())
	}
}

func TestSystemKeychainService(t *testing.T) {
	tests := []struct {
		serverURL string
		want      string
	}{
		{"https://intranet.example.com", "secret-lab-intranet@intranet.example.com"},
		{"http://localhost:8000/", "secret-lab-intranet@localhost:8000"},
		{"", "secret-lab-intranet"},
		{"::not a url", "secret-lab-intranet"},
	}

	for _, tt := range tests {
		if got := NewSystemKeychain(tt.serverURL).Service(); got != tt.want {
			t.Errorf("NewSystemKeychain(%q).Service() = %q, want %q", tt.serverURL, got, tt.want)
		}
	}
}

func TestSystemKeychain(t *testing.T) {
	keyring.MockInit()
	kc := NewSystemKeychain("https://intranet.example.com")

	if _, err := kc.Get(KeyAccessToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := kc.Set(KeyAccessToken, "token"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, err := kc.Get(KeyAccessToken); err != nil || value != "token" {
		t.Errorf("Get = %q, %v", value, err)
	}
	if err := kc.Delete(KeyAccessToken); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := kc.Delete(KeyAccessToken); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}
