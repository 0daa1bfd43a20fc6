// Package keychain stores the persisted session slots. Backends are the OS
// keyring, Redis and process memory.
package keychain

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found in keychain")

// Slot keys
const (
	KeyUser         = "user"
	KeyEmployee     = "employee"
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
)

// ServiceName is the keyring service every system entry is filed under.
const ServiceName = "secret-lab-intranet"

// SessionKeys lists every key the session persists.
var SessionKeys = []string{KeyUser, KeyEmployee, KeyAccessToken, KeyRefreshToken}

// Keychain is a durable string store. Get returns ErrNotFound for absent
// keys; Delete of an absent key is not an error.
type Keychain interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// MemoryKeychain keeps entries for the life of the process. It backs the
// "memory" store and the tests.
type MemoryKeychain struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryKeychain() *MemoryKeychain {
	return &MemoryKeychain{entries: make(map[string]string)}
}

func (m *MemoryKeychain) Set(key, value string) error {
	m.mu.Lock()
	m.entries[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryKeychain) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if value, ok := m.entries[key]; ok {
		return value, nil
	}
	return "", ErrNotFound
}

func (m *MemoryKeychain) Delete(key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len reports how many entries are stored.
func (m *MemoryKeychain) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Entries returns a copy of the stored entries.
func (m *MemoryKeychain) Entries() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// SystemKeychain stores entries in the OS keyring.
type SystemKeychain struct {
	service string
}

// NewSystemKeychain files entries under ServiceName, or under
// "ServiceName@host" when serverURL has a host, so sessions for different
// servers do not overwrite each other.
func NewSystemKeychain(serverURL string) *SystemKeychain {
	service := ServiceName
	if u, err := url.Parse(serverURL); err == nil && u.Host != "" {
		service += "@" + u.Host
	}
	return &SystemKeychain{service: service}
}

// Service returns the keyring service name in use.
func (s *SystemKeychain) Service() string {
	return s.service
}

func (s *SystemKeychain) Set(key, value string) error {
	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("failed to store %s in keychain: %w", key, err)
	}
	return nil
}

func (s *SystemKeychain) Get(key string) (string, error) {
	value, err := keyring.Get(s.service, key)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("failed to read %s from keychain: %w", key, err)
	}
	return value, nil
}

func (s *SystemKeychain) Delete(key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s from keychain: %w", key, err)
	}
	return nil
}
