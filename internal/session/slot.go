package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Undertaker4032/secret-lab-app/internal/keychain"
	"github.com/Undertaker4032/secret-lab-app/internal/observable"
)

// codec turns a slot value into its stored form and back. An empty encoding
// means "absent" and deletes the stored entry.
type codec[T any] struct {
	encode func(T) (string, error)
	decode func(string) (T, error)
}

var tokenCodec = codec[string]{
	encode: func(s string) (string, error) { return s, nil },
	decode: func(s string) (string, error) { return s, nil },
}

func jsonCodec[T any]() codec[*T] {
	return codec[*T]{
		encode: func(v *T) (string, error) {
			if v == nil {
				return "", nil
			}
			data, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
		decode: func(s string) (*T, error) {
			var v T
			if err := json.Unmarshal([]byte(s), &v); err != nil {
				return nil, err
			}
			return &v, nil
		},
	}
}

// Slot is an observable session field mirrored to the durable store on
// every write.
type Slot[T any] struct {
	key    string
	value  *observable.Value[T]
	codec  codec[T]
	store  keychain.Keychain
	logger *slog.Logger
}

func newSlot[T any](key string, c codec[T], store keychain.Keychain, logger *slog.Logger) *Slot[T] {
	var zero T
	return &Slot[T]{
		key:    key,
		value:  observable.NewValue(zero),
		codec:  c,
		store:  store,
		logger: logger,
	}
}

// Get returns the current value.
func (s *Slot[T]) Get() T {
	return s.value.Get()
}

// Subscribe watches the slot; the current value is delivered immediately.
func (s *Slot[T]) Subscribe(fn func(T)) func() {
	return s.value.Subscribe(fn)
}

// Version counts writes to the slot.
func (s *Slot[T]) Version() uint64 {
	return s.value.Version()
}

// Set updates the value, notifies subscribers and persists the new value.
// Without a store the persistence step is skipped.
func (s *Slot[T]) Set(v T) {
	s.value.Set(v)
	if err := s.persist(v); err != nil {
		s.logger.Warn("failed to persist session slot", "key", s.key, "error", err)
	}
}

func (s *Slot[T]) persist(v T) error {
	if s.store == nil {
		return nil
	}
	encoded, err := s.codec.encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if encoded == "" {
		return s.store.Delete(s.key)
	}
	return s.store.Set(s.key, encoded)
}

// hydrate loads the stored value without writing it back. Missing or
// malformed entries leave the slot at its zero value.
func (s *Slot[T]) hydrate() {
	if s.store == nil {
		return
	}
	raw, err := s.store.Get(s.key)
	if err != nil {
		if !errors.Is(err, keychain.ErrNotFound) {
			s.logger.Debug("session slot unreadable, treating as absent", "key", s.key, "error", err)
		}
		return
	}
	if raw == "" {
		return
	}
	v, err := s.codec.decode(raw)
	if err != nil {
		s.logger.Debug("session slot malformed, treating as absent", "key", s.key, "error", err)
		return
	}
	s.value.Set(v)
}
