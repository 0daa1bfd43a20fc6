// Package session holds the client's authentication state: the signed-in
// user, their employee profile and the tokens used to call the API.
package session

import (
	"log/slog"
	"sync"

	"github.com/Undertaker4032/secret-lab-app/internal/keychain"
	"github.com/Undertaker4032/secret-lab-app/internal/logging"
	"github.com/Undertaker4032/secret-lab-app/internal/model"
	"github.com/Undertaker4032/secret-lab-app/internal/observable"
)

// Session is the single source of truth for authentication state. Every
// component reads the current token through it at the moment of use.
type Session struct {
	store  keychain.Keychain
	logger *slog.Logger

	User         *Slot[*model.User]
	Employee     *Slot[*model.Employee]
	AccessToken  *Slot[string]
	RefreshToken *Slot[string]

	// AuthLoading is true until the startup session load finishes.
	AuthLoading *observable.Value[bool]

	// IsAuthenticated is derived from AccessToken and cannot be set.
	IsAuthenticated *observable.Derived[bool]

	hydrateOnce sync.Once
}

// Snapshot is the session state at one instant.
type Snapshot struct {
	User            *model.User
	Employee        *model.Employee
	AccessToken     string
	IsAuthenticated bool
	AuthLoading     bool
}

// New creates an empty session backed by store. A nil store keeps the
// session in memory only.
func New(store keychain.Keychain, logger *slog.Logger) *Session {
	logger = logging.OrDiscard(logger)

	s := &Session{
		store:        store,
		logger:       logger,
		User:         newSlot(keychain.KeyUser, jsonCodec[model.User](), store, logger),
		Employee:     newSlot(keychain.KeyEmployee, jsonCodec[model.Employee](), store, logger),
		AccessToken:  newSlot(keychain.KeyAccessToken, tokenCodec, store, logger),
		RefreshToken: newSlot(keychain.KeyRefreshToken, tokenCodec, store, logger),
		AuthLoading:  observable.NewValue(true),
	}
	s.IsAuthenticated = observable.Derive[string](s.AccessToken, func(token string) bool {
		return token != ""
	})
	return s
}

// Hydrate restores persisted values. Only the first call reads the store.
func (s *Session) Hydrate() {
	s.hydrateOnce.Do(func() {
		s.User.hydrate()
		s.Employee.hydrate()
		s.AccessToken.hydrate()
		s.RefreshToken.hydrate()
		s.logger.Debug("session hydrated", "authenticated", s.IsAuthenticated.Get())
	})
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		User:            s.User.Get(),
		Employee:        s.Employee.Get(),
		AccessToken:     s.AccessToken.Get(),
		IsAuthenticated: s.IsAuthenticated.Get(),
		AuthLoading:     s.AuthLoading.Get(),
	}
}

// Clear tears the session down: every slot is emptied and every stored entry
// removed.
func (s *Session) Clear() {
	s.User.Set(nil)
	s.Employee.Set(nil)
	s.AccessToken.Set("")
	s.RefreshToken.Set("")
	s.AuthLoading.Set(false)

	if s.store == nil {
		return
	}
	for _, key := range keychain.SessionKeys {
		if err := s.store.Delete(key); err != nil {
			s.logger.Warn("failed to remove stored session entry", "key", key, "error", err)
		}
	}
}
