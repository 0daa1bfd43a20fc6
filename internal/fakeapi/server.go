// Package fakeapi is an in-process stand-in for the intranet HTTP API. It
// backs the client's tests and the local development server.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"golang.org/x/crypto/bcrypt"

	"github.com/Undertaker4032/secret-lab-app/internal/model"
)

// Config tunes the fake server.
type Config struct {
	// SigningKey signs access tokens. A fixed development key is used when empty.
	SigningKey []byte
	// AccessTTL is the lifetime of access tokens (default 15 minutes).
	AccessTTL time.Duration
	// RequireCSRF rejects unsafe requests whose X-CSRFToken header does not
	// match the csrftoken cookie.
	RequireCSRF bool
	// InlineEmployee includes the employee profile in the login response.
	InlineEmployee bool
	// RotateRefresh issues a new refresh token on every renewal.
	RotateRefresh bool
	// LoginRateLimit caps login attempts per client IP per minute; 0 disables it.
	LoginRateLimit int
	// BcryptCost is the password hashing cost (default bcrypt.MinCost).
	BcryptCost int
	// AllowedOrigins lists browser origins allowed to call the API.
	AllowedOrigins []string
	// MaxBodyBytes caps request bodies (default 1 MiB).
	MaxBodyBytes int64
}

type account struct {
	user         model.User
	passwordHash string
}

type refreshRecord struct {
	userID    int
	expiresAt time.Time
	revoked   bool
}

type failure struct {
	status    int
	remaining int
}

// Server is the fake API. All methods are safe for concurrent use.
type Server struct {
	cfg     Config
	handler http.Handler

	generation atomic.Int64

	mu            sync.Mutex
	accounts      map[string]*account
	refreshTokens map[string]*refreshRecord
	failures      map[string]*failure
	calls         map[string]int
	refreshGate   chan struct{}
	data          *dataset
}

// New creates a server seeded with the default dataset.
func New(cfg Config) *Server {
	if len(cfg.SigningKey) == 0 {
		cfg.SigningKey = []byte("fakeapi-development-signing-key")
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.MinCost
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	s := &Server{
		cfg:           cfg,
		accounts:      make(map[string]*account),
		refreshTokens: make(map[string]*refreshRecord),
		failures:      make(map[string]*failure),
		calls:         make(map[string]int),
		data:          seed(),
	}
	s.mustAddUser(1, "ivanov", "secret", intPtr(1))
	s.mustAddUser(2, "guest", "guest", nil)

	s.handler = s.routes()
	return s
}

func intPtr(i int) *int { return &i }

func (s *Server) mustAddUser(id int, username, password string, employeeID *int) {
	if err := s.AddUser(id, username, password, employeeID); err != nil {
		panic(err)
	}
}

// AddUser registers an account. employeeID links it to an employee profile.
func (s *Server) AddUser(id int, username, password string, employeeID *int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = &account{
		user:         model.User{ID: id, Username: username, EmployeeID: employeeID},
		passwordHash: string(hash),
	}
	return nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		IsDevelopment:      true,
	}).Handler)
	r.Use(s.cors)
	r.Use(s.maxBodySize)
	r.Use(s.countCalls)
	r.Use(s.holdRefresh)
	r.Use(s.injectFailures)

	r.Get("/health", handleHealth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/csrf/", s.handleCSRF)
		r.Group(func(r chi.Router) {
			if s.cfg.LoginRateLimit > 0 {
				r.Use(httprate.Limit(s.cfg.LoginRateLimit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						writeJSON(w, http.StatusTooManyRequests, map[string]string{"detail": "Request was throttled."})
					}),
				))
			}
			r.With(s.requireCSRF).Post("/login/", s.handleLogin)
		})
		r.Post("/refresh/", s.handleRefresh)
		r.With(s.requireCSRF).Post("/logout/", s.handleLogout)
		r.With(s.requireAuth).Get("/profile/", s.handleProfile)
	})

	r.Route("/api/employees", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleEmployees)
		r.Get("/my_profile/", s.handleMyProfile)
		r.Get("/employee-filters/", s.handleEmployeeFilters)
		r.Get("/clusters/", s.handleClusters)
		r.Get("/departments/", s.handleDepartments)
		r.Get("/divisions/", s.handleDivisions)
		r.Get("/positions/", s.handlePositions)
		r.Get("/clearance-level/", s.handleClearanceLevels)
		r.Get("/{id}/", s.handleEmployee)
	})

	r.Route("/api/documentation", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleDocumentation)
		r.Get("/document-types/", s.handleDocumentTypes)
		r.Get("/{id}/", s.handleDocument)
	})

	r.Route("/api/research", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleResearchList)
		r.Get("/research-statuses/", s.handleResearchStatuses)
		r.Get("/{id}/", s.handleResearch)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})
	return r
}

// Calls returns how many requests reached path (query ignored).
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// FailNext makes the next times requests to path answer with status.
func (s *Server) FailNext(path string, status, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = &failure{status: status, remaining: times}
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.generation.Add(1)
}

// HoldRefresh makes renewal requests block until the returned function is
// called. Calling it more than once is harmless.
func (s *Server) HoldRefresh() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.refreshGate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.refreshGate == gate {
				s.refreshGate = nil
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *Server) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// holdRefresh parks renewal requests while a HoldRefresh gate is open.
func (s *Server) holdRefresh(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			s.mu.Lock()
			gate := s.refreshGate
			s.mu.Unlock()
			if gate != nil {
				select {
				case <-gate:
				case <-r.Context().Done():
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.URL.Path]
		status := 0
		if ok && f.remaining > 0 {
			f.remaining--
			status = f.status
		}
		s.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.RequireCSRF {
			next.ServeHTTP(w, r)
			return
		}
		cookie, err := r.Cookie(csrfCookie)
		header := r.Header.Get("X-CSRFToken")
		if err != nil || header == "" || cookie.Value != header {
			writeJSON(w, http.StatusForbidden, map[string]string{"detail": "CSRF Failed: CSRF token missing or incorrect."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
