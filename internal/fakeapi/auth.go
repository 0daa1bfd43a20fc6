package fakeapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Undertaker4032/secret-lab-app/internal/model"
)

const (
	csrfCookie    = "csrftoken"
	refreshCookie = "refresh_token"
	refreshTTL    = 7 * 24 * time.Hour
	refreshPath   = "/api/auth/refresh/"
)

var errTokenRevoked = errors.New("token revoked")

type contextKey struct{}

// generateAccessToken signs a short-lived access token for user.
func (s *Server) generateAccessToken(user model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(user.ID),
		"gen": s.generation.Load(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.AccessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.SigningKey)
}

// validateAccessToken returns the user ID carried by a valid token.
func (s *Server) validateAccessToken(raw string) (int, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.cfg.SigningKey, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	gen, _ := claims["gen"].(float64)
	if int64(gen) < s.generation.Load() {
		return 0, errTokenRevoked
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.Atoi(sub)
	if err != nil {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return id, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *Server) issueRefreshToken(userID int) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.refreshTokens[hashToken(token)] = &refreshRecord{
		userID:    userID,
		expiresAt: time.Now().Add(refreshTTL),
	}
	s.mu.Unlock()
	return token
}

func (s *Server) userByID(id int) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc.user, true
		}
	}
	return model.User{}, false
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		id, err := s.validateAccessToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
			})
			return
		}
		user, ok := s.userByID(id)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "User not found"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, user)))
	})
}

func currentUser(r *http.Request) model.User {
	user, _ := r.Context().Value(contextKey{}).(model.User)
	return user
}

func (s *Server) handleCSRF(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    uuid.NewString(),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"detail": "CSRF cookie set"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
		return
	}

	access, err := s.generateAccessToken(acc.user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to issue token"})
		return
	}
	refresh := s.issueRefreshToken(acc.user.ID)
	s.setRefreshCookie(w, refresh)

	resp := model.LoginResponse{Access: access, Refresh: refresh, User: acc.user}
	if s.cfg.InlineEmployee && acc.user.EmployeeID != nil {
		if emp, ok := s.data.employee(*acc.user.EmployeeID); ok {
			resp.Employee = &emp
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/api/auth/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// refreshTokenFrom reads the refresh token from a JSON body field or, failing
// that, from the HttpOnly cookie.
func refreshTokenFrom(r *http.Request, field string) string {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		if token, ok := body[field].(string); ok && token != "" {
			return token
		}
	}
	if c, err := r.Cookie(refreshCookie); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFrom(r, "refresh")
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Refresh token not provided"})
		return
	}

	s.mu.Lock()
	rec, ok := s.refreshTokens[hashToken(token)]
	valid := ok && !rec.revoked && time.Now().Before(rec.expiresAt)
	if valid && s.cfg.RotateRefresh {
		rec.revoked = true
	}
	s.mu.Unlock()
	if !valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}

	user, ok := s.userByID(rec.userID)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "User not found"})
		return
	}
	access, err := s.generateAccessToken(user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to issue token"})
		return
	}

	resp := model.RefreshResponse{Access: access}
	if s.cfg.RotateRefresh {
		resp.Refresh = s.issueRefreshToken(user.ID)
		s.setRefreshCookie(w, resp.Refresh)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := refreshTokenFrom(r, "refresh_token"); token != "" {
		s.mu.Lock()
		if rec, ok := s.refreshTokens[hashToken(token)]; ok {
			rec.revoked = true
		}
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/api/auth/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Successfully logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}
