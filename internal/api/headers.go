package api

import (
	"net/http"
	"net/url"
	"strings"
)

// Header and cookie names used by the intranet API.
const (
	HeaderCSRF     = "X-CSRFToken"
	CSRFCookieName = "csrftoken"
)

// RequiresCSRF reports whether method changes server state and therefore
// needs the anti-forgery header.
func RequiresCSRF(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// BuildHeaders returns the headers for one request. The bearer header is set
// when token is non-empty; the CSRF header when the method needs it and csrf
// is non-empty. A missing CSRF token is not an error.
func BuildHeaders(method, token, csrf string) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	if csrf != "" && RequiresCSRF(method) {
		h.Set(HeaderCSRF, csrf)
	}
	return h
}

// CSRFToken returns the csrftoken cookie stored in jar for u, or "".
func CSRFToken(jar http.CookieJar, u *url.URL) string {
	if jar == nil || u == nil {
		return ""
	}
	for _, cookie := range jar.Cookies(u) {
		if cookie.Name != CSRFCookieName {
			continue
		}
		if value, err := url.QueryUnescape(cookie.Value); err == nil {
			return value
		}
		return cookie.Value
	}
	return ""
}
