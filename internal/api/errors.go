package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call.
type Kind int

const (
	KindNone Kind = iota
	// KindNetwork: no response was received.
	KindNetwork
	// KindAuthExpired: the access token was rejected and could not be
	// replaced in time for a retry.
	KindAuthExpired
	// KindAuthRejected: token renewal failed; the session has been cleared.
	KindAuthRejected
	// KindClient: a 4xx response.
	KindClient
	// KindServer: a 5xx response.
	KindServer
	// KindMalformed: the response body could not be read or decoded.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuthExpired:
		return "auth_expired"
	case KindAuthRejected:
		return "auth_rejected"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindMalformed:
		return "malformed"
	default:
		return "none"
	}
}

// ErrNotAuthenticated is returned by operations that need a signed-in session
var ErrNotAuthenticated = errors.New("not authenticated: please run 'intranet login' first")

// ErrRefreshFailed is the outcome of a ticket whose renewal did not produce a token
var ErrRefreshFailed = errors.New("token refresh failed")

// Error is a failed API call.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Data   map[string]any
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("api: %s (status %d)", e.Detail, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("api: %s: %v", e.Detail, e.Err)
	default:
		return "api: " + e.Detail
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindNone when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNone
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func genericDetail(status int) string {
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// statusError builds the error for a non-2xx response. The body is parsed as
// structured error data; an unparseable body degrades to a generic message.
func statusError(resp *response) *Error {
	kind := KindClient
	if resp.status >= 500 {
		kind = KindServer
	}

	data := map[string]any{}
	if err := json.Unmarshal(resp.body, &data); err != nil || len(data) == 0 {
		data = map[string]any{"detail": genericDetail(resp.status)}
	}

	return &Error{
		Kind:   kind,
		Status: resp.status,
		Detail: detailOf(data, genericDetail(resp.status)),
		Data:   data,
	}
}

func detailOf(data map[string]any, fallback string) string {
	for _, key := range []string{"detail", "message", "error"} {
		if s, ok := data[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
