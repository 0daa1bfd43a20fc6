package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Auth endpoints
const (
	PathCSRF      = "/api/auth/csrf/"
	PathLogin     = "/api/auth/login/"
	PathRefresh   = "/api/auth/refresh/"
	PathLogout    = "/api/auth/logout/"
	PathProfile   = "/api/auth/profile/"
	PathMyProfile = "/api/employees/my_profile/"
)

// isAuthPath reports whether a 401 from path must not trigger a renewal.
func isAuthPath(path string) bool {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return strings.HasSuffix(path, PathRefresh) || strings.HasSuffix(path, PathLogin)
}

// Do executes one logical API call and decodes a successful JSON body into
// out (which may be nil). A 401 on a call made with a token triggers one
// shared token renewal and one replay with the renewed token; the replay's
// result is final. If the session token changed while the call was in
// flight, the call is replayed with it without another renewal. Every other failure is returned as an *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}

	token := c.session.AccessToken.Get()
	resp, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && token != "" && !isAuthPath(path) {
		// A renewal that finished while this request was in flight has
		// already replaced the token it was sent with.
		if current := c.session.AccessToken.Get(); current == token {
			c.logger.Debug("received 401, waiting for token refresh", "method", method, "path", path)

			ticket := c.refresher.RequestRefresh(ctx)
			if _, err := ticket.Wait(ctx); err != nil {
				if errors.Is(err, ErrRefreshFailed) {
					rejected := statusError(resp)
					rejected.Kind = KindAuthRejected
					rejected.Err = err
					return rejected
				}
				return fmt.Errorf("waiting for token refresh: %w", err)
			}
		} else {
			c.logger.Debug("received 401 for a superseded token, replaying", "method", method, "path", path)
		}

		// the session may have moved on while we waited
		retryToken := c.session.AccessToken.Get()
		if retryToken == "" {
			expired := statusError(resp)
			expired.Kind = KindAuthExpired
			return expired
		}

		resp, err = c.send(ctx, method, path, payload, retryToken)
		if err != nil {
			return err
		}
	}

	return decodeResponse(resp, out)
}

func decodeResponse(resp *response, out any) error {
	if !resp.ok() {
		return statusError(resp)
	}
	if out == nil || resp.status == http.StatusNoContent || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &Error{
			Kind:   KindMalformed,
			Status: resp.status,
			Detail: "failed to parse response",
			Err:    err,
		}
	}
	return nil
}
