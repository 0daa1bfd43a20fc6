package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"github.com/Undertaker4032/secret-lab-app/internal/i18n"
	"github.com/Undertaker4032/secret-lab-app/internal/model"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PrimeCSRF asks the server to set the anti-forgery cookie. Connection
// failures are retried; a response of any status ends the handshake.
func (c *Client) PrimeCSRF(ctx context.Context) error {
	attempt := 0
	op := func() error {
		attempt++
		resp, err := c.send(ctx, http.MethodGet, PathCSRF, nil, "")
		if err != nil {
			if KindOf(err) == KindNetwork {
				c.logger.Warn("CSRF handshake failed", "attempt", attempt, "error", err)
				return err
			}
			return backoff.Permanent(err)
		}
		if !resp.ok() {
			return backoff.Permanent(statusError(resp))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.csrfRetryDelay), uint64(c.csrfAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("csrf handshake: %w", err)
	}
	return nil
}

// Login authenticates and fills the session with the token, the user and the
// employee profile. No bearer token is sent; the CSRF header is.
func (c *Client) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	c.session.AuthLoading.Set(true)
	defer c.session.AuthLoading.Set(false)

	payload, err := encodeBody(LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, PathLogin, payload, "")
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		loginErr := statusError(resp)
		var body map[string]any
		if json.Unmarshal(resp.body, &body) != nil || detailOf(body, "") == "" {
			loginErr.Detail = c.messages.T(i18n.LoginFailed)
		}
		return nil, loginErr
	}

	var data model.LoginResponse
	if err := decodeResponse(resp, &data); err != nil {
		return nil, err
	}
	if data.Access == "" {
		return nil, &Error{Kind: KindMalformed, Status: resp.status, Detail: "login response has no access token"}
	}

	c.session.AccessToken.Set(data.Access)
	if c.mode == AuthModeBody && data.Refresh != "" {
		c.session.RefreshToken.Set(data.Refresh)
	}
	user := data.User
	c.session.User.Set(&user)

	if data.Employee != nil {
		c.session.Employee.Set(data.Employee)
	} else {
		// placeholder or absence is recorded by GetEmployeeData itself
		_, _ = c.GetEmployeeData(ctx)
	}

	c.logger.Info("logged in", "username", data.User.Username)
	return &data, nil
}

// Logout notifies the server and then clears the session. The notification
// is best-effort; its failure is logged and the session is cleared anyway.
func (c *Client) Logout(ctx context.Context) {
	defer c.session.Clear()

	var body any
	if rt := c.session.RefreshToken.Get(); c.mode == AuthModeBody && rt != "" {
		body = logoutRequest{RefreshToken: rt}
	}
	payload, err := encodeBody(body)
	if err != nil {
		c.logger.Warn("logout notification skipped", "error", err)
		return
	}

	resp, err := c.send(ctx, http.MethodPost, PathLogout, payload, c.session.AccessToken.Get())
	if err != nil {
		c.logger.Warn("logout notification failed", "error", err)
		return
	}
	if !resp.ok() {
		c.logger.Warn("logout notification rejected", "status", resp.status)
	}
}

// GetUserProfile loads the current user record into the session. Both a bare
// user object and one wrapped as {"user": ...} are accepted.
func (c *Client) GetUserProfile(ctx context.Context) (*model.User, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, PathProfile, nil, &raw); err != nil {
		return nil, err
	}

	var envelope struct {
		User *model.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.User != nil {
		c.session.User.Set(envelope.User)
		return envelope.User, nil
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, &Error{Kind: KindMalformed, Status: http.StatusOK, Detail: "failed to parse profile", Err: err}
	}
	c.session.User.Set(&user)
	return &user, nil
}

// GetEmployeeData loads the caller's employee profile into the session. If
// the fetch fails while a user is signed in, a placeholder profile is stored
// and returned instead so that dependent views stay renderable; the failure
// is logged. With nobody signed in the profile is cleared and the error
// returned.
func (c *Client) GetEmployeeData(ctx context.Context) (*model.Employee, error) {
	var e model.Employee
	err := c.Do(ctx, http.MethodGet, PathMyProfile, nil, &e)
	if err == nil {
		c.session.Employee.Set(&e)
		return &e, nil
	}

	c.logger.Warn("failed to get employee data", "error", err)

	if c.session.User.Get() != nil {
		placeholder := model.PlaceholderEmployee()
		c.session.Employee.Set(placeholder)
		return placeholder, nil
	}

	c.session.Employee.Set(nil)
	return nil, err
}

// LoadSession runs the startup sequence: restore persisted state, prime the
// CSRF cookie and, when a token is present, reload the user and employee
// profile. A rejected profile load clears the session; a network failure
// keeps it. AuthLoading is false when LoadSession returns.
func (c *Client) LoadSession(ctx context.Context) error {
	defer c.session.AuthLoading.Set(false)

	c.session.Hydrate()

	if err := c.PrimeCSRF(ctx); err != nil {
		return err
	}

	if c.session.AccessToken.Get() == "" {
		return nil
	}

	if _, err := c.GetUserProfile(ctx); err != nil {
		if KindOf(err) != KindNetwork {
			c.logger.Warn("stored session rejected, clearing", "error", err)
			c.session.Clear()
		}
		return fmt.Errorf("failed to load user profile: %w", err)
	}

	_, _ = c.GetEmployeeData(ctx)
	return nil
}

// renew performs one call to the renewal endpoint using the configured
// transport.
func (c *Client) renew(ctx context.Context) (RenewResult, error) {
	var body any
	if c.mode == AuthModeBody {
		rt := c.session.RefreshToken.Get()
		if rt == "" {
			return RenewResult{}, errors.New("no refresh token stored")
		}
		body = refreshRequest{Refresh: rt}
	}

	payload, err := encodeBody(body)
	if err != nil {
		return RenewResult{}, err
	}

	resp, err := c.send(ctx, http.MethodPost, PathRefresh, payload, "")
	if err != nil {
		return RenewResult{}, err
	}

	var data model.RefreshResponse
	if err := decodeResponse(resp, &data); err != nil {
		return RenewResult{}, err
	}
	result := RenewResult{Access: data.Access}
	if c.mode == AuthModeBody {
		result.Refresh = data.Refresh
	}
	return result, nil
}
