package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Undertaker4032/secret-lab-app/internal/i18n"
	"github.com/Undertaker4032/secret-lab-app/internal/logging"
	"github.com/Undertaker4032/secret-lab-app/internal/session"
)

// MaxResponseSize caps how much of a response body is read (1 MiB)
const MaxResponseSize int64 = 1 << 20

// ErrResponseTooLarge is returned when a response body exceeds MaxResponseSize
var ErrResponseTooLarge = errors.New("response body exceeds maximum allowed size")

// AuthMode selects where the refresh token lives.
type AuthMode string

const (
	// AuthModeCookie keeps the refresh token in an HttpOnly cookie; renewal
	// sends no body.
	AuthModeCookie AuthMode = "cookie"
	// AuthModeBody keeps both tokens client-side; renewal sends the refresh
	// token in the body.
	AuthModeBody AuthMode = "body"
)

// ParseAuthMode validates a configured mode. Empty means cookie.
func ParseAuthMode(s string) (AuthMode, error) {
	switch AuthMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AuthModeCookie:
		return AuthModeCookie, nil
	case AuthModeBody:
		return AuthModeBody, nil
	default:
		return "", fmt.Errorf("unknown auth mode %q (expected cookie or body)", s)
	}
}

// Client talks to the intranet API on behalf of one session.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    *session.Session
	refresher  *RefreshCoordinator
	mode       AuthMode
	logger     *slog.Logger
	messages   *i18n.Localizer
	lookups    singleflight.Group

	csrfAttempts   int
	csrfRetryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. A cookie jar is added when
// the client has none, since the API relies on cookies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithAuthMode selects the token transport.
func WithAuthMode(mode AuthMode) Option {
	return func(c *Client) { c.mode = mode }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithLocalizer sets the language of user-facing messages.
func WithLocalizer(l *i18n.Localizer) Option {
	return func(c *Client) { c.messages = l }
}

// WithCSRFRetry sets how many times the CSRF handshake is attempted and the
// pause between attempts.
func WithCSRFRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.csrfAttempts = attempts
		c.csrfRetryDelay = delay
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, sess *session.Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}
	if sess == nil {
		return nil, errors.New("session is required")
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		session:        sess,
		mode:           AuthModeCookie,
		csrfAttempts:   3,
		csrfRetryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	c.logger = logging.OrDiscard(c.logger)
	if c.messages == nil {
		c.messages = i18n.Default()
	}
	if c.csrfAttempts < 1 {
		c.csrfAttempts = 1
	}

	timeout := c.httpClient.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c.refresher = NewRefreshCoordinator(c.renew, sess, c.logger, timeout)

	return c, nil
}

// Session returns the session the client reads credentials from.
func (c *Client) Session() *session.Session {
	return c.session
}

// Refresher returns the client's refresh coordinator.
func (c *Client) Refresher() *RefreshCoordinator {
	return c.refresher
}

// AuthMode returns the configured token transport.
func (c *Client) AuthMode() AuthMode {
	return c.mode
}

// BaseURL returns the API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// response is a fully read HTTP response.
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL.String() + path
}

// csrfToken reads the anti-forgery cookie for the API origin.
func (c *Client) csrfToken() string {
	return CSRFToken(c.httpClient.Jar, c.baseURL)
}

// send issues exactly one HTTP request with headers built from token and the
// current CSRF cookie, and reads the whole body.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = BuildHeaders(method, token, c.csrfToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return nil, &Error{Kind: KindNetwork, Detail: "failed to connect to server", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := readLimitedResponse(resp.Body, MaxResponseSize)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Status: resp.StatusCode, Detail: err.Error(), Err: err}
	}

	c.logger.Debug("request completed", "method", method, "path", path, "status", resp.StatusCode)
	return &response{status: resp.StatusCode, body: data}, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}

// readLimitedResponse reads up to maxSize bytes from r.
func readLimitedResponse(r io.Reader, maxSize int64) ([]byte, error) {
	limited := io.LimitReader(r, maxSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > maxSize {
		return nil, ErrResponseTooLarge
	}
	return body, nil
}
