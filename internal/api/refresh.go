package api

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Undertaker4032/secret-lab-app/internal/logging"
	"github.com/Undertaker4032/secret-lab-app/internal/session"
)

// RefreshState is the coordinator's state.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshInFlight
)

func (s RefreshState) String() string {
	if s == RefreshInFlight {
		return "refreshing"
	}
	return "idle"
}

// RenewResult is what a successful renewal call returns.
type RenewResult struct {
	Access  string
	Refresh string
}

// RenewFunc performs one renewal call against the server.
type RenewFunc func(ctx context.Context) (RenewResult, error)

// Ticket is the shared handle of one in-flight renewal. Every caller that
// asked for a refresh while it was pending holds the same Ticket and sees
// the same outcome.
type Ticket struct {
	done  chan struct{}
	token string
	ok    bool
}

func newTicket() *Ticket {
	return &Ticket{done: make(chan struct{})}
}

func (t *Ticket) resolve(token string, ok bool) {
	t.token = token
	t.ok = ok
	close(t.done)
}

// Done is closed once the renewal has finished.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Result returns the new token and whether the renewal succeeded. It must
// only be called after Done is closed.
func (t *Ticket) Result() (string, bool) {
	<-t.done
	return t.token, t.ok
}

// Wait blocks until the renewal finishes or ctx ends. A failed renewal
// returns ErrRefreshFailed. Abandoning the wait does not cancel the renewal.
func (t *Ticket) Wait(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-t.done:
		if !t.ok {
			return "", ErrRefreshFailed
		}
		return t.token, nil
	}
}

// RefreshCoordinator guarantees at most one renewal call in flight. It is
// either idle or holding exactly one outstanding Ticket.
type RefreshCoordinator struct {
	renew   RenewFunc
	session *session.Session
	logger  *slog.Logger
	timeout time.Duration

	mu       sync.Mutex
	current  *Ticket
	renewals atomic.Int64
	requests atomic.Int64
}

// NewRefreshCoordinator creates a coordinator that calls renew and records
// the outcome in sess. timeout bounds each renewal call.
func NewRefreshCoordinator(renew RenewFunc, sess *session.Session, logger *slog.Logger, timeout time.Duration) *RefreshCoordinator {
	return &RefreshCoordinator{
		renew:   renew,
		session: sess,
		logger:  logging.OrDiscard(logger),
		timeout: timeout,
	}
}

// State reports whether a renewal is pending.
func (rc *RefreshCoordinator) State() RefreshState {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.current != nil {
		return RefreshInFlight
	}
	return RefreshIdle
}

// Renewals counts renewal calls started since creation.
func (rc *RefreshCoordinator) Renewals() int64 {
	return rc.renewals.Load()
}

// Requests counts RequestRefresh calls, joined or not.
func (rc *RefreshCoordinator) Requests() int64 {
	return rc.requests.Load()
}

// RequestRefresh returns the pending Ticket, starting a renewal when idle.
// The renewal runs detached from ctx's cancellation so that one caller giving
// up does not fail every other waiter; ctx values are kept.
func (rc *RefreshCoordinator) RequestRefresh(ctx context.Context) *Ticket {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.requests.Add(1)

	if rc.current != nil {
		return rc.current
	}

	t := newTicket()
	rc.current = t
	rc.renewals.Add(1)

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rc.timeout)
	go func() {
		defer cancel()
		rc.run(runCtx, t)
	}()

	return t
}

func (rc *RefreshCoordinator) run(ctx context.Context, t *Ticket) {
	rc.logger.Info("refreshing access token")

	result, err := rc.renew(ctx)
	if err == nil && result.Access == "" {
		err = ErrRefreshFailed
	}

	if err != nil {
		rc.logger.Warn("token refresh failed, clearing session", "error", err)
		rc.session.Clear()
		rc.finish(t, "", false)
		return
	}

	rc.session.AccessToken.Set(result.Access)
	if result.Refresh != "" {
		rc.session.RefreshToken.Set(result.Refresh)
	}
	rc.logger.Info("access token refreshed")
	rc.finish(t, result.Access, true)
}

// finish returns the coordinator to idle before waking the waiters, so a
// waiter that immediately faults again starts a fresh renewal.
func (rc *RefreshCoordinator) finish(t *Ticket, token string, ok bool) {
	rc.mu.Lock()
	if rc.current == t {
		rc.current = nil
	}
	rc.mu.Unlock()
	t.resolve(token, ok)
}
