// Package liststore keeps the observable state of one filtered, paginated list
// resource: its items, loading flag, error message, applied filters and total
// count.
package liststore

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Undertaker4032/secret-lab-app/internal/filters"
	"github.com/Undertaker4032/secret-lab-app/internal/logging"
	"github.com/Undertaker4032/secret-lab-app/internal/model"
	"github.com/Undertaker4032/secret-lab-app/internal/observable"
)

// Fetcher loads one page of a resource for a filter set.
type Fetcher[T any] func(ctx context.Context, set filters.Set) (*model.Page[T], error)

// Option configures a Store.
type Option func(*options)

type options struct {
	dropStale bool
	logger    *slog.Logger
	message   string
}

// WithDropStale discards a fetch result when a newer fetch was started before
// it completed. By default the last completion wins.
func WithDropStale() Option {
	return func(o *options) { o.dropStale = true }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithErrorMessage sets the user-facing message stored on failure.
func WithErrorMessage(msg string) Option {
	return func(o *options) { o.message = msg }
}

// Store holds the state of one list resource. Each field is an independent
// observable; Items, Count and Filters are replaced together on success.
type Store[T any] struct {
	Items   *observable.Value[[]T]
	Loading *observable.Value[bool]
	Error   *observable.Value[string]
	Filters *observable.Value[filters.Set]
	Count   *observable.Value[int]

	catalog filters.Catalog
	fetch   Fetcher[T]
	opts    options
	seq     atomic.Uint64

	// mu serializes applying completed fetches
	mu sync.Mutex
}

// New creates an empty store for the resource described by catalog.
func New[T any](catalog filters.Catalog, fetch Fetcher[T], opts ...Option) *Store[T] {
	o := options{message: "failed to load " + catalog.Resource}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.OrDiscard(o.logger)

	return &Store[T]{
		Items:   observable.NewValue([]T{}),
		Loading: observable.NewValue(false),
		Error:   observable.NewValue(""),
		Filters: observable.NewValue(filters.Set{}),
		Count:   observable.NewValue(0),
		catalog: catalog,
		fetch:   fetch,
		opts:    o,
	}
}

// Catalog returns the resource's filter catalog.
func (s *Store[T]) Catalog() filters.Catalog {
	return s.catalog
}

// Fetch loads the list for set. Constraints the resource does not accept are
// dropped first. On success the items, count and filters are replaced; on
// failure the items are emptied, the localized message is stored and the
// filters and count keep their previous values. The returned error is the
// underlying failure, for callers that need more than the message.
//
// Results are applied one at a time, so subscribers must not call Fetch
// synchronously from a notification.
func (s *Store[T]) Fetch(ctx context.Context, set filters.Set) error {
	set = s.catalog.Restrict(set)
	seq := s.seq.Add(1)

	s.Loading.Set(true)
	s.Error.Set("")

	page, err := s.fetch(ctx, set)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.dropStale && s.seq.Load() != seq {
		s.opts.logger.Debug("discarding stale list result", "resource", s.catalog.Resource, "query", set.Encode())
		return err
	}
	defer s.Loading.Set(false)

	if err != nil {
		s.opts.logger.Warn("list fetch failed", "resource", s.catalog.Resource, "query", set.Encode(), "error", err)
		s.Items.Set([]T{})
		s.Error.Set(s.opts.message)
		return err
	}

	items := page.Results
	if items == nil {
		items = []T{}
	}
	s.Items.Set(items)
	s.Count.Set(page.Count)
	s.Filters.Set(set)
	return nil
}

// UpdateFilters overlays partial onto the applied filters and fetches the
// result. Empty values (nil, "", false) and keys the resource does not accept
// are dropped from partial first, so an empty value leaves an applied key
// untouched; use RemoveFilters to drop one. The applied filters only change
// if the fetch succeeds.
func (s *Store[T]) UpdateFilters(ctx context.Context, partial map[string]any) error {
	allowed := make(map[string]any, len(partial))
	for k, v := range partial {
		if s.catalog.Allows(k) {
			allowed[k] = v
		}
	}
	return s.Fetch(ctx, s.Filters.Get().Merge(filters.Clean(allowed)))
}

// RemoveFilters drops keys from the applied filters and fetches the result.
func (s *Store[T]) RemoveFilters(ctx context.Context, keys ...string) error {
	next := s.Filters.Get()
	for _, k := range keys {
		next = next.Without(k)
	}
	return s.Fetch(ctx, next)
}

// ClearFilters fetches the unfiltered list.
func (s *Store[T]) ClearFilters(ctx context.Context) error {
	return s.Fetch(ctx, filters.Set{})
}
