// Package observable provides a small publish/subscribe state cell and
// read-only views computed from it.
package observable

import (
	"sync"
	"sync/atomic"
)

// Readable is anything that can be read and watched.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func(T)) (unsubscribe func())
}

type subscriber[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// Value is a versioned state cell. Writes are serialized and subscribers are
// notified synchronously, in subscription order, before Set returns.
//
// A subscriber callback must not call Set, Update or Subscribe on the Value
// that is notifying it. Get and unsubscribe are safe from a callback.
type Value[T any] struct {
	writeMu sync.Mutex // held for a whole write+notify cycle

	mu      sync.RWMutex
	value   T
	version uint64
	subs    []*subscriber[T]
}

// NewValue creates a cell holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Version returns the number of writes applied so far.
func (v *Value[T]) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// Set replaces the value and notifies every subscriber.
func (v *Value[T]) Set(value T) {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	v.store(value)
}

// Update applies fn to the current value and stores the result as one write.
func (v *Value[T]) Update(fn func(T) T) {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	v.store(fn(v.Get()))
}

func (v *Value[T]) store(value T) {
	v.mu.Lock()
	v.value = value
	v.version++
	subs := make([]*subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		if s.active.Load() {
			s.fn(value)
		}
	}
}

// Subscribe calls fn with the current value immediately and then with every
// later value. The returned function detaches fn; calling it twice is harmless.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	s := &subscriber[T]{fn: fn}
	s.active.Store(true)

	v.mu.Lock()
	v.subs = append(v.subs, s)
	current := v.value
	v.mu.Unlock()

	fn(current)

	return func() {
		if !s.active.Swap(false) {
			return
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, other := range v.subs {
			if other == s {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				break
			}
		}
	}
}

// Subscribers reports how many callbacks are attached.
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}
