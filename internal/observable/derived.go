package observable

// Derived is a read-only view recomputed from a source whenever the source
// changes. It holds no state of its own beyond the last computed result.
type Derived[T any] struct {
	out   *Value[T]
	unsub func()
}

// Derive builds a view of src through the pure function fn.
func Derive[S, T any](src Readable[S], fn func(S) T) *Derived[T] {
	var zero T
	d := &Derived[T]{out: NewValue(zero)}
	d.unsub = src.Subscribe(func(s S) {
		d.out.Set(fn(s))
	})
	return d
}

// Get returns the most recently computed value.
func (d *Derived[T]) Get() T {
	return d.out.Get()
}

// Subscribe watches the computed value.
func (d *Derived[T]) Subscribe(fn func(T)) func() {
	return d.out.Subscribe(fn)
}

// Stop detaches the view from its source. The last value stays readable.
func (d *Derived[T]) Stop() {
	d.unsub()
}
