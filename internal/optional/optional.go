// Package optional provides an explicit present-or-absent value type used by
// lookups that may miss.
package optional

// Value holds either a present value of type T or nothing.
// The zero Value is absent.
type Value[T any] struct {
	v  T
	ok bool
}

// Some returns a present Value holding v.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the held value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsPresent reports whether o holds a value.
func (o Value[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the held value, or def when absent.
func (o Value[T]) OrElse(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// Or returns o when present, otherwise the result of next.
//
// Postcondition: next is only invoked when o is absent.
func (o Value[T]) Or(next func() Value[T]) Value[T] {
	if o.ok {
		return o
	}
	return next()
}
