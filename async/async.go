// Package async provides Async, a box representing a value that is either
// still pending or ready to be used.
//
// Async mirrors maybe.Maybe on purpose but stays a separate type, so that
// "there is no value" and "the value is not there yet" never get mixed up.
// It is handy for carrying loading state through value transformations.
// The zero value is Pending.
package async

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/on-the-ground/fxbox/maybe"
)

// Async holds either a ready value of type T or nothing yet.
type Async[T any] struct {
	value   T
	isReady bool
}

// Pending returns a box representing a value that is not available yet.
func Pending[T any]() Async[T] {
	return Async[T]{}
}

// Ready returns a box containing a value ready to be used.
func Ready[T any](v T) Async[T] {
	return Async[T]{value: v, isReady: true}
}

// Match unpacks the box. Both arms are required.
func Match[T, U any](a Async[T], onReady func(T) U, onPending func() U) U {
	if a.isReady {
		return onReady(a.value)
	}
	return onPending()
}

// MapReady applies f to the value once it is ready.
func MapReady[T, U any](a Async[T], f func(T) U) Async[U] {
	return Match(a,
		func(v T) Async[U] { return Ready(f(v)) },
		Pending[U],
	)
}

// FlatMapReady is like MapReady, but f returns a box of its own, so a ready
// value can turn back into a pending one.
func FlatMapReady[T, U any](a Async[T], f func(T) Async[U]) Async[U] {
	return Match(a, f, Pending[U])
}

// GetReady turns the box into a Maybe. Do it right before the value is used:
// converting early throws away the difference between pending and absent.
func GetReady[T any](a Async[T]) maybe.Maybe[T] {
	return Match(a, maybe.Some[T], maybe.None[T])
}

// IsReady reports whether the value is ready.
func IsReady[T any](a Async[T]) bool {
	return Match(a,
		func(T) bool { return true },
		func() bool { return false },
	)
}

// IsPending reports whether the value is still pending.
func IsPending[T any](a Async[T]) bool {
	return !IsReady(a)
}

// All combines a map of boxes into Ready of the unboxed map if every entry is
// ready, or Pending as soon as a pending entry is found in ascending key order.
func All[K cmp.Ordered, T any](xs map[K]Async[T]) Async[map[K]T] {
	keys := make([]K, 0, len(xs))
	for k := range xs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(map[K]T, len(xs))
	for _, k := range keys {
		x := xs[k]
		if !x.isReady {
			return Pending[map[K]T]()
		}
		out[k] = x.value
	}
	return Ready(out)
}

// String implements fmt.Stringer.
func (a Async[T]) String() string {
	return Match(a,
		func(v T) string { return fmt.Sprintf("Ready(%v)", v) },
		func() string { return "Pending" },
	)
}
