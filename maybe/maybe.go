// Package maybe provides Maybe, a box representing either presence or
// absence of a value.
//
// The box is opaque: Match is the only way to look inside, and every other
// operation in this package is built on top of it. The zero value is None.
package maybe

import (
	"cmp"
	"fmt"
	"slices"
)

// Maybe holds either some value of type T or nothing.
type Maybe[T any] struct {
	value  T
	isSome bool
}

// None returns a box representing absence of a value.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Some returns a box containing v.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, isSome: true}
}

// Match unpacks the box. Both arms are required: onSome receives the value,
// onNone is called when there is none.
func Match[T, U any](m Maybe[T], onSome func(T) U, onNone func() U) U {
	if m.isSome {
		return onSome(m.value)
	}
	return onNone()
}

// MapSome applies f to the value inside the box, if there is one.
func MapSome[T, U any](m Maybe[T], f func(T) U) Maybe[U] {
	return Match(m,
		func(v T) Maybe[U] { return Some(f(v)) },
		None[U],
	)
}

// FlatMapSome is like MapSome, but f returns a box of its own. This lets a
// present value become absent depending on what it is.
func FlatMapSome[T, U any](m Maybe[T], f func(T) Maybe[U]) Maybe[U] {
	return Match(m, f, None[U])
}

// GetOr returns the boxed value, or the result of fallback if there is none.
func GetOr[T any](m Maybe[T], fallback func() T) T {
	return Match(m, func(v T) T { return v }, fallback)
}

// ToPointer returns a pointer to a copy of the boxed value, or nil.
func ToPointer[T any](m Maybe[T]) *T {
	return Match(m,
		func(v T) *T { return &v },
		func() *T { return nil },
	)
}

// ToOptional returns the boxed value and true, or the zero value and false.
func ToOptional[T any](m Maybe[T]) (T, bool) {
	v := GetOr(m, func() (zero T) { return })
	return v, IsSome(m)
}

// FromPointer boxes *p, or returns None for a nil pointer.
func FromPointer[T any](p *T) Maybe[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// FromOptional boxes v if ok is true.
func FromOptional[T any](v T, ok bool) Maybe[T] {
	if !ok {
		return None[T]()
	}
	return Some(v)
}

// IsSome reports whether the box holds a value.
func IsSome[T any](m Maybe[T]) bool {
	return Match(m,
		func(T) bool { return true },
		func() bool { return false },
	)
}

// IsNone reports whether the box is empty.
func IsNone[T any](m Maybe[T]) bool {
	return !IsSome(m)
}

// AssertSome returns the boxed value or panics with an *AssertionError.
// The message defaults to "Assertion failed".
func AssertSome[T any](m Maybe[T], message ...string) T {
	return Match(m,
		func(v T) T { return v },
		func() T { panic(NewAssertionError(messageOr(message), nil)) },
	)
}

// All combines a map of boxes. It returns Some of the map with every value
// unboxed if all entries are present, or None as soon as an absent entry is
// found. Keys are visited in ascending order.
func All[K cmp.Ordered, T any](xs map[K]Maybe[T]) Maybe[map[K]T] {
	out := make(map[K]T, len(xs))
	for _, k := range sortedKeys(xs) {
		x := xs[k]
		if !x.isSome {
			return None[map[K]T]()
		}
		out[k] = x.value
	}
	return Some(out)
}

// String implements fmt.Stringer.
func (m Maybe[T]) String() string {
	return Match(m,
		func(v T) string { return fmt.Sprintf("Some(%v)", v) },
		func() string { return "None" },
	)
}

func sortedKeys[K cmp.Ordered, V any](xs map[K]V) []K {
	keys := make([]K, 0, len(xs))
	for k := range xs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
