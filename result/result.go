// Package result provides Result, a box representing either success or
// failure, and Do, a short-circuiting step protocol over results.
package result

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/on-the-ground/fxbox/maybe"
)

// ErrZeroResult is the panic value raised when a Result that was never
// constructed is matched.
var ErrZeroResult = errors.New("result: zero Result matched")

type tag uint8

const (
	tagInvalid tag = iota
	tagOk
	tagErr
)

// Result holds either a success value of type T or a failure reason of type E.
// Results must be built with Ok or Err.
type Result[T, E any] struct {
	tag   tag
	value T
	err   E
}

// Ok returns a box representing success.
func Ok[T, E any](v T) Result[T, E] {
	return Result[T, E]{tag: tagOk, value: v}
}

// Err returns a box representing failure.
func Err[T, E any](err E) Result[T, E] {
	return Result[T, E]{tag: tagErr, err: err}
}

// FromPair bridges the (value, error) convention: a non-nil err becomes Err.
func FromPair[T any](v T, err error) Result[T, error] {
	if err != nil {
		return Err[T](err)
	}
	return Ok[T, error](v)
}

// Match unpacks the box. Both arms are required.
func Match[T, E, U any](r Result[T, E], onOk func(T) U, onErr func(E) U) U {
	switch r.tag {
	case tagOk:
		return onOk(r.value)
	case tagErr:
		return onErr(r.err)
	default:
		panic(ErrZeroResult)
	}
}

// MapOk transforms the success value. Failures pass through unchanged.
func MapOk[T, E, U any](r Result[T, E], f func(T) U) Result[U, E] {
	return Match(r,
		func(v T) Result[U, E] { return Ok[U, E](f(v)) },
		Err[U, E],
	)
}

// MapErr transforms the failure reason. Successes pass through unchanged.
func MapErr[T, E, F any](r Result[T, E], f func(E) F) Result[T, F] {
	return Match(r,
		Ok[T, F],
		func(err E) Result[T, F] { return Err[T](f(err)) },
	)
}

// FlatMapOk chains r into another Result-producing step. f is never called
// when r is a failure.
func FlatMapOk[T, E, U any](r Result[T, E], f func(T) Result[U, E]) Result[U, E] {
	return Match(r, f, Err[U, E])
}

// GetOk projects the success value into a Maybe.
func GetOk[T, E any](r Result[T, E]) maybe.Maybe[T] {
	return Match(r,
		maybe.Some[T],
		func(E) maybe.Maybe[T] { return maybe.None[T]() },
	)
}

// GetErr projects the failure reason into a Maybe.
func GetErr[T, E any](r Result[T, E]) maybe.Maybe[E] {
	return Match(r,
		func(T) maybe.Maybe[E] { return maybe.None[E]() },
		maybe.Some[E],
	)
}

// IsOk reports whether r is a success.
func IsOk[T, E any](r Result[T, E]) bool {
	return Match(r,
		func(T) bool { return true },
		func(E) bool { return false },
	)
}

// IsErr reports whether r is a failure.
func IsErr[T, E any](r Result[T, E]) bool {
	return !IsOk(r)
}

// AssertOk returns the success value or panics with a *maybe.AssertionError
// whose Cause is the failure reason.
func AssertOk[T, E any](r Result[T, E], message ...string) T {
	msg := maybe.DefaultAssertionMessage
	if len(message) > 0 {
		msg = message[0]
	}
	return Match(r,
		func(v T) T { return v },
		func(err E) T { panic(maybe.NewAssertionError(msg, err)) },
	)
}

// All combines a map of results. It returns Ok of the map with every value
// unboxed if all entries succeed; otherwise the first failing entry, in
// ascending key order, is returned as is.
func All[K cmp.Ordered, T, E any](xs map[K]Result[T, E]) Result[map[K]T, E] {
	keys := make([]K, 0, len(xs))
	for k := range xs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(map[K]T, len(xs))
	for _, k := range keys {
		x := xs[k]
		switch x.tag {
		case tagOk:
			out[k] = x.value
		case tagErr:
			return Err[map[K]T](x.err)
		default:
			panic(ErrZeroResult)
		}
	}
	return Ok[map[K]T, E](out)
}

// String implements fmt.Stringer.
func (r Result[T, E]) String() string {
	switch r.tag {
	case tagOk:
		return fmt.Sprintf("Ok(%v)", r.value)
	case tagErr:
		return fmt.Sprintf("Err(%v)", r.err)
	default:
		return "Result(<zero>)"
	}
}
