// Package reader provides Reader, a deferred computation that needs an
// environment to produce its result.
//
// A Reader is the dependency-injection box of this module: it describes what
// to do with an environment without having one yet. Running it is pure and
// total given an environment; Readers neither fail nor suspend.
//
// Environment requirements are expressed as interfaces. A chain that needs
// several of them runs against an interface embedding each one, and Widen
// lifts a Reader written against one requirement into the wider environment.
package reader

import (
	"errors"

	"github.com/on-the-ground/fxbox/internal/helper"
)

// ErrZeroReader is the panic value raised when a Reader that was never
// constructed is run.
var ErrZeroReader = errors.New("reader: zero Reader run")

// Reader wraps a function from an environment E to a result T.
type Reader[E, T any] struct {
	run func(E) T
}

// New wraps f as a Reader.
func New[E, T any](f func(E) T) Reader[E, T] {
	return Reader[E, T]{run: f}
}

// Ask returns the Reader that gives back its environment unmodified.
func Ask[E any]() Reader[E, E] {
	return New(func(env E) E { return env })
}

// Of returns a Reader that ignores its environment and yields v.
func Of[E, T any](v T) Reader[E, T] {
	return New(func(E) T { return v })
}

// Run executes the Reader against env.
func (r Reader[E, T]) Run(env E) T {
	if r.run == nil {
		panic(ErrZeroReader)
	}
	return r.run(env)
}

// Map post-transforms the result of r without touching its requirement.
func Map[E, T, U any](r Reader[E, T], f func(T) U) Reader[E, U] {
	return New(func(env E) U { return f(r.Run(env)) })
}

// FlatMap chains r into the Reader produced by f. Both run against the same
// environment.
func FlatMap[E, T, U any](r Reader[E, T], f func(T) Reader[E, U]) Reader[E, U] {
	return New(func(env E) U { return f(r.Run(env)).Run(env) })
}

// Widen lifts r into a Reader over the wider environment W. The environment
// is handed to r unchanged; it panics with helper.ErrUnexpectedType if a W
// value does not satisfy E.
func Widen[W, E, T any](r Reader[E, T]) Reader[W, T] {
	return New(func(env W) T {
		return r.Run(helper.MustGetTypedValue[E](env))
	})
}
