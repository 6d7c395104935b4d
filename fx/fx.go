// Package fx provides Fx, a single value that combines reading an
// environment, failing with a typed reason and suspending on asynchronous
// work.
//
// An Fx is in one of four states:
//
//   - Ok: finished with a value
//   - Err: finished with a failure reason
//   - Sync: needs the environment to synchronously produce the next Fx
//   - Async: needs the environment to asynchronously produce the next Fx
//
// Nothing happens until Run is called. Run threads the same environment
// through every step, and the await of an Async step is the only place a
// run suspends. Failures short-circuit every composition and are never
// retried or recovered inside a chain: match on the Result returned by Run.
//
// Example:
//
//	double := fx.FlatMap(fx.Ask[Env, error](), func(env Env) fx.Fx[int, error, Env] {
//	    return fx.Ok[int, error, Env](env.N * 2)
//	})
//	res := double.Run(ctx, Env{N: 21}) // Ok(42)
package fx

import (
	"context"
	"errors"
	"time"

	"github.com/on-the-ground/fxbox/internal/helper"
)

// ErrZeroFx is the panic value raised when an Fx that was never constructed
// is composed or run.
var ErrZeroFx = errors.New("fx: zero Fx used")

// Kind identifies the state of an Fx.
type Kind uint8

const (
	KindOk Kind = iota + 1
	KindErr
	KindSync
	KindAsync
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "Ok"
	case KindErr:
		return "Err"
	case KindSync:
		return "Sync"
	case KindAsync:
		return "Async"
	default:
		return "Invalid"
	}
}

// Fx is a computation producing T, failing with E, and requiring an
// environment R. Values are immutable and safe to share between goroutines.
type Fx[T, E, R any] struct {
	s *state[T, E, R]
}

// await blocks until the next Fx of an Async step is available.
type await[T, E, R any] func() Fx[T, E, R]

type state[T, E, R any] struct {
	kind  Kind
	value T
	err   E
	sync  func(R) Fx[T, E, R]
	async func(context.Context, R) await[T, E, R]
}

func (m Fx[T, E, R]) mustState() *state[T, E, R] {
	if m.s == nil {
		panic(ErrZeroFx)
	}
	return m.s
}

// Kind reports the state of m without running it.
func (m Fx[T, E, R]) Kind() Kind {
	return m.mustState().kind
}

// Ok returns a finished computation holding v.
func Ok[T, E, R any](v T) Fx[T, E, R] {
	return Fx[T, E, R]{s: &state[T, E, R]{kind: KindOk, value: v}}
}

// Of is an alias of Ok.
func Of[T, E, R any](v T) Fx[T, E, R] {
	return Ok[T, E, R](v)
}

// Err returns a finished computation that failed with err.
func Err[T, E, R any](err E) Fx[T, E, R] {
	return Fx[T, E, R]{s: &state[T, E, R]{kind: KindErr, err: err}}
}

// Sync returns a step that synchronously derives the next Fx from the
// environment.
func Sync[T, E, R any](f func(env R) Fx[T, E, R]) Fx[T, E, R] {
	return Fx[T, E, R]{s: &state[T, E, R]{kind: KindSync, sync: f}}
}

// Async returns a step that asynchronously derives the next Fx from the
// environment. f must deliver exactly one Fx on the returned channel; the run
// suspends until it does. ctx is the context passed to Run, for the step to
// enforce its own deadlines.
func Async[T, E, R any](f func(ctx context.Context, env R) <-chan Fx[T, E, R]) Fx[T, E, R] {
	return newAsync(func(ctx context.Context, env R) await[T, E, R] {
		ch := f(ctx, env)
		return func() Fx[T, E, R] { return <-ch }
	})
}

// AsyncFunc returns an Async step that runs f on its own goroutine. A panic
// in f is re-raised in the goroutine driving the run.
func AsyncFunc[T, E, R any](f func(ctx context.Context, env R) Fx[T, E, R]) Fx[T, E, R] {
	return newAsync(func(ctx context.Context, env R) await[T, E, R] {
		ch := make(chan outcome[T, E, R], 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					ch <- outcome[T, E, R]{panicked: true, panicValue: r}
				}
			}()
			ch <- outcome[T, E, R]{next: f(ctx, env)}
		}()
		return func() Fx[T, E, R] {
			o := <-ch
			if o.panicked {
				panic(o.panicValue)
			}
			return o.next
		}
	})
}

type outcome[T, E, R any] struct {
	next       Fx[T, E, R]
	panicked   bool
	panicValue any
}

// Sleep returns an Async step that succeeds after d. A sleep cut short
// because the run's context is done also succeeds: downstream steps cannot
// tell it from a completed delay. Use SleepOr to fail instead.
func Sleep[E, R any](d time.Duration) Fx[struct{}, E, R] {
	return SleepOr[E, R](d, nil)
}

// SleepOr is Sleep, except that when the run's context is done before d
// elapses the step fails with onDone applied to the context's error.
// A nil onDone behaves like Sleep.
func SleepOr[E, R any](d time.Duration, onDone func(error) E) Fx[struct{}, E, R] {
	return AsyncFunc(func(ctx context.Context, _ R) Fx[struct{}, E, R] {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			if onDone != nil {
				return Err[struct{}, E, R](onDone(ctx.Err()))
			}
		}
		return Ok[struct{}, E, R](struct{}{})
	})
}

// Ask returns a step that reads the environment and succeeds with it.
func Ask[R, E any]() Fx[R, E, R] {
	return Sync(Ok[R, E, R])
}

func newAsync[T, E, R any](f func(context.Context, R) await[T, E, R]) Fx[T, E, R] {
	return Fx[T, E, R]{s: &state[T, E, R]{kind: KindAsync, async: f}}
}

// FlatMap chains m into the computation produced by f. A failure of m
// propagates untouched and f is never called. Sync and Async steps stay
// lazy and keep their kind: f is applied to whatever they resolve to.
func FlatMap[T, U, E, R any](m Fx[T, E, R], f func(T) Fx[U, E, R]) Fx[U, E, R] {
	s := m.mustState()
	switch s.kind {
	case KindOk:
		return f(s.value)
	case KindErr:
		return Err[U, E, R](s.err)
	case KindSync:
		return Sync(func(env R) Fx[U, E, R] {
			return FlatMap(s.sync(env), f)
		})
	default:
		return newAsync(func(ctx context.Context, env R) await[U, E, R] {
			next := s.async(ctx, env)
			return func() Fx[U, E, R] { return FlatMap(next(), f) }
		})
	}
}

// Map transforms the value of m once it is available.
func Map[T, U, E, R any](m Fx[T, E, R], f func(T) U) Fx[U, E, R] {
	return FlatMap(m, func(v T) Fx[U, E, R] { return Ok[U, E, R](f(v)) })
}

// MapErr transforms the failure reason of m, wherever along the chain it
// occurs.
func MapErr[T, E, F, R any](m Fx[T, E, R], f func(E) F) Fx[T, F, R] {
	s := m.mustState()
	switch s.kind {
	case KindOk:
		return Ok[T, F, R](s.value)
	case KindErr:
		return Err[T, F, R](f(s.err))
	case KindSync:
		return Sync(func(env R) Fx[T, F, R] {
			return MapErr(s.sync(env), f)
		})
	default:
		return newAsync(func(ctx context.Context, env R) await[T, F, R] {
			next := s.async(ctx, env)
			return func() Fx[T, F, R] { return MapErr(next(), f) }
		})
	}
}

// Widen lifts m into a computation over the wider environment W. Every step
// receives the environment unchanged; a step panics with
// helper.ErrUnexpectedType if the W value does not satisfy R.
func Widen[W, T, E, R any](m Fx[T, E, R]) Fx[T, E, W] {
	s := m.mustState()
	switch s.kind {
	case KindOk:
		return Ok[T, E, W](s.value)
	case KindErr:
		return Err[T, E, W](s.err)
	case KindSync:
		return Sync(func(env W) Fx[T, E, W] {
			return Widen[W](s.sync(helper.MustGetTypedValue[R](env)))
		})
	default:
		return newAsync(func(ctx context.Context, env W) await[T, E, W] {
			next := s.async(ctx, helper.MustGetTypedValue[R](env))
			return func() Fx[T, E, W] { return Widen[W](next()) }
		})
	}
}
