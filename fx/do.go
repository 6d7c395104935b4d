package fx

import (
	"context"

	"github.com/on-the-ground/fxbox/internal/step"
	"github.com/on-the-ground/fxbox/result"
)

// Scope is the handle a Do body uses to run steps. It carries the context
// and environment of the run that entered the body and is only valid while
// the body runs; afterwards every method panics with step.ErrExhausted.
type Scope[E, R any] struct {
	s   *step.Scope[E]
	ctx context.Context
	env R
}

// Do builds an Fx from a linear sequence of steps.
//
// body runs once per Run, inside an Async step. Bind drives one step with the
// running environment and returns its value; a failing step aborts body
// immediately and its reason becomes the overall failure. If body returns,
// the Fx it returns is the continuation of the run. Releases registered with
// Defer run on every exit path.
//
// A Do sequence is observably equivalent to the same steps chained with
// FlatMap.
//
// Example:
//
//	greeting := fx.Do(func(s *fx.Scope[error, Env]) fx.Fx[string, error, Env] {
//	    n := fx.Bind(s, getNumber())
//	    str := fx.Bind(s, getString())
//	    fx.Bind(s, fx.Sleep[error, Env](time.Second))
//	    return fx.Ok[string, error, Env](fmt.Sprintf("%s: %d", str, n))
//	})
func Do[T, E, R any](body func(*Scope[E, R]) Fx[T, E, R]) Fx[T, E, R] {
	return newAsync(func(ctx context.Context, env R) await[T, E, R] {
		return func() Fx[T, E, R] {
			sc := &Scope[E, R]{s: step.New[E](), ctx: ctx, env: env}
			return step.Drive(sc.s,
				func() Fx[T, E, R] { return body(sc) },
				Err[T, E, R],
			)
		}
	})
}

// Bind runs m with the scope's context and environment. It returns m's value,
// or aborts the surrounding Do with m's failure.
func Bind[T, E, R any](s *Scope[E, R], m Fx[T, E, R]) T {
	s.s.Check()
	return result.Match(drive(s.ctx, m, s.env),
		func(v T) T { return v },
		func(err E) T {
			s.s.Abort(err)
			panic("unreachable")
		},
	)
}

// Env returns the environment of the running sequence.
func (s *Scope[E, R]) Env() R {
	s.s.Check()
	return s.env
}

// Context returns the context of the running sequence.
func (s *Scope[E, R]) Context() context.Context {
	s.s.Check()
	return s.ctx
}

// Fail aborts the surrounding Do with err.
func (s *Scope[E, R]) Fail(err E) {
	s.s.Abort(err)
}

// Defer registers release to run when the surrounding Do exits.
// Releases run in reverse registration order.
func (s *Scope[E, R]) Defer(release func()) {
	s.s.Defer(release)
}
