package result

import "github.com/on-the-ground/fxbox/internal/step"

// Scope is the handle a Do body uses to consume results. It is only valid
// while its body runs; afterwards every method panics with step.ErrExhausted.
type Scope[E any] struct {
	s *step.Scope[E]
}

// Do runs body as a short-circuiting sequence of steps. The first step that
// fails through Bind (or an explicit Fail) aborts the body and becomes the
// result. Otherwise the Result returned by body is the result. Releases
// registered on the scope run on every exit path.
//
// Example:
//
//	total := result.Do(func(s *result.Scope[error]) result.Result[int, error] {
//	    a := result.Bind(s, parse("20"))
//	    b := result.Bind(s, parse("22"))
//	    return result.Ok[int, error](a + b)
//	})
func Do[T, E any](body func(*Scope[E]) Result[T, E]) Result[T, E] {
	sc := &Scope[E]{s: step.New[E]()}
	return step.Drive(sc.s,
		func() Result[T, E] { return body(sc) },
		Err[T, E],
	)
}

// Bind consumes one step: it returns the success value of r, or aborts the
// surrounding Do with r's failure.
func Bind[T, E any](s *Scope[E], r Result[T, E]) T {
	s.s.Check()
	return Match(r,
		func(v T) T { return v },
		func(err E) T {
			s.s.Abort(err)
			panic("unreachable")
		},
	)
}

// Acquire binds r and registers release for the acquired value. release runs
// when the surrounding Do exits, even if a later step aborts it.
func Acquire[T, E any](s *Scope[E], r Result[T, E], release func(T)) T {
	v := Bind(s, r)
	s.Defer(func() { release(v) })
	return v
}

// Fail aborts the surrounding Do with err.
func (s *Scope[E]) Fail(err E) {
	s.s.Abort(err)
}

// Defer registers release to run when the surrounding Do exits.
// Releases run in reverse registration order.
func (s *Scope[E]) Defer(release func()) {
	s.s.Defer(release)
}
