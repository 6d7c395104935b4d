package reader

import "github.com/on-the-ground/fxbox/internal/step"

// Scope is the handle a Do body uses to read its environment. It is only
// valid while its body runs.
type Scope[E any] struct {
	s   *step.Scope[struct{}]
	env E
}

// Do builds a Reader from a sequence of steps. Every run gets a fresh scope
// carrying the environment; the value returned by body is the result.
//
// Example:
//
//	answer := reader.Do(func(s *reader.Scope[Env]) string {
//	    n := reader.Bind(s, numberFromEnv())
//	    return fmt.Sprint(n)
//	})
func Do[E, T any](body func(*Scope[E]) T) Reader[E, T] {
	return New(func(env E) T {
		sc := &Scope[E]{s: step.New[struct{}](), env: env}
		return step.Drive(sc.s,
			func() T { return body(sc) },
			func(struct{}) T { panic("reader: scopes never abort") },
		)
	})
}

// Bind runs r against the scope's environment and returns its result.
func Bind[E, T any](s *Scope[E], r Reader[E, T]) T {
	s.s.Check()
	return r.Run(s.env)
}

// Env returns the environment the surrounding Do runs with.
func (s *Scope[E]) Env() E {
	s.s.Check()
	return s.env
}

// Defer registers release to run when the surrounding Do exits.
func (s *Scope[E]) Defer(release func()) {
	s.s.Defer(release)
}
