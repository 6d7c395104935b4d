// Package step implements the single-use scope that drives do-notation in
// result, reader and fx.
//
// A scope is entered exactly once. Inside it, Abort unwinds the body
// immediately with a failure reason, and every release registered through
// Defer runs on the way out, whether the body returned, aborted or panicked.
// Once the body has finished the scope is exhausted: any further use panics
// with ErrExhausted instead of silently working on stale state.
package step

import (
	"errors"
	"sync/atomic"
)

// ErrExhausted reports use of a scope whose sequence has already finished.
var ErrExhausted = errors.New("step: scope already exhausted")

// IMPORTANT:
// A Scope belongs to the goroutine that drives it. Only the exhaustion flags
// are atomic, so that a scope leaked to another goroutine fails loudly
// instead of racing.
type Scope[E any] struct {
	entered   atomic.Bool
	exhausted atomic.Bool
	releases  []func()
}

// abort is the panic value used to unwind a body. It carries its scope so
// that nested scopes never intercept each other's aborts.
type abort[E any] struct {
	scope *Scope[E]
	err   E
}

// New returns a fresh scope.
func New[E any]() *Scope[E] {
	return &Scope[E]{}
}

// Check panics with ErrExhausted if the scope's sequence is over.
func (s *Scope[E]) Check() {
	if s.exhausted.Load() {
		panic(ErrExhausted)
	}
}

// Exhausted reports whether the scope's sequence is over.
func (s *Scope[E]) Exhausted() bool {
	return s.exhausted.Load()
}

// Abort terminates the running body with err.
func (s *Scope[E]) Abort(err E) {
	s.Check()
	panic(abort[E]{scope: s, err: err})
}

// Defer registers release to run when the body exits. Releases run in
// reverse registration order.
func (s *Scope[E]) Defer(release func()) {
	s.Check()
	s.releases = append(s.releases, release)
}

// Drive runs body inside s. If body aborts, onAbort maps the failure reason
// to the output. Foreign panics are re-raised after the releases ran.
func Drive[E, Out any](s *Scope[E], body func() Out, onAbort func(E) Out) (out Out) {
	if !s.entered.CompareAndSwap(false, true) {
		panic(ErrExhausted)
	}

	defer func() {
		r := recover()
		s.exhausted.Store(true)
		releases := s.releases
		s.releases = nil
		runReleases(releases)

		if r == nil {
			return
		}
		if a, ok := r.(abort[E]); ok && a.scope == s {
			out = onAbort(a.err)
			return
		}
		panic(r)
	}()

	return body()
}

// runReleases defers every release so they run last-in first-out and a
// panicking release does not skip the remaining ones.
func runReleases(releases []func()) {
	for _, release := range releases {
		defer release()
	}
}
