package fx

import (
	"context"

	"github.com/on-the-ground/fxbox/result"
)

// Run drives m to completion against env and returns its settled result.
//
// Ok and Err settle immediately; a Sync step is resolved in place; an Async
// step is awaited, which is the only point where the calling goroutine
// blocks. env is passed unchanged to every step. ctx is handed to Async
// steps and is otherwise not consulted: Run never abandons a step.
func (m Fx[T, E, R]) Run(ctx context.Context, env R) result.Result[T, E] {
	return drive(ctx, m, env)
}

// Go starts running m on a new goroutine. The returned channel delivers the
// settled result once and is then closed.
func (m Fx[T, E, R]) Go(ctx context.Context, env R) <-chan result.Result[T, E] {
	ch := make(chan result.Result[T, E], 1)
	go func() {
		defer close(ch)
		ch <- m.Run(ctx, env)
	}()
	return ch
}

// drive is the trampoline behind Run. Nested runs started by Bind go through
// it too, so they report to the same tracer.
func drive[T, E, R any](ctx context.Context, m Fx[T, E, R], env R) result.Result[T, E] {
	tr := tracerFrom(ctx)
	current := m
	for {
		s := current.mustState()
		tr.observe(s.kind)

		switch s.kind {
		case KindOk:
			return result.Ok[T, E](s.value)
		case KindErr:
			return result.Err[T](s.err)
		case KindSync:
			current = s.sync(env)
		default:
			current = s.async(ctx, env)()
		}
	}
}
