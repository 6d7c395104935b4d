package fx

import (
	"context"

	"github.com/on-the-ground/fxbox/executor"
)

// AsyncOn returns an Async step whose body f runs on ex, on the worker owning
// key. Steps sharing a key run one at a time in the order they were reached.
// If ex cannot run f (closed executor, done context, panic in f), the step
// fails with onReject applied to the executor's error.
func AsyncOn[T, E, R any](
	ex *executor.Executor,
	key string,
	f func(ctx context.Context, env R) Fx[T, E, R],
	onReject func(error) E,
) Fx[T, E, R] {
	return newAsync(func(ctx context.Context, env R) await[T, E, R] {
		out := make(chan Fx[T, E, R], 1)
		done := ex.Submit(ctx, key, func(ctx context.Context) {
			out <- f(ctx, env)
		})
		return func() Fx[T, E, R] {
			if err := <-done; err != nil {
				return Err[T, E, R](onReject(err))
			}
			return <-out
		}
	})
}
