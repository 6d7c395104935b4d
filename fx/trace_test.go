package fx_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickb777/date/v2/timespan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/on-the-ground/fxbox/executor"
	"github.com/on-the-ground/fxbox/fx"
	"github.com/on-the-ground/fxbox/log"
	"github.com/on-the-ground/fxbox/maybe"
	"github.com/on-the-ground/fxbox/result"
)

func fixedClock(times ...time.Time) func() time.Time {
	var i atomic.Int32
	return func() time.Time {
		return times[int(i.Add(1)-1)%len(times)]
	}
}

func TestRunTraced_CountsSteps(t *testing.T) {
	double := fx.FlatMap(fx.Ask[answerEnv, error](), func(env answerEnv) fx.Fx[int, error, answerEnv] {
		return fx.Ok[int, error, answerEnv](env.N * 2)
	})

	res, trace := fx.RunTraced(context.Background(), double, answerEnv{N: 21})

	assert.Equal(t, 42, result.AssertOk(res))
	assert.NotEmpty(t, trace.RunID)
	assert.Equal(t, map[fx.Kind]int{fx.KindSync: 1, fx.KindOk: 1}, trace.Steps)
	assert.Equal(t, 2, trace.Total())
}

func TestRunTraced_CountsFailure(t *testing.T) {
	res, trace := fx.RunTraced(context.Background(), fx.Err[int, string, any]("nope"), nil)

	assert.True(t, result.IsErr(res))
	assert.Equal(t, map[fx.Kind]int{fx.KindErr: 1}, trace.Steps)
}

func TestRunTraced_IncludesBoundSteps(t *testing.T) {
	var sleeps atomic.Int32
	env := &supplies{numbers: []int{42}, strings: []string{"foo"}}

	res, trace := fx.RunTraced(context.Background(), greetingDo(&sleeps), Supplies(env))

	assert.Equal(t, "foo: 42", result.AssertOk(res))
	// the Do step itself, the nested Do of getString and the sleep
	assert.GreaterOrEqual(t, trace.Steps[fx.KindAsync], 3)
	assert.GreaterOrEqual(t, trace.Steps[fx.KindSync], 2)
	assert.Greater(t, trace.Steps[fx.KindOk], 3)
}

func TestRunTraced_SpanUsesClock(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Second)

	_, trace := fx.RunTraced(context.Background(), fx.Ok[int, string, any](1), nil,
		fx.WithClock(fixedClock(start, end)),
	)

	assert.Equal(t, timespan.BetweenTimes(start, end), trace.Span)
}

func TestRunTraced_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	double := fx.FlatMap(fx.Ask[answerEnv, error](), func(env answerEnv) fx.Fx[int, error, answerEnv] {
		return fx.Ok[int, error, answerEnv](env.N * 2)
	})
	_, trace := fx.RunTraced(context.Background(), double, answerEnv{N: 1}, fx.WithLogger(logger, log.LogInfo))

	assert.Equal(t, 2, logs.FilterMessage("fx step").Len())
	settled := logs.FilterMessage("fx run settled").All()
	require.Len(t, settled, 1)
	assert.Equal(t, zapcore.InfoLevel, settled[0].Level)
	assert.Equal(t, trace.RunID, settled[0].ContextMap()["runId"])
	assert.Equal(t, true, settled[0].ContextMap()["ok"])
}

func TestRun_UntracedDoesNotLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, _ = fx.RunTraced(context.Background(), fx.Ok[int, string, any](1), nil, fx.WithLogger(zap.New(core), log.LogDebug))
	seen := logs.Len()

	fx.Ok[int, string, any](1).Run(context.Background(), nil)
	assert.Equal(t, seen, logs.Len())
}

var errRejected = errors.New("rejected")

func TestAsyncOn_RunsOnExecutor(t *testing.T) {
	ex := executor.New(context.Background(), executor.NewConfig(4, 2), log.NewTest())
	defer ex.Close()

	var order []int
	step := func(i int) fx.Fx[int, error, int] {
		return fx.AsyncOn(ex, "same", func(_ context.Context, env int) fx.Fx[int, error, int] {
			order = append(order, i)
			return fx.Ok[int, error, int](env * i)
		}, func(err error) error { return errors.Join(errRejected, err) })
	}

	m := fx.Do(func(s *fx.Scope[error, int]) fx.Fx[int, error, int] {
		a := fx.Bind(s, step(1))
		b := fx.Bind(s, step(2))
		return fx.Ok[int, error, int](a + b)
	})

	assert.Equal(t, 63, result.AssertOk(m.Run(context.Background(), 21)))
	assert.Equal(t, []int{1, 2}, order)
}

func TestAsyncOn_ClosedExecutorRejects(t *testing.T) {
	ex := executor.New(context.Background(), executor.Config{}, nil)
	ex.Close()

	called := false
	m := fx.AsyncOn(ex, "k", func(context.Context, int) fx.Fx[int, error, int] {
		called = true
		return fx.Ok[int, error, int](1)
	}, func(err error) error { return errors.Join(errRejected, err) })

	err := maybe.AssertSome(result.GetErr(m.Run(context.Background(), 0)))
	assert.ErrorIs(t, err, errRejected)
	assert.ErrorIs(t, err, executor.ErrClosed)
	assert.False(t, called)
}

func TestAsyncOn_PanicRejects(t *testing.T) {
	ex := executor.New(context.Background(), executor.Config{}, nil)
	defer ex.Close()

	m := fx.AsyncOn(ex, "k", func(context.Context, int) fx.Fx[int, error, int] {
		panic("boom")
	}, func(err error) error { return err })

	err := maybe.AssertSome(result.GetErr(m.Run(context.Background(), 0)))
	assert.ErrorIs(t, err, executor.ErrJobPanicked)
}

func TestAsyncOn_ParentContextDoneRejects(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ex := executor.New(parent, executor.NewConfig(4, 1), nil)
	defer ex.Close()
	cancel()
	time.Sleep(2 * time.Millisecond)

	m := fx.AsyncOn(ex, "k", func(context.Context, int) fx.Fx[int, error, int] {
		return fx.Ok[int, error, int](1)
	}, func(err error) error { return errors.Join(errRejected, err) })

	select {
	case res := <-m.Go(context.Background(), 0):
		assert.ErrorIs(t, maybe.AssertSome(result.GetErr(res)), executor.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("step on an executor with a done parent context never settled")
	}
}
