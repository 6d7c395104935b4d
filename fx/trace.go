package fx

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"

	"github.com/on-the-ground/fxbox/log"
	"github.com/on-the-ground/fxbox/result"
)

// Trace summarizes one traced run.
type Trace struct {
	RunID string
	Span  timespan.TimeSpan
	Steps map[Kind]int
}

// Total returns the number of steps the run went through.
func (t Trace) Total() int {
	total := 0
	for _, n := range t.Steps {
		total += n
	}
	return total
}

// Option configures RunTraced.
type Option func(*traceConfig)

type traceConfig struct {
	logger *zap.Logger
	level  log.LogLevel
	now    func() time.Time
}

// WithLogger logs every step of the run at level.
func WithLogger(logger *zap.Logger, level log.LogLevel) Option {
	return func(c *traceConfig) {
		c.logger = logger
		c.level = level
	}
}

// WithClock replaces time.Now as the source of the trace's time span.
func WithClock(now func() time.Time) Option {
	return func(c *traceConfig) {
		c.now = now
	}
}

// RunTraced runs m like Run and also returns a Trace of the run. Steps of
// sequences bound inside Do bodies are included.
func RunTraced[T, E, R any](ctx context.Context, m Fx[T, E, R], env R, opts ...Option) (result.Result[T, E], Trace) {
	cfg := traceConfig{level: log.LogDebug, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	tr := &tracer{
		runID:  uuid.New().String(),
		logger: log.OrNop(cfg.logger),
		level:  cfg.level,
	}
	start := cfg.now()
	res := drive(context.WithValue(ctx, tracerKey{}, tr), m, env)
	end := cfg.now()

	trace := Trace{
		RunID: tr.runID,
		Span:  timespan.BetweenTimes(start, end),
		Steps: tr.snapshot(),
	}
	log.Emit(tr.logger, tr.level, "fx run settled",
		zap.String("runId", trace.RunID),
		zap.Bool("ok", result.IsOk(res)),
		zap.Int("steps", trace.Total()),
		zap.Duration("elapsed", end.Sub(start)),
	)
	return res, trace
}

type tracerKey struct{}

type tracer struct {
	runID  string
	logger *zap.Logger
	level  log.LogLevel
	counts [KindAsync + 1]atomic.Int64
}

func tracerFrom(ctx context.Context) *tracer {
	tr, _ := ctx.Value(tracerKey{}).(*tracer)
	return tr
}

// observe is a no-op on a nil tracer, which is what untraced runs use.
func (tr *tracer) observe(kind Kind) {
	if tr == nil {
		return
	}
	n := tr.counts[kind].Add(1)
	log.Emit(tr.logger, tr.level, "fx step",
		zap.String("runId", tr.runID),
		zap.Stringer("kind", kind),
		zap.Int64("seen", n),
	)
}

func (tr *tracer) snapshot() map[Kind]int {
	steps := make(map[Kind]int, KindAsync)
	for _, kind := range []Kind{KindOk, KindErr, KindSync, KindAsync} {
		if n := tr.counts[kind].Load(); n > 0 {
			steps[kind] = int(n)
		}
	}
	return steps
}
