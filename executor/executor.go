// Package executor runs jobs on a fixed pool of worker goroutines.
//
// Jobs are routed by partition key: every job submitted with the same key is
// handled by the same worker, one after another, in submission order. fx uses
// an Executor to run the bodies of asynchronous steps (see fx.AsyncOn).
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/fxbox/log"
)

var (
	// ErrClosed is reported for jobs submitted to, or stranded in, a closed Executor.
	ErrClosed = errors.New("executor: closed")

	// ErrJobPanicked is reported for jobs that panicked.
	ErrJobPanicked = errors.New("executor: job panicked")
)

// Job is a unit of work. It receives the context it was submitted with.
type Job func(context.Context)

type message struct {
	ctx  context.Context
	key  string
	job  Job
	done chan error
}

// Executor is a partitioned worker pool. It is safe for concurrent use.
type Executor struct {
	ID string

	ctx    context.Context
	cancel context.CancelFunc
	queue  partitionedQueue
	logger *zap.Logger

	mu      sync.RWMutex
	closed  atomic.Bool
	workers sync.WaitGroup
}

// New starts an Executor with cfg.NumWorkers workers. When ctx is done the
// Executor closes itself, as if Close had been called. A nil logger disables
// logging.
func New(ctx context.Context, cfg Config, logger *zap.Logger) *Executor {
	cfg = NewConfig(cfg.BufferSize, cfg.NumWorkers)
	ctx, cancel := context.WithCancel(ctx)

	e := &Executor{
		ID:     uuid.New().String(),
		ctx:    ctx,
		cancel: cancel,
		logger: log.OrNop(logger),
	}
	e.queue = newPartitionedQueue(ctx, &e.workers, cfg.NumWorkers, cfg.BufferSize, e.handle)
	// a done parent goes through Close so queued jobs still get settled
	context.AfterFunc(ctx, e.Close)
	e.logger.Debug("created executor",
		zap.String("executorId", e.ID),
		zap.Int("numWorkers", cfg.NumWorkers),
		zap.Int("bufferSize", cfg.BufferSize),
	)
	return e
}

// Submit enqueues job under key. The returned channel yields exactly one
// value and is then closed: nil once job has run, ErrJobPanicked if it
// panicked, ErrClosed if the executor closed first, or ctx.Err() if ctx was
// done before the job could be enqueued.
func (e *Executor) Submit(ctx context.Context, key string, job Job) <-chan error {
	done := make(chan error, 1)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed.Load() || e.ctx.Err() != nil {
		e.logger.Warn("job submitted to closed executor",
			zap.String("executorId", e.ID),
			zap.String("key", key),
		)
		settle(done, ErrClosed)
		return done
	}

	msg := message{ctx: ctx, key: key, job: job, done: done}
	select {
	case <-ctx.Done():
		settle(done, ctx.Err())
	case <-e.ctx.Done():
		settle(done, ErrClosed)
	case e.queue.channelOf(msg) <- msg:
	}
	return done
}

// Close stops the workers and fails every job still queued with ErrClosed.
// It is idempotent.
func (e *Executor) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.cancel()

	// Holding the lock waits out in-flight Submit calls, so nothing is sent
	// after the drain.
	e.mu.Lock()
	defer e.mu.Unlock()

	e.workers.Wait()
	stranded := 0
	for _, ch := range e.queue.channels {
		for drained := false; !drained; {
			select {
			case msg := <-ch:
				settle(msg.done, ErrClosed)
				stranded++
			default:
				drained = true
			}
		}
	}
	e.logger.Debug("closed executor",
		zap.String("executorId", e.ID),
		zap.Int("strandedJobs", stranded),
	)
}

func (e *Executor) handle(msg message) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic in executor job",
				zap.String("executorId", e.ID),
				zap.String("key", msg.key),
				zap.Any("panic", r),
			)
			settle(msg.done, fmt.Errorf("%w: %v", ErrJobPanicked, r))
		}
	}()

	msg.job(msg.ctx)
	settle(msg.done, nil)
}

func settle(done chan error, err error) {
	done <- err
	close(done)
}
