package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrPoolClosed is the result of tasks spawned after Close.
var ErrPoolClosed = errors.New("task: pool closed")

// Pool bounds how many background computations run at once. Spawn never
// blocks the caller: the goroutine is started immediately and waits for a
// worker slot on its own.
type Pool struct {
	ctx    context.Context
	stop   context.CancelFunc
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	log    *zap.Logger
	closed atomic.Bool

	spawned  atomic.Uint64
	finished atomic.Uint64
}

func NewPool(workers int, log *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Pool{
		ctx:  ctx,
		stop: stop,
		sem:  semaphore.NewWeighted(int64(workers)),
		log:  log,
	}
}

// Spawn starts fn in the background. fn receives a context cancelled when the
// task is cancelled or the pool is closed.
func Spawn[T any](p *Pool, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(p.ctx)
	t := newTask[T](cancel)
	if p.closed.Load() {
		cancel()
		var zero T
		t.finish(zero, ErrPoolClosed)
		return t
	}
	p.spawned.Add(1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.finished.Add(1)
		defer cancel()
		var zero T
		if err := p.sem.Acquire(ctx, 1); err != nil {
			t.finish(zero, err)
			return
		}
		defer p.sem.Release(1)
		v, err := run(ctx, fn)
		if err != nil {
			p.log.Debug("background task failed", zap.Error(err))
		}
		t.finish(v, err)
	}()
	return t
}

// run invokes fn and turns a panic into an error so a faulty computation
// surfaces at poll time instead of killing the process.
func run[T any](ctx context.Context, fn func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task: panic: %v", r)
		}
	}()
	return fn(ctx)
}

// InFlight returns the number of spawned tasks that have not finished.
func (p *Pool) InFlight() int {
	return int(p.spawned.Load() - p.finished.Load())
}

// Wait blocks until every spawned task has finished. Never call it from the
// game loop; it exists for shutdown and tests.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close cancels all running tasks, rejects new ones and waits for workers to
// drain.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.stop()
	p.wg.Wait()
}
