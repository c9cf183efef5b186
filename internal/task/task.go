// Package task runs blocking computations off the game loop and exposes them
// as handles the loop can poll without ever waiting.
package task

import "context"

// Task is a handle to one background computation producing a T. The result
// is written once by the worker; Poll and Done may be used from any goroutine.
type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	value  T
	err    error
}

func newTask[T any](cancel context.CancelFunc) *Task[T] {
	return &Task[T]{done: make(chan struct{}), cancel: cancel}
}

func (t *Task[T]) finish(v T, err error) {
	t.value = v
	t.err = err
	close(t.done)
}

// Poll reports the outcome without blocking. ready is false while the
// computation is still running.
func (t *Task[T]) Poll() (value T, ready bool, err error) {
	select {
	case <-t.done:
		return t.value, true, t.err
	default:
		var zero T
		return zero, false, nil
	}
}

// Done is closed when the result is available.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Cancel asks the computation to stop early. The handle stays valid; a
// cancelled task still completes, usually with context.Canceled.
func (t *Task[T]) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}
