package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPollIsNonBlockingUntilDone(t *testing.T) {
	p := NewPool(1, zap.NewNop())
	defer p.Close()
	release := make(chan struct{})

	tk := Spawn(p, func(ctx context.Context) (int, error) {
		<-release
		return 42, nil
	})
	if _, ready, _ := tk.Poll(); ready {
		t.Fatalf("task reported ready before release")
	}
	close(release)
	<-tk.Done()
	v, ready, err := tk.Poll()
	if !ready || err != nil || v != 42 {
		t.Fatalf("Poll = %d, %v, %v", v, err, ready)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := NewPool(2, zap.NewNop())
	defer p.Close()
	var running, peak atomic.Int32
	release := make(chan struct{})

	for i := 0; i < 6; i++ {
		Spawn(p, func(ctx context.Context) (struct{}, error) {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			<-release
			running.Add(-1)
			return struct{}{}, nil
		})
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	p.Wait()
	if peak.Load() > 2 {
		t.Fatalf("expected at most 2 concurrent tasks, saw %d", peak.Load())
	}
	if p.InFlight() != 0 {
		t.Fatalf("expected no tasks in flight, got %d", p.InFlight())
	}
}

func TestCancelPropagatesToContext(t *testing.T) {
	p := NewPool(1, zap.NewNop())
	defer p.Close()
	tk := Spawn(p, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	tk.Cancel()
	<-tk.Done()
	if _, _, err := tk.Poll(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPanicBecomesError(t *testing.T) {
	p := NewPool(1, zap.NewNop())
	defer p.Close()
	tk := Spawn(p, func(ctx context.Context) (int, error) {
		panic("boom")
	})
	<-tk.Done()
	if _, _, err := tk.Poll(); err == nil {
		t.Fatalf("expected panic to surface as error")
	}
}

func TestSpawnAfterCloseFailsFast(t *testing.T) {
	p := NewPool(1, zap.NewNop())
	p.Close()
	tk := Spawn(p, func(ctx context.Context) (int, error) { return 1, nil })
	_, ready, err := tk.Poll()
	if !ready || !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v (ready=%v)", err, ready)
	}
}
