package reach

import (
	"context"
	"sync/atomic"

	"github.com/gridcolony/navsim/internal/grid"
	"github.com/gridcolony/navsim/internal/task"
	"go.uber.org/zap"
)

// Source is the live occupancy a rebuild snapshots from.
type Source interface {
	Snapshot() *grid.Index
}

// Index answers reachability queries against the last completed Partition
// and rebuilds it in the background when marked dirty. Any number of
// MarkDirty calls between two rebuild spawns collapse into one rebuild.
//
// Update and MarkDirty are game-loop only. The query methods read an
// atomically swapped partition and are safe from any goroutine; they never
// observe a partially built partition.
type Index struct {
	source  Source
	pool    *task.Pool
	log     *zap.Logger
	current atomic.Pointer[Partition]

	dirty    bool
	inflight *task.Task[*Partition]
	rebuilds uint64
}

// NewIndex builds the initial partition synchronously so queries are valid
// from the first tick.
func NewIndex(source Source, pool *task.Pool, log *zap.Logger) (*Index, error) {
	first, err := Build(context.Background(), source.Snapshot())
	if err != nil {
		return nil, err
	}
	ix := &Index{source: source, pool: pool, log: log}
	ix.current.Store(first)
	return ix, nil
}

// MarkDirty records that occupancy changed since the last snapshot.
func (ix *Index) MarkDirty() { ix.dirty = true }

// Dirty reports whether a change is waiting for a rebuild to be spawned.
func (ix *Index) Dirty() bool { return ix.dirty }

// Rebuilding reports whether a background rebuild is in flight.
func (ix *Index) Rebuilding() bool { return ix.inflight != nil }

// Rebuilds returns how many rebuilds have been installed.
func (ix *Index) Rebuilds() uint64 { return ix.rebuilds }

// Update is called once per tick. It installs a finished rebuild, then
// spawns a new one if changes arrived and none is in flight. It never blocks.
func (ix *Index) Update() {
	if ix.inflight != nil {
		p, ready, err := ix.inflight.Poll()
		if !ready {
			return
		}
		ix.inflight = nil
		if err != nil {
			// The snapshot it worked from is gone; rebuild from a fresh one.
			ix.log.Warn("reachability rebuild failed", zap.Error(err))
			ix.dirty = true
		} else {
			ix.current.Store(p)
			ix.rebuilds++
			ix.log.Debug("reachability rebuilt",
				zap.Int("components", p.Len()), zap.Uint64("rebuild", ix.rebuilds))
		}
	}
	if !ix.dirty {
		return
	}
	ix.dirty = false
	snap := ix.source.Snapshot()
	ix.inflight = task.Spawn(ix.pool, func(ctx context.Context) (*Partition, error) {
		return Build(ctx, snap)
	})
}

// Partition returns the last completed partition.
func (ix *Index) Partition() *Partition { return ix.current.Load() }

func (ix *Index) ComponentOf(c grid.Cell) (int, bool) {
	return ix.current.Load().ComponentOf(c)
}

func (ix *Index) SameComponent(a, b grid.Cell) bool {
	return ix.current.Load().SameComponent(a, b)
}

func (ix *Index) RandomCellInComponentOf(c grid.Cell, rng Rand) (grid.Cell, bool) {
	return ix.current.Load().RandomCellInComponentOf(c, rng)
}
