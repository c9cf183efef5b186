// Package nav schedules background path searches for agents and keeps their
// path queues consistent with obstacle changes.
package nav

import (
	"context"

	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/core/ecs"
	"github.com/gridcolony/navsim/internal/grid"
	"github.com/gridcolony/navsim/internal/path"
	"github.com/gridcolony/navsim/internal/task"
	"go.uber.org/zap"
)

// PlanFunc computes a cell path over an occupancy snapshot.
type PlanFunc func(ctx context.Context, occ grid.Occupancy, start, goal grid.Cell) ([]grid.Cell, error)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPlanner replaces the default planner (path.PlanCollapsed).
func WithPlanner(fn PlanFunc) Option {
	return func(s *Scheduler) { s.plan = fn }
}

// Stats counts scheduler outcomes since construction.
type Stats struct {
	Requested uint64
	Completed uint64
	Failed    uint64
	Cancelled uint64
}

// Scheduler runs at most one search per requester on the worker pool and
// publishes finished paths into the requester's PathQueue when polled.
// A new request supersedes the previous unresolved one. All methods are
// game-loop only.
type Scheduler struct {
	index   *grid.Index
	pool    *task.Pool
	plan    PlanFunc
	log     *zap.Logger
	entries map[ecs.EntityID]*task.Task[[]grid.Cell]
	stats   Stats
}

func NewScheduler(index *grid.Index, pool *task.Pool, log *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		index:   index,
		pool:    pool,
		plan:    path.PlanCollapsed,
		log:     log,
		entries: make(map[ecs.EntityID]*task.Task[[]grid.Cell], 64),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Request starts a search from start to goal for requester against a
// snapshot of the planning index. An occupied goal creates no task and
// returns path.ErrUnreachableGoal; any earlier request stays as it was.
func (s *Scheduler) Request(requester ecs.EntityID, start, goal grid.Cell) error {
	size := s.index.Size()
	if !start.In(size) || !goal.In(size) {
		return path.ErrOutOfBounds
	}
	if s.index.Occupied(goal) {
		return path.ErrUnreachableGoal
	}
	if prev, ok := s.entries[requester]; ok {
		prev.Cancel()
		s.stats.Cancelled++
	}
	snap := s.index.Snapshot()
	plan := s.plan
	s.entries[requester] = task.Spawn(s.pool, func(ctx context.Context) ([]grid.Cell, error) {
		return plan(ctx, snap, start, goal)
	})
	s.stats.Requested++
	return nil
}

// RequestWorld is Request with world-space endpoints.
func (s *Scheduler) RequestWorld(requester ecs.EntityID, from, to grid.Vec2) error {
	size := s.index.Size()
	start, ok := grid.FromWorld(from, size)
	if !ok {
		return path.ErrOutOfBounds
	}
	goal, ok := grid.FromWorld(to, size)
	if !ok {
		return path.ErrOutOfBounds
	}
	return s.Request(requester, start, goal)
}

// Poll collects finished searches without blocking. Successful results
// overwrite the requester's PathQueue; failures leave it untouched. Returns
// the number of queues written.
func (s *Scheduler) Poll(queues *ecs.PtrComponentStore[component.PathQueue]) int {
	written := 0
	for id, t := range s.entries {
		cells, ready, err := t.Poll()
		if !ready {
			continue
		}
		delete(s.entries, id)
		if err != nil {
			s.stats.Failed++
			s.log.Debug("path search failed", zap.Uint64("entity", uint64(id)), zap.Error(err))
			continue
		}
		s.stats.Completed++
		q, ok := queues.Get(id)
		if !ok {
			continue
		}
		q.Waypoints = path.Waypoints(cells)
		written++
	}
	return written
}

// Pending reports whether requester has an unresolved search.
func (s *Scheduler) Pending(requester ecs.EntityID) bool {
	_, ok := s.entries[requester]
	return ok
}

// Cancel drops requester's unresolved search, if any.
func (s *Scheduler) Cancel(requester ecs.EntityID) bool {
	t, ok := s.entries[requester]
	if !ok {
		return false
	}
	t.Cancel()
	delete(s.entries, requester)
	s.stats.Cancelled++
	return true
}

// CancelAll drops every unresolved search and returns how many there were.
func (s *Scheduler) CancelAll() int {
	n := len(s.entries)
	for id, t := range s.entries {
		t.Cancel()
		delete(s.entries, id)
	}
	s.stats.Cancelled += uint64(n)
	return n
}

// Len returns the number of unresolved searches.
func (s *Scheduler) Len() int { return len(s.entries) }

func (s *Scheduler) Stats() Stats { return s.stats }
