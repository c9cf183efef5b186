package system

import (
	"time"

	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/core/ecs"
	coresys "github.com/gridcolony/navsim/internal/core/system"
	"github.com/gridcolony/navsim/internal/grid"
	"github.com/gridcolony/navsim/internal/nav"
	"github.com/gridcolony/navsim/internal/reach"
	"go.uber.org/zap"
)

// StatsSystem logs a periodic summary of the simulation.
type StatsSystem struct {
	world    *ecs.World
	comps    *component.Stores
	walls    *grid.Index
	sched    *nav.Scheduler
	reach    *reach.Index
	interval time.Duration
	elapsed  time.Duration
	log      *zap.Logger
}

func NewStatsSystem(world *ecs.World, comps *component.Stores, walls *grid.Index, sched *nav.Scheduler,
	rx *reach.Index, interval time.Duration, log *zap.Logger) *StatsSystem {
	return &StatsSystem{world: world, comps: comps, walls: walls, sched: sched, reach: rx, interval: interval, log: log}
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *StatsSystem) Update(dt time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0

	moving := 0
	s.comps.Paths.Each(func(_ ecs.EntityID, q *component.PathQueue) {
		if !q.Empty() {
			moving++
		}
	})
	st := s.sched.Stats()
	s.log.Info("simulation stats",
		zap.Int("entities", s.world.Pool().Live()),
		zap.Int("walls", s.walls.Len()),
		zap.Int("agents_moving", moving),
		zap.Int("searches_pending", s.sched.Len()),
		zap.Uint64("searches_completed", st.Completed),
		zap.Uint64("searches_failed", st.Failed),
		zap.Uint64("searches_cancelled", st.Cancelled),
		zap.Int("components", s.reach.Partition().Len()),
		zap.Uint64("rebuilds", s.reach.Rebuilds()))
}
