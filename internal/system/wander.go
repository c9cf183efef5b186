package system

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/core/ecs"
	coresys "github.com/gridcolony/navsim/internal/core/system"
	"github.com/gridcolony/navsim/internal/grid"
	"github.com/gridcolony/navsim/internal/nav"
	"github.com/gridcolony/navsim/internal/path"
	"github.com/gridcolony/navsim/internal/reach"
	"github.com/gridcolony/navsim/internal/scripting"
	"go.uber.org/zap"
)

// GoalChooser is the scripted brain consulted before the random fallback.
type GoalChooser interface {
	ChooseGoal(ctx scripting.WanderContext) (grid.Cell, bool)
}

// WanderSystem gives idle agents a new destination once their wander
// interval has elapsed. An agent is idle when its path queue is empty and it
// has no search in flight. The scripted brain picks first; when it declines
// or picks an occupied cell, a random cell in the agent's own component is
// used so the request can succeed.
type WanderSystem struct {
	comps    *component.Stores
	sched    *nav.Scheduler
	reach    *reach.Index
	brain    GoalChooser // may be nil
	rng      *rand.Rand
	interval time.Duration
	size     int
	log      *zap.Logger
}

func NewWanderSystem(comps *component.Stores, sched *nav.Scheduler, rx *reach.Index, brain GoalChooser,
	rng *rand.Rand, interval time.Duration, size int, log *zap.Logger) *WanderSystem {
	return &WanderSystem{
		comps:    comps,
		sched:    sched,
		reach:    rx,
		brain:    brain,
		rng:      rng,
		interval: interval,
		size:     size,
		log:      log,
	}
}

func (s *WanderSystem) Phase() coresys.Phase { return coresys.PhasePlan }

func (s *WanderSystem) Update(dt time.Duration) {
	ecs.Each2(s.comps.Brains, s.comps.Transforms, func(id ecs.EntityID, b *component.Brain, tr *component.Transform) {
		b.SinceWander += dt
		if b.SinceWander <= s.interval {
			return
		}
		if q, ok := s.comps.Paths.Get(id); !ok || !q.Empty() || s.sched.Pending(id) {
			return
		}
		b.SinceWander = 0

		start, ok := grid.FromWorld(tr.Pos, s.size)
		if !ok {
			s.log.Warn("entity not in grid", zap.Uint64("entity", uint64(id)),
				zap.Float64("x", tr.Pos.X), zap.Float64("y", tr.Pos.Y))
			return
		}
		if s.brain != nil {
			ctx := scripting.WanderContext{X: start.X, Y: start.Y, Size: s.size, Roll: s.rng.Float64()}
			if goal, ok := s.brain.ChooseGoal(ctx); ok {
				err := s.sched.Request(id, start, goal)
				if err == nil {
					return
				}
				if !errors.Is(err, path.ErrUnreachableGoal) {
					s.log.Warn("wander request failed", zap.Uint64("entity", uint64(id)), zap.Error(err))
					return
				}
			}
		}
		goal, ok := s.reach.RandomCellInComponentOf(start, s.rng)
		if !ok {
			s.log.Debug("agent stands on an occupied cell", zap.Uint64("entity", uint64(id)),
				zap.Int("x", start.X), zap.Int("y", start.Y))
			return
		}
		if err := s.sched.Request(id, start, goal); err != nil {
			// The partition can lag a just-placed wall.
			s.log.Debug("wander request rejected", zap.Uint64("entity", uint64(id)), zap.Error(err))
		}
	})
}
