package system

import (
	"math/rand/v2"
	"time"

	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/core/ecs"
	coresys "github.com/gridcolony/navsim/internal/core/system"
	"github.com/gridcolony/navsim/internal/grid"
	"go.uber.org/zap"
)

// ChurnSystem edits the layout while the simulation runs: every interval
// ticks it picks a random cell and removes the wall there, or builds one if
// the cell is free and no agent stands on it.
type ChurnSystem struct {
	world    *ecs.World
	comps    *component.Stores
	walls    *grid.Index
	rng      *rand.Rand
	interval uint64
	ticks    uint64
	log      *zap.Logger

	built, removed uint64
}

func NewChurnSystem(world *ecs.World, comps *component.Stores, walls *grid.Index, rng *rand.Rand, interval uint64, log *zap.Logger) *ChurnSystem {
	return &ChurnSystem{world: world, comps: comps, walls: walls, rng: rng, interval: interval, log: log}
}

func (s *ChurnSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ChurnSystem) Update(_ time.Duration) {
	s.ticks++
	if s.interval == 0 || s.ticks%s.interval != 0 {
		return
	}
	size := s.walls.Size()
	c := grid.Cell{X: s.rng.IntN(size), Y: s.rng.IntN(size)}
	if id, ok := s.walls.OccupantAt(c); ok {
		s.world.MarkForDestruction(id)
		s.removed++
		s.log.Debug("wall removed", zap.Int("x", c.X), zap.Int("y", c.Y))
		return
	}
	if s.agentAt(c) {
		return
	}
	s.comps.SpawnWall(s.world, c)
	s.built++
	s.log.Debug("wall built", zap.Int("x", c.X), zap.Int("y", c.Y))
}

func (s *ChurnSystem) agentAt(c grid.Cell) bool {
	size := s.walls.Size()
	found := false
	s.comps.Transforms.Each(func(_ ecs.EntityID, tr *component.Transform) {
		if ac, ok := grid.FromWorld(tr.Pos, size); ok && ac == c {
			found = true
		}
	})
	return found
}

// Edits returns how many walls were built and removed.
func (s *ChurnSystem) Edits() (built, removed uint64) { return s.built, s.removed }
