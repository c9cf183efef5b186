package system

import (
	"time"

	"github.com/gridcolony/navsim/internal/core/ecs"
	coresys "github.com/gridcolony/navsim/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Detach events it triggers reach the occupancy indexes on the next
// maintenance pass.
type CleanupSystem struct {
	world *ecs.World
}

func NewCleanupSystem(world *ecs.World) *CleanupSystem {
	return &CleanupSystem{world: world}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.world.FlushDestroyQueue()
}
