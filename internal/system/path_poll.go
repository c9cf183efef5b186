package system

import (
	"time"

	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/core/ecs"
	coresys "github.com/gridcolony/navsim/internal/core/system"
	"github.com/gridcolony/navsim/internal/nav"
)

// PathPollSystem moves finished background searches into path queues.
type PathPollSystem struct {
	sched *nav.Scheduler
	paths *ecs.PtrComponentStore[component.PathQueue]
}

func NewPathPollSystem(sched *nav.Scheduler, paths *ecs.PtrComponentStore[component.PathQueue]) *PathPollSystem {
	return &PathPollSystem{sched: sched, paths: paths}
}

func (s *PathPollSystem) Phase() coresys.Phase { return coresys.PhasePlan }

func (s *PathPollSystem) Update(_ time.Duration) {
	s.sched.Poll(s.paths)
}
