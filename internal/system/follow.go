package system

import (
	"time"

	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/core/ecs"
	coresys "github.com/gridcolony/navsim/internal/core/system"
	"github.com/gridcolony/navsim/internal/grid"
)

// arriveTolerance is the arrival radius as a multiple of one step.
const arriveTolerance = 1.1

// FollowSystem moves agents toward the head of their path queue. An agent
// within one step (plus tolerance) of the head lands on it and pops it.
type FollowSystem struct {
	comps *component.Stores
}

func NewFollowSystem(comps *component.Stores) *FollowSystem {
	return &FollowSystem{comps: comps}
}

func (s *FollowSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *FollowSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	ecs.Each3(s.comps.Paths, s.comps.Transforms, s.comps.Movers,
		func(id ecs.EntityID, q *component.PathQueue, tr *component.Transform, mv *component.Mover) {
			facing, _ := s.comps.Facings.Get(id)
			head, ok := q.Head()
			if !ok {
				if facing != nil {
					facing.Dir = grid.Vec2{}
				}
				return
			}
			step := mv.Speed * secs
			delta := head.Sub(tr.Pos)
			if delta.Len() > step*arriveTolerance {
				move := delta.Normalize().Scale(step)
				tr.Pos = tr.Pos.Add(move)
				if facing != nil {
					facing.Dir = move
				}
				return
			}
			tr.Pos = head
			q.Pop()
		})
}
