package component

import (
	"time"

	"github.com/gridcolony/navsim/internal/grid"
)

// PathQueue is the ordered list of world-space waypoints an entity follows.
// The head is consumed first. Written by the path scheduler, drained by the
// follower, cleared wholesale when an obstacle lands on any of its cells.
type PathQueue struct {
	Waypoints []grid.Vec2
}

func (q *PathQueue) Empty() bool { return len(q.Waypoints) == 0 }

// Head returns the next waypoint.
func (q *PathQueue) Head() (grid.Vec2, bool) {
	if len(q.Waypoints) == 0 {
		return grid.Vec2{}, false
	}
	return q.Waypoints[0], true
}

// Pop drops the head waypoint.
func (q *PathQueue) Pop() {
	if len(q.Waypoints) > 0 {
		q.Waypoints = q.Waypoints[1:]
	}
}

func (q *PathQueue) Clear() { q.Waypoints = nil }

// Contains reports whether any waypoint rounds to cell c.
func (q *PathQueue) Contains(c grid.Cell, size int) bool {
	for _, w := range q.Waypoints {
		if wc, ok := grid.FromWorld(w, size); ok && wc == c {
			return true
		}
	}
	return false
}

// Brain drives autonomous goal selection for an agent.
type Brain struct {
	SinceWander time.Duration
}
