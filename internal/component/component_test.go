package component

import (
	"testing"

	"github.com/gridcolony/navsim/internal/core/ecs"
	"github.com/gridcolony/navsim/internal/grid"
)

func TestPathQueueFIFO(t *testing.T) {
	q := &PathQueue{Waypoints: []grid.Vec2{{X: 1}, {X: 2}}}
	h, ok := q.Head()
	if !ok || h.X != 1 {
		t.Fatalf("head = %v, %v", h, ok)
	}
	q.Pop()
	q.Pop()
	q.Pop()
	if !q.Empty() {
		t.Fatalf("queue not empty: %v", q.Waypoints)
	}
	if _, ok := q.Head(); ok {
		t.Fatalf("head on empty queue")
	}
}

func TestPathQueueContainsRounds(t *testing.T) {
	q := &PathQueue{Waypoints: []grid.Vec2{{X: 0.9, Y: 2.2}, {X: 3, Y: 3}}}
	if !q.Contains(grid.Cell{X: 1, Y: 2}, 8) {
		t.Fatalf("rounded waypoint not matched")
	}
	if q.Contains(grid.Cell{X: 2, Y: 2}, 8) {
		t.Fatalf("unrelated cell matched")
	}
}

func TestDestroyClearsAllStores(t *testing.T) {
	w := ecs.NewWorld()
	s := NewStores(w)
	wall := s.SpawnWall(w, grid.Cell{X: 1, Y: 1})
	agent := s.SpawnAgent(w, grid.Vec2{}, 1)

	if c, ok := s.Locate(wall); !ok || c != (grid.Cell{X: 1, Y: 1}) {
		t.Fatalf("locate = %v, %v", c, ok)
	}
	w.MarkForDestruction(wall)
	w.MarkForDestruction(agent)
	w.FlushDestroyQueue()

	if s.Walls.Has(wall) || s.Locations.Has(wall) || s.Paths.Has(agent) || s.Transforms.Has(agent) {
		t.Fatalf("components survived destroy")
	}
}
