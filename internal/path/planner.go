// Package path plans shortest 4-directional routes over an occupancy
// snapshot and post-processes them into waypoint lists.
package path

import (
	"container/heap"
	"context"
	"errors"

	"github.com/gridcolony/navsim/internal/grid"
)

var (
	// ErrUnreachableGoal is returned before any search when the goal cell is
	// itself occupied.
	ErrUnreachableGoal = errors.New("path: goal cell is occupied")
	// ErrPathNotFound means the search exhausted every cell reachable from the
	// start without meeting the goal. An expected outcome, not a fault.
	ErrPathNotFound = errors.New("path: no path found")
	// ErrOutOfBounds is returned when start or goal lies outside the grid.
	ErrOutOfBounds = errors.New("path: cell out of bounds")
)

// heuristicDivisor scales the Manhattan estimate down. It keeps the estimate
// admissible while making the search expand more like Dijkstra near
// obstacles; kept at 3 to reproduce established routes.
const heuristicDivisor = 3

// cancelCheckInterval is how many expansions run between context checks.
const cancelCheckInterval = 256

func heuristic(from, to grid.Cell) int {
	return from.Manhattan(to) / heuristicDivisor
}

// Plan searches occ for a shortest path from start to goal using A* over
// in-bounds unoccupied orthogonal neighbours, one unit per step. The result
// runs from start to goal inclusive. The start cell itself may be occupied.
func Plan(ctx context.Context, occ grid.Occupancy, start, goal grid.Cell) ([]grid.Cell, error) {
	size := occ.Size()
	if !start.In(size) || !goal.In(size) {
		return nil, ErrOutOfBounds
	}
	if occ.Occupied(goal) {
		return nil, ErrUnreachableGoal
	}
	if start == goal {
		return []grid.Cell{start}, nil
	}

	slot := func(c grid.Cell) int { return c.Y*size + c.X }
	gScore := make([]int, size*size)
	for i := range gScore {
		gScore[i] = -1
	}
	cameFrom := make([]int32, size*size)
	closed := make([]bool, size*size)
	items := make(map[int]*openItem)

	open := make(openQueue, 0, 64)
	h0 := heuristic(start, goal)
	first := &openItem{cell: start, g: 0, h: h0, f: h0}
	heap.Push(&open, first)
	items[slot(start)] = first
	gScore[slot(start)] = 0
	cameFrom[slot(start)] = -1

	expanded := 0
	for open.Len() > 0 {
		if expanded%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		cur := heap.Pop(&open).(*openItem)
		ci := slot(cur.cell)
		delete(items, ci)
		if closed[ci] {
			continue
		}
		closed[ci] = true
		expanded++

		if cur.cell == goal {
			return reconstruct(cameFrom, ci, size), nil
		}

		for _, n := range cur.cell.Neighbors4() {
			if !n.In(size) || occ.Occupied(n) {
				continue
			}
			ni := slot(n)
			if closed[ni] {
				continue
			}
			g := cur.g + 1
			if prev := gScore[ni]; prev >= 0 && g >= prev {
				continue
			}
			gScore[ni] = g
			cameFrom[ni] = int32(ci)
			h := heuristic(n, goal)
			if it, ok := items[ni]; ok {
				it.g, it.f = g, g+h
				heap.Fix(&open, it.index)
				continue
			}
			it := &openItem{cell: n, g: g, h: h, f: g + h}
			heap.Push(&open, it)
			items[ni] = it
		}
	}
	return nil, ErrPathNotFound
}

// PlanCollapsed is Plan followed by CollapseCorners.
func PlanCollapsed(ctx context.Context, occ grid.Occupancy, start, goal grid.Cell) ([]grid.Cell, error) {
	cells, err := Plan(ctx, occ, start, goal)
	if err != nil {
		return nil, err
	}
	return CollapseCorners(cells), nil
}

func reconstruct(cameFrom []int32, last int, size int) []grid.Cell {
	var out []grid.Cell
	for i := last; i >= 0; i = int(cameFrom[i]) {
		out = append(out, grid.Cell{X: i % size, Y: i / size})
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
