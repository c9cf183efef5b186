package path

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/gridcolony/navsim/internal/grid"
)

// layout builds an index from rows of '.' (free) and '#' (wall). Row 0 is y=0.
func layout(t *testing.T, rows ...string) *grid.Index {
	t.Helper()
	ix := grid.NewIndex(grid.Wall, len(rows), nil)
	id := uint64(1)
	for y, row := range rows {
		if len(row) != len(rows) {
			t.Fatalf("row %d has width %d, want %d", y, len(row), len(rows))
		}
		for x, ch := range row {
			if ch == '#' {
				_ = ix.Insert(ecsID(id), grid.Cell{X: x, Y: y})
				id++
			}
		}
	}
	return ix
}

func checkWalk(t *testing.T, occ grid.Occupancy, cells []grid.Cell, start, goal grid.Cell) {
	t.Helper()
	if len(cells) == 0 {
		t.Fatalf("empty path")
	}
	if cells[0] != start || cells[len(cells)-1] != goal {
		t.Fatalf("path runs %v..%v, want %v..%v", cells[0], cells[len(cells)-1], start, goal)
	}
	for i := 1; i < len(cells); i++ {
		if !cells[i-1].Adjacent4(cells[i]) {
			t.Fatalf("step %d: %v -> %v is not 4-adjacent", i, cells[i-1], cells[i])
		}
		if occ.Occupied(cells[i]) {
			t.Fatalf("step %d enters occupied cell %v", i, cells[i])
		}
	}
}

func TestPlanOpenGridIsManhattanOptimal(t *testing.T) {
	occ := grid.NewIndex(grid.Wall, 5, nil)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 4, Y: 4}

	cells, err := Plan(context.Background(), occ, start, goal)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(cells) != 9 {
		t.Fatalf("expected 9 cells, got %d: %v", len(cells), cells)
	}
	checkWalk(t, occ, cells, start, goal)
}

func TestPlanBlockedColumnFails(t *testing.T) {
	occ := layout(t,
		"..#..",
		"..#..",
		"..#..",
		"..#..",
		"..#..",
	)
	_, err := Plan(context.Background(), occ, grid.Cell{X: 0, Y: 0}, grid.Cell{X: 4, Y: 0})
	if !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}

func TestPlanRoutesAroundWall(t *testing.T) {
	occ := layout(t,
		"..#....",
		"..#.#..",
		"..#.#..",
		"....#..",
		"#####..",
		".......",
		".......",
	)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 3, Y: 0}
	cells, err := Plan(context.Background(), occ, start, goal)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	checkWalk(t, occ, cells, start, goal)
	// down 3, right 3, up 3
	if len(cells) != 10 {
		t.Fatalf("expected the 10-cell detour, got %d: %v", len(cells), cells)
	}
}

func TestPlanOccupiedGoalFailsFast(t *testing.T) {
	occ := layout(t,
		"...",
		".#.",
		"...",
	)
	_, err := Plan(context.Background(), occ, grid.Cell{X: 0, Y: 0}, grid.Cell{X: 1, Y: 1})
	if !errors.Is(err, ErrUnreachableGoal) {
		t.Fatalf("expected ErrUnreachableGoal, got %v", err)
	}
}

func TestPlanOutOfBounds(t *testing.T) {
	occ := grid.NewIndex(grid.Wall, 3, nil)
	if _, err := Plan(context.Background(), occ, grid.Cell{X: 0, Y: 0}, grid.Cell{X: 3, Y: 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestPlanStartEqualsGoal(t *testing.T) {
	occ := grid.NewIndex(grid.Wall, 3, nil)
	cells, err := Plan(context.Background(), occ, grid.Cell{X: 1, Y: 1}, grid.Cell{X: 1, Y: 1})
	if err != nil || len(cells) != 1 {
		t.Fatalf("expected single-cell path, got %v, %v", cells, err)
	}
}

func TestPlanHonoursCancellation(t *testing.T) {
	occ := grid.NewIndex(grid.Wall, 8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Plan(ctx, occ, grid.Cell{X: 0, Y: 0}, grid.Cell{X: 7, Y: 7}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// Random layouts: whenever a path is found it must be a legal walk, and its
// length must match a breadth-first distance.
func TestPlanRandomLayoutsMatchBFS(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const size = 12
	for round := 0; round < 40; round++ {
		ix := grid.NewIndex(grid.Wall, size, nil)
		id := uint64(1)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if rng.Float64() < 0.3 {
					_ = ix.Insert(ecsID(id), grid.Cell{X: x, Y: y})
					id++
				}
			}
		}
		start := grid.Cell{X: rng.IntN(size), Y: rng.IntN(size)}
		goal := grid.Cell{X: rng.IntN(size), Y: rng.IntN(size)}
		if ix.Occupied(start) || ix.Occupied(goal) {
			continue
		}
		want := bfsDistance(ix, start, goal)
		cells, err := Plan(context.Background(), ix, start, goal)
		if want < 0 {
			if !errors.Is(err, ErrPathNotFound) {
				t.Fatalf("round %d: expected ErrPathNotFound, got %v", round, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("round %d: plan: %v", round, err)
		}
		checkWalk(t, ix, cells, start, goal)
		if len(cells)-1 != want {
			t.Fatalf("round %d: path has %d steps, BFS distance is %d", round, len(cells)-1, want)
		}
	}
}

func bfsDistance(occ grid.Occupancy, start, goal grid.Cell) int {
	dist := map[grid.Cell]int{start: 0}
	queue := []grid.Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == goal {
			return dist[c]
		}
		for _, n := range c.Neighbors4() {
			if !n.In(occ.Size()) || occ.Occupied(n) {
				continue
			}
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}
	return -1
}
