package data

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/core/ecs"
	"github.com/gridcolony/navsim/internal/grid"
)

const sampleLayout = `
walls:
  - {x: 1, y: 1}
  - {x: 1, y: 1}
  - {x: 9, y: 9}
rects:
  - {x: 3, y: 0, w: 2, h: 2}
machines:
  - {x: 0, y: 4, use_x: 1, use_y: 0}
  - {x: 7, y: 7, use_x: 0, use_y: 1}
keep_open:
  - {x: 4, y: 1}
`

func writeLayout(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(p, []byte(sampleLayout), 0o644); err != nil {
		t.Fatalf("write layout: %v", err)
	}
	return p
}

func TestLoadLayoutExpandsCells(t *testing.T) {
	l, err := LoadLayout(writeLayout(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := l.WallCells(5)
	want := []grid.Cell{{X: 1, Y: 1}, {X: 3, Y: 0}, {X: 4, Y: 0}, {X: 3, Y: 1}}
	if len(got) != len(want) {
		t.Fatalf("wall cells = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSpawnCreatesEntities(t *testing.T) {
	l, err := LoadLayout(writeLayout(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	w := ecs.NewWorld()
	s := component.NewStores(w)
	walls, machines := l.Spawn(w, s, 5)
	if walls != 4 || machines != 1 {
		t.Fatalf("spawned %d walls, %d machines", walls, machines)
	}
	if s.Walls.Len() != 4 || s.Machines.Len() != 1 {
		t.Fatalf("stores hold %d walls, %d machines", s.Walls.Len(), s.Machines.Len())
	}
}

func TestLoadLayoutMissing(t *testing.T) {
	if _, err := LoadLayout(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGenerateMazeDensity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	keep := []grid.Cell{{X: 0, Y: 0}}
	l := GenerateMaze(48, 0.3, rng, keep)
	n := len(l.Walls)
	if n < 550 || n > 840 { // 0.3 of 2304 is ~691
		t.Fatalf("unexpected wall count %d", n)
	}
	for _, c := range l.WallCells(48) {
		if c == keep[0] {
			t.Fatalf("keep-open cell walled")
		}
	}
}

func TestGenerateNoiseExactShare(t *testing.T) {
	l := GenerateNoise(20, 0.25, 42, nil)
	if len(l.Walls) != 100 {
		t.Fatalf("expected 100 walls, got %d", len(l.Walls))
	}
	again := GenerateNoise(20, 0.25, 42, nil)
	for i := range l.Walls {
		if l.Walls[i] != again.Walls[i] {
			t.Fatalf("same seed produced different layouts")
		}
	}
}

func TestFromIndexesRoundTrip(t *testing.T) {
	walls := grid.NewIndex(grid.Wall, 4, nil)
	machines := grid.NewIndex(grid.Machine, 4, nil)
	_ = walls.Insert(1, grid.Cell{X: 2, Y: 1})
	_ = machines.Insert(2, grid.Cell{X: 0, Y: 3})

	l := FromIndexes(walls, machines, func(ecs.EntityID) grid.Cell { return grid.Cell{X: 1} })
	if len(l.Walls) != 1 || l.Walls[0] != (Point{X: 2, Y: 1}) {
		t.Fatalf("walls = %v", l.Walls)
	}
	if len(l.Machines) != 1 || l.Machines[0] != (MachineEntry{X: 0, Y: 3, UseX: 1}) {
		t.Fatalf("machines = %v", l.Machines)
	}
}
