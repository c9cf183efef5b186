package data

import (
	"fmt"
	"os"

	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/core/ecs"
	"github.com/gridcolony/navsim/internal/grid"
	"gopkg.in/yaml.v3"
)

// Point is a cell coordinate in a layout file.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p Point) Cell() grid.Cell { return grid.Cell{X: p.X, Y: p.Y} }

// Rect is a filled block of wall cells.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// MachineEntry places a machine and the offset of the cell agents use it from.
type MachineEntry struct {
	X    int `yaml:"x"`
	Y    int `yaml:"y"`
	UseX int `yaml:"use_x"`
	UseY int `yaml:"use_y"`
}

// Layout describes the static occupants of a grid. KeepOpen cells are never
// walled, whatever Walls or Rects say.
type Layout struct {
	Walls    []Point        `yaml:"walls"`
	Rects    []Rect         `yaml:"rects"`
	Machines []MachineEntry `yaml:"machines"`
	KeepOpen []Point        `yaml:"keep_open"`
}

// LoadLayout loads a layout yaml file.
func LoadLayout(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var l Layout
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &l, nil
}

// WallCells expands walls and rects into distinct in-bounds cells in
// declaration order, minus KeepOpen.
func (l *Layout) WallCells(size int) []grid.Cell {
	open := make(map[grid.Cell]bool, len(l.KeepOpen))
	for _, p := range l.KeepOpen {
		open[p.Cell()] = true
	}
	seen := make(map[grid.Cell]bool, len(l.Walls))
	out := make([]grid.Cell, 0, len(l.Walls))
	add := func(c grid.Cell) {
		if !c.In(size) || open[c] || seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}
	for _, p := range l.Walls {
		add(p.Cell())
	}
	for _, r := range l.Rects {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				add(grid.Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// Spawn creates wall and machine entities for the layout. Out-of-bounds
// machines are skipped.
func (l *Layout) Spawn(w *ecs.World, s *component.Stores, size int) (walls, machines int) {
	for _, c := range l.WallCells(size) {
		s.SpawnWall(w, c)
		walls++
	}
	for _, m := range l.Machines {
		c := grid.Cell{X: m.X, Y: m.Y}
		if !c.In(size) {
			continue
		}
		s.SpawnMachine(w, c, grid.Cell{X: m.UseX, Y: m.UseY})
		machines++
	}
	return walls, machines
}

// FromIndexes captures the current contents of a wall and a machine index
// as a layout. machineOffset resolves each machine's use offset.
func FromIndexes(walls, machines *grid.Index, machineOffset func(ecs.EntityID) grid.Cell) *Layout {
	l := &Layout{}
	walls.Each(func(_ ecs.EntityID, c grid.Cell) {
		l.Walls = append(l.Walls, Point{X: c.X, Y: c.Y})
	})
	if machines != nil {
		machines.Each(func(id ecs.EntityID, c grid.Cell) {
			off := machineOffset(id)
			l.Machines = append(l.Machines, MachineEntry{X: c.X, Y: c.Y, UseX: off.X, UseY: off.Y})
		})
	}
	return l
}
