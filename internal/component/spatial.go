package component

import "github.com/gridcolony/navsim/internal/grid"

// Location places a static occupant (wall, machine) on a grid cell.
type Location struct {
	Cell grid.Cell
}

// Transform is the continuous world position of a mobile entity.
type Transform struct {
	Pos grid.Vec2
}

// Mover holds movement speed in cells per second.
type Mover struct {
	Speed float64
}

// Facing is the last movement vector, zero when standing still.
type Facing struct {
	Dir grid.Vec2
}
