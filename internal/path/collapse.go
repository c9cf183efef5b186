package path

import "github.com/gridcolony/navsim/internal/grid"

// CollapseCorners drops the corner cell of every unit L-turn so the follower
// cuts the corner diagonally instead of stepping into it: for consecutive
// a, b, c where a and c differ by exactly one in both axes, b is removed.
// Only turns made of two orthogonal unit steps qualify, so long diagonal
// shortcuts are never introduced and a second pass finds nothing to remove.
//
// The input is not modified.
func CollapseCorners(cells []grid.Cell) []grid.Cell {
	out := make([]grid.Cell, len(cells))
	copy(out, cells)
	for i := 0; i+2 < len(out); i++ {
		a, c := out[i], out[i+2]
		if absDiff(a.X, c.X) == 1 && absDiff(a.Y, c.Y) == 1 {
			out = append(out[:i+1], out[i+2:]...)
		}
	}
	return out
}

// Waypoints converts cells to the world positions of their centres.
func Waypoints(cells []grid.Cell) []grid.Vec2 {
	out := make([]grid.Vec2, len(cells))
	for i, c := range cells {
		out[i] = c.World()
	}
	return out
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
