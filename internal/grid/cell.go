// Package grid holds the fixed-size occupancy tables shared by every
// navigation component: cell addressing, per-category occupancy indexes and
// the lifecycle maintenance that keeps them in sync with the ECS world.
package grid

import "math"

// Cell addresses one discrete grid cell. Valid cells satisfy 0 <= X, Y < size
// for the size of the index they are used with.
type Cell struct {
	X, Y int
}

// Vec2 is a continuous world position or direction. One world unit is one
// cell; the centre of Cell{X, Y} sits at Vec2{X, Y}.
type Vec2 struct {
	X, Y float64
}

// FromWorld maps a world position to the cell whose centre is nearest
// (half-cell offset, then floor). ok is false when the result falls outside
// [0, size).
func FromWorld(p Vec2, size int) (Cell, bool) {
	x := math.Floor(p.X + 0.5)
	y := math.Floor(p.Y + 0.5)
	if x < 0 || y < 0 || x >= float64(size) || y >= float64(size) {
		return Cell{}, false
	}
	return Cell{X: int(x), Y: int(y)}, true
}

// World returns the centre of the cell in world coordinates.
func (c Cell) World() Vec2 {
	return Vec2{X: float64(c.X), Y: float64(c.Y)}
}

func (c Cell) In(size int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < size && c.Y < size
}

// Offset returns the cell shifted by (dx, dy). The result may be out of bounds.
func (c Cell) Offset(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns the 4-directional step distance between c and o.
func (c Cell) Manhattan(o Cell) int {
	return absInt(c.X-o.X) + absInt(c.Y-o.Y)
}

// Adjacent4 reports whether o is exactly one orthogonal step from c.
func (c Cell) Adjacent4(o Cell) bool {
	return c.Manhattan(o) == 1
}

// Neighbors4 lists the orthogonal neighbours in left, down, right, up order.
// Callers filter out-of-bounds results.
func (c Cell) Neighbors4() [4]Cell {
	return [4]Cell{
		{X: c.X - 1, Y: c.Y},
		{X: c.X, Y: c.Y - 1},
		{X: c.X + 1, Y: c.Y},
		{X: c.X, Y: c.Y + 1},
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2    { return Vec2{X: v.X * f, Y: v.Y * f} }
func (v Vec2) Len() float64            { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsZero() bool            { return v.X == 0 && v.Y == 0 }
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Len() }

// Normalize returns the unit vector of v, or the zero vector for zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}
