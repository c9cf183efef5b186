// Package reach partitions the free cells of an occupancy grid into
// 4-connected components and keeps that partition current in the background.
package reach

import (
	"context"

	"github.com/gridcolony/navsim/internal/grid"
)

// Partition is an immutable labelling of every free cell with the id of its
// connected component. Ids are dense, assigned in row-major order of each
// component's first cell. Occupied cells carry no label.
type Partition struct {
	size       int
	labels     []int32 // [y*size + x], -1 = occupied
	components [][]grid.Cell
}

// Build flood-fills occ with 4-directional adjacency.
func Build(ctx context.Context, occ grid.Occupancy) (*Partition, error) {
	size := occ.Size()
	p := &Partition{
		size:   size,
		labels: make([]int32, size*size),
	}
	for i := range p.labels {
		p.labels[i] = -1
	}
	visited := make([]bool, size*size)
	stack := make([]grid.Cell, 0, 64)

	for y := 0; y < size; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < size; x++ {
			seed := grid.Cell{X: x, Y: y}
			i := y*size + x
			if visited[i] || occ.Occupied(seed) {
				continue
			}
			id := int32(len(p.components))
			var members []grid.Cell
			visited[i] = true
			stack = append(stack[:0], seed)
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				p.labels[c.Y*size+c.X] = id
				members = append(members, c)
				for _, n := range c.Neighbors4() {
					if !n.In(size) {
						continue
					}
					ni := n.Y*size + n.X
					if visited[ni] || occ.Occupied(n) {
						continue
					}
					visited[ni] = true
					stack = append(stack, n)
				}
			}
			p.components = append(p.components, members)
		}
	}
	return p, nil
}

func (p *Partition) Size() int { return p.size }

// Len returns the number of components.
func (p *Partition) Len() int { return len(p.components) }

// ComponentOf returns the component id of c. ok is false for occupied or
// out-of-bounds cells.
func (p *Partition) ComponentOf(c grid.Cell) (int, bool) {
	if !c.In(p.size) {
		return 0, false
	}
	id := p.labels[c.Y*p.size+c.X]
	if id < 0 {
		return 0, false
	}
	return int(id), true
}

// SameComponent reports whether a and b are mutually reachable. A cell with
// no component is reachable from nothing, itself included.
func (p *Partition) SameComponent(a, b grid.Cell) bool {
	ca, ok := p.ComponentOf(a)
	if !ok {
		return false
	}
	cb, ok := p.ComponentOf(b)
	return ok && ca == cb
}

// Members returns the cells of component id. The slice must not be modified.
func (p *Partition) Members(id int) []grid.Cell {
	if id < 0 || id >= len(p.components) {
		return nil
	}
	return p.components[id]
}

// Rand is the subset of *math/rand/v2.Rand used for random picks.
type Rand interface {
	IntN(n int) int
}

// RandomCellInComponentOf picks a uniformly random cell from the component
// containing c.
func (p *Partition) RandomCellInComponentOf(c grid.Cell, rng Rand) (grid.Cell, bool) {
	id, ok := p.ComponentOf(c)
	if !ok {
		return grid.Cell{}, false
	}
	members := p.components[id]
	return members[rng.IntN(len(members))], true
}
