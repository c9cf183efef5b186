package grid

import "github.com/gridcolony/navsim/internal/core/ecs"

// Occupancy is the read-only view planners and reachability rebuilds need.
// Both a live *Index and its snapshots satisfy it.
type Occupancy interface {
	Size() int
	Occupied(c Cell) bool
}

// Notifier receives one call per cell whose occupancy changed.
type Notifier interface {
	NotifyChanged(category Category, cell Cell)
}

// Index is a size×size occupancy table for one category. Each cell holds at
// most one occupant, and an occupant is held by at most one cell.
//
// The live index is game-loop only: Insert and Remove are called by the
// Maintainer during the maintenance phase. Background work must read a
// Snapshot instead.
type Index struct {
	category Category
	size     int
	cells    []ecs.EntityID // [y*size + x], zero = empty
	count    int
	notify   Notifier
}

// NewIndex creates an empty index. notify may be nil.
func NewIndex(category Category, size int, notify Notifier) *Index {
	if size < 1 {
		size = 1
	}
	return &Index{
		category: category,
		size:     size,
		cells:    make([]ecs.EntityID, size*size),
		notify:   notify,
	}
}

func (ix *Index) Category() Category { return ix.category }
func (ix *Index) Size() int          { return ix.size }

// Len returns the number of occupied cells.
func (ix *Index) Len() int { return ix.count }

func (ix *Index) slot(c Cell) int { return c.Y*ix.size + c.X }

// Occupied reports whether c holds an occupant. Out-of-bounds cells are
// never occupied.
func (ix *Index) Occupied(c Cell) bool {
	if !c.In(ix.size) {
		return false
	}
	return ix.cells[ix.slot(c)] != 0
}

// OccupantAt returns the occupant of c.
func (ix *Index) OccupantAt(c Cell) (ecs.EntityID, bool) {
	if !c.In(ix.size) {
		return 0, false
	}
	id := ix.cells[ix.slot(c)]
	return id, id != 0
}

// Insert places occupant at c. If occupant is already indexed elsewhere it is
// moved. If c held a different occupant that occupant is evicted and an
// *OverwriteWarning is returned alongside the successful insert.
func (ix *Index) Insert(occupant ecs.EntityID, c Cell) error {
	if !c.In(ix.size) {
		return ErrOutOfBounds
	}
	if occupant.IsZero() {
		return nil
	}
	i := ix.slot(c)
	prev := ix.cells[i]
	if prev == occupant {
		return nil
	}
	if old, ok := ix.find(occupant); ok {
		ix.clear(old)
	}
	ix.cells[i] = occupant
	if prev == 0 {
		ix.count++
	}
	ix.changed(c)
	if prev != 0 {
		return &OverwriteWarning{Category: ix.category, Cell: c, Previous: prev, Occupant: occupant}
	}
	return nil
}

// Remove clears the cell holding occupant. The cell is found by a linear
// scan; the caller usually only has the entity id by the time it is gone.
func (ix *Index) Remove(occupant ecs.EntityID) (Cell, bool) {
	if occupant.IsZero() {
		return Cell{}, false
	}
	c, ok := ix.find(occupant)
	if !ok {
		return Cell{}, false
	}
	ix.clear(c)
	return c, true
}

// Snapshot returns a deep, independent copy that never notifies. Mutating the
// live index afterwards does not affect the copy.
func (ix *Index) Snapshot() *Index {
	cells := make([]ecs.EntityID, len(ix.cells))
	copy(cells, ix.cells)
	return &Index{
		category: ix.category,
		size:     ix.size,
		cells:    cells,
		count:    ix.count,
	}
}

// Each visits every occupied cell in row-major order.
func (ix *Index) Each(fn func(ecs.EntityID, Cell)) {
	for i, id := range ix.cells {
		if id != 0 {
			fn(id, Cell{X: i % ix.size, Y: i / ix.size})
		}
	}
}

func (ix *Index) find(occupant ecs.EntityID) (Cell, bool) {
	for i, id := range ix.cells {
		if id == occupant {
			return Cell{X: i % ix.size, Y: i / ix.size}, true
		}
	}
	return Cell{}, false
}

func (ix *Index) clear(c Cell) {
	ix.cells[ix.slot(c)] = 0
	ix.count--
	ix.changed(c)
}

func (ix *Index) changed(c Cell) {
	if ix.notify != nil {
		ix.notify.NotifyChanged(ix.category, c)
	}
}
