package event

import "github.com/gridcolony/navsim/internal/grid"

// CellChanged reports that the occupancy of one cell in the index of
// Category changed (an occupant was inserted, replaced or removed).
type CellChanged struct {
	Cell     grid.Cell
	Category grid.Category
}

// GridNotifier adapts a Bus to grid.Notifier so indexes can publish
// CellChanged events without importing this package.
type GridNotifier struct {
	Bus *Bus
}

func (n GridNotifier) NotifyChanged(category grid.Category, cell grid.Cell) {
	Emit(n.Bus, CellChanged{Cell: cell, Category: category})
}
