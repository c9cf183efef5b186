package grid

import (
	"errors"
	"fmt"

	"github.com/gridcolony/navsim/internal/core/ecs"
)

var (
	// ErrOutOfBounds is returned when a cell lies outside the index.
	ErrOutOfBounds = errors.New("grid: cell out of bounds")
	// ErrInconsistentOccupant marks an indexed occupant that no longer carries
	// the category marker. It means a lifecycle event was lost.
	ErrInconsistentOccupant = errors.New("grid: occupant missing category marker")
)

// OverwriteWarning is returned by Insert when the target cell already held a
// different occupant. The insert still happened; the new occupant wins.
type OverwriteWarning struct {
	Category Category
	Cell     Cell
	Previous ecs.EntityID
	Occupant ecs.EntityID
}

func (w *OverwriteWarning) Error() string {
	return fmt.Sprintf("grid: %s cell (%d,%d) held %d, overwritten by %d",
		w.Category, w.Cell.X, w.Cell.Y, w.Previous, w.Occupant)
}
