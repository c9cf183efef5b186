package component

import "github.com/gridcolony/navsim/internal/grid"

// Wall marks an entity as a movement-blocking obstacle.
type Wall struct{}

// Machine marks an interactable occupant. Agents use it from the cell at
// Location + UseOffset.
type Machine struct {
	UseOffset grid.Cell
}
