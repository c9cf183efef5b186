package component

import (
	"github.com/gridcolony/navsim/internal/core/ecs"
	"github.com/gridcolony/navsim/internal/grid"
)

// Stores bundles every component store of the simulation, all registered on
// one world so destroying an entity clears it everywhere.
type Stores struct {
	Locations  *ecs.PtrComponentStore[Location]
	Transforms *ecs.PtrComponentStore[Transform]
	Movers     *ecs.PtrComponentStore[Mover]
	Facings    *ecs.PtrComponentStore[Facing]
	Paths      *ecs.PtrComponentStore[PathQueue]
	Brains     *ecs.PtrComponentStore[Brain]
	Walls      *ecs.PtrComponentStore[Wall]
	Machines   *ecs.PtrComponentStore[Machine]
}

func NewStores(w *ecs.World) *Stores {
	r := w.Registry()
	return &Stores{
		Locations:  ecs.NewStore[Location](r),
		Transforms: ecs.NewStore[Transform](r),
		Movers:     ecs.NewStore[Mover](r),
		Facings:    ecs.NewStore[Facing](r),
		Paths:      ecs.NewStore[PathQueue](r),
		Brains:     ecs.NewStore[Brain](r),
		Walls:      ecs.NewStore[Wall](r),
		Machines:   ecs.NewStore[Machine](r),
	}
}

// Locate resolves an entity's cell. It is the grid.Locator for maintainers.
func (s *Stores) Locate(id ecs.EntityID) (grid.Cell, bool) {
	loc, ok := s.Locations.Get(id)
	if !ok {
		return grid.Cell{}, false
	}
	return loc.Cell, true
}

// SpawnWall creates a wall entity at c. The location is attached before the
// marker; the maintainer indexes it on the next maintenance pass either way.
func (s *Stores) SpawnWall(w *ecs.World, c grid.Cell) ecs.EntityID {
	id := w.CreateEntity()
	s.Locations.Set(id, &Location{Cell: c})
	s.Walls.Set(id, &Wall{})
	return id
}

// SpawnMachine creates a machine entity at c.
func (s *Stores) SpawnMachine(w *ecs.World, c, use grid.Cell) ecs.EntityID {
	id := w.CreateEntity()
	s.Locations.Set(id, &Location{Cell: c})
	s.Machines.Set(id, &Machine{UseOffset: use})
	return id
}

// SpawnAgent creates a mobile agent at world position pos.
func (s *Stores) SpawnAgent(w *ecs.World, pos grid.Vec2, speed float64) ecs.EntityID {
	id := w.CreateEntity()
	s.Transforms.Set(id, &Transform{Pos: pos})
	s.Movers.Set(id, &Mover{Speed: speed})
	s.Facings.Set(id, &Facing{})
	s.Paths.Set(id, &PathQueue{})
	s.Brains.Set(id, &Brain{})
	return id
}
