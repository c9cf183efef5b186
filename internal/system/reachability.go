package system

import (
	"time"

	"github.com/gridcolony/navsim/internal/core/event"
	coresys "github.com/gridcolony/navsim/internal/core/system"
	"github.com/gridcolony/navsim/internal/grid"
	"github.com/gridcolony/navsim/internal/reach"
)

// ReachabilitySystem marks the reachability index dirty on every change to
// the planning category and drives its background rebuilds.
type ReachabilitySystem struct {
	index    *reach.Index
	category grid.Category
}

func NewReachabilitySystem(index *reach.Index, category grid.Category, bus *event.Bus) *ReachabilitySystem {
	s := &ReachabilitySystem{index: index, category: category}
	event.Subscribe(bus, s.onCellChanged)
	return s
}

func (s *ReachabilitySystem) onCellChanged(ev event.CellChanged) {
	if ev.Category == s.category {
		s.index.MarkDirty()
	}
}

func (s *ReachabilitySystem) Phase() coresys.Phase { return coresys.PhasePlan }

func (s *ReachabilitySystem) Update(_ time.Duration) {
	s.index.Update()
}
