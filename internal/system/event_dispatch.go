package system

import (
	"time"

	"github.com/gridcolony/navsim/internal/core/event"
	coresys "github.com/gridcolony/navsim/internal/core/system"
)

// EventDispatchSystem delivers everything emitted since the last tick,
// including the cell changes produced by this tick's maintenance pass.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseNotify }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.Flush()
}
