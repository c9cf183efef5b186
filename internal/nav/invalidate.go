package nav

import (
	"github.com/gridcolony/navsim/internal/component"
	"github.com/gridcolony/navsim/internal/core/ecs"
	"github.com/gridcolony/navsim/internal/core/event"
	"github.com/gridcolony/navsim/internal/grid"
	"go.uber.org/zap"
)

// Invalidator drops path data made stale by an obstacle change: queues that
// route through the changed cell are cleared, and all in-flight searches are
// cancelled since their snapshots predate the change.
type Invalidator struct {
	category grid.Category
	size     int
	paths    *ecs.PtrComponentStore[component.PathQueue]
	sched    *Scheduler
	log      *zap.Logger
}

func NewInvalidator(category grid.Category, size int, paths *ecs.PtrComponentStore[component.PathQueue], sched *Scheduler, log *zap.Logger) *Invalidator {
	return &Invalidator{category: category, size: size, paths: paths, sched: sched, log: log}
}

// Subscribe registers the invalidator on bus.
func (inv *Invalidator) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, inv.OnCellChanged)
}

func (inv *Invalidator) OnCellChanged(ev event.CellChanged) {
	if ev.Category != inv.category {
		return
	}
	cleared := 0
	inv.paths.Each(func(_ ecs.EntityID, q *component.PathQueue) {
		if q.Contains(ev.Cell, inv.size) {
			q.Clear()
			cleared++
		}
	})
	cancelled := inv.sched.CancelAll()
	if cleared > 0 || cancelled > 0 {
		inv.log.Debug("paths invalidated",
			zap.Int("x", ev.Cell.X), zap.Int("y", ev.Cell.Y),
			zap.Int("cleared", cleared), zap.Int("cancelled", cancelled))
	}
}
