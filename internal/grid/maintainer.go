package grid

import (
	"errors"
	"fmt"

	"github.com/gridcolony/navsim/internal/core/ecs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Locator resolves the cell an entity is placed at.
type Locator func(id ecs.EntityID) (Cell, bool)

type lifecycleEvent struct {
	id       ecs.EntityID
	attached bool
}

// Maintainer keeps one Index in sync with the lifecycle of its category
// marker component. Register it as a LifecycleObserver on the marker store;
// it records attach/detach events and applies them in Apply, so a marker
// attached before its location in the same tick is still indexed correctly.
type Maintainer struct {
	index  *Index
	locate Locator
	queue  []lifecycleEvent
	log    *zap.Logger
}

func NewMaintainer(index *Index, locate Locator, log *zap.Logger) *Maintainer {
	return &Maintainer{
		index:  index,
		locate: locate,
		queue:  make([]lifecycleEvent, 0, 32),
		log:    log.With(zap.String("category", string(index.Category()))),
	}
}

func (m *Maintainer) Index() *Index { return m.index }

func (m *Maintainer) OnAttached(id ecs.EntityID) {
	m.queue = append(m.queue, lifecycleEvent{id: id, attached: true})
}

func (m *Maintainer) OnDetached(id ecs.EntityID) {
	m.queue = append(m.queue, lifecycleEvent{id: id, attached: false})
}

// Queued returns the number of lifecycle events awaiting Apply.
func (m *Maintainer) Queued() int { return len(m.queue) }

// Apply replays queued lifecycle events against the index in arrival order
// and returns how many changed it.
func (m *Maintainer) Apply() int {
	applied := 0
	for _, ev := range m.queue {
		if !ev.attached {
			if c, ok := m.index.Remove(ev.id); ok {
				applied++
				m.log.Debug("occupant removed", zap.Uint64("entity", uint64(ev.id)),
					zap.Int("x", c.X), zap.Int("y", c.Y))
			}
			continue
		}
		c, ok := m.locate(ev.id)
		if !ok {
			m.log.Warn("occupant has no location", zap.Uint64("entity", uint64(ev.id)))
			continue
		}
		err := m.index.Insert(ev.id, c)
		var ow *OverwriteWarning
		switch {
		case err == nil:
			applied++
		case errors.As(err, &ow):
			applied++
			m.log.Warn("cell overwritten",
				zap.Int("x", c.X), zap.Int("y", c.Y),
				zap.Uint64("previous", uint64(ow.Previous)),
				zap.Uint64("entity", uint64(ev.id)))
		default:
			m.log.Warn("occupant not indexed", zap.Uint64("entity", uint64(ev.id)),
				zap.Int("x", c.X), zap.Int("y", c.Y), zap.Error(err))
		}
	}
	m.queue = m.queue[:0]
	return applied
}

// Audit checks that every indexed occupant still satisfies hasMarker. Broken
// entries are evicted so later reads see consistent state, and every one of
// them is reported in the returned error (wrapping ErrInconsistentOccupant).
func (m *Maintainer) Audit(hasMarker func(ecs.EntityID) bool) error {
	var bad []ecs.EntityID
	m.index.Each(func(id ecs.EntityID, _ Cell) {
		if !hasMarker(id) {
			bad = append(bad, id)
		}
	})
	var errs error
	for _, id := range bad {
		c, _ := m.index.Remove(id)
		errs = multierr.Append(errs, fmt.Errorf("entity %d at (%d,%d): %w", id, c.X, c.Y, ErrInconsistentOccupant))
	}
	return errs
}
