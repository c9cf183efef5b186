package grid

import (
	"errors"
	"testing"

	"github.com/gridcolony/navsim/internal/core/ecs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	world    *ecs.World
	location *ecs.PtrComponentStore[Cell]
	marker   *ecs.PtrComponentStore[struct{}]
	index    *Index
	maint    *Maintainer
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	w := ecs.NewWorld()
	f := &fixture{
		world:    w,
		location: ecs.NewStore[Cell](w.Registry()),
		marker:   ecs.NewStore[struct{}](w.Registry()),
		index:    NewIndex(Wall, 5, nil),
		logs:     logs,
	}
	f.maint = NewMaintainer(f.index, func(id ecs.EntityID) (Cell, bool) {
		c, ok := f.location.Get(id)
		if !ok {
			return Cell{}, false
		}
		return *c, true
	}, zap.New(core))
	f.marker.Observe(f.maint)
	return f
}

func (f *fixture) spawn(c Cell) ecs.EntityID {
	id := f.world.CreateEntity()
	f.marker.Set(id, &struct{}{})
	f.location.Set(id, &c)
	return id
}

func TestMaintainerIndexesMarkerBeforeLocation(t *testing.T) {
	f := newFixture(t)
	id := f.spawn(Cell{X: 1, Y: 2})
	if f.index.Occupied(Cell{X: 1, Y: 2}) {
		t.Fatalf("index mutated before Apply")
	}
	if n := f.maint.Apply(); n != 1 {
		t.Fatalf("expected 1 applied change, got %d", n)
	}
	if got, _ := f.index.OccupantAt(Cell{X: 1, Y: 2}); got != id {
		t.Fatalf("expected occupant %d, got %d", id, got)
	}
}

func TestMaintainerRemovesOnDestroy(t *testing.T) {
	f := newFixture(t)
	id := f.spawn(Cell{X: 0, Y: 0})
	f.maint.Apply()

	f.world.MarkForDestruction(id)
	f.world.FlushDestroyQueue()
	f.maint.Apply()

	if f.index.Occupied(Cell{X: 0, Y: 0}) {
		t.Fatalf("destroyed occupant still indexed")
	}
}

func TestMaintainerLogsOverwrite(t *testing.T) {
	f := newFixture(t)
	f.spawn(Cell{X: 3, Y: 3})
	f.spawn(Cell{X: 3, Y: 3})
	f.maint.Apply()

	warns := f.logs.FilterMessage("cell overwritten").All()
	if len(warns) != 1 {
		t.Fatalf("expected one overwrite warning, got %d", len(warns))
	}
	if warns[0].Level != zapcore.WarnLevel {
		t.Fatalf("overwrite logged at %s", warns[0].Level)
	}
}

func TestMaintainerSkipsOccupantWithoutLocation(t *testing.T) {
	f := newFixture(t)
	id := f.world.CreateEntity()
	f.marker.Set(id, &struct{}{})
	if n := f.maint.Apply(); n != 0 {
		t.Fatalf("expected nothing applied, got %d", n)
	}
	if f.logs.FilterMessage("occupant has no location").Len() != 1 {
		t.Fatalf("missing warning for unlocated occupant")
	}
}

func TestAuditEvictsOccupantsWithoutMarker(t *testing.T) {
	f := newFixture(t)
	keep := f.spawn(Cell{X: 0, Y: 0})
	lost := f.spawn(Cell{X: 1, Y: 0})
	f.maint.Apply()

	err := f.maint.Audit(func(id ecs.EntityID) bool { return id == keep })
	if !errors.Is(err, ErrInconsistentOccupant) {
		t.Fatalf("expected ErrInconsistentOccupant, got %v", err)
	}
	if _, ok := f.index.Remove(lost); ok {
		t.Fatalf("audit left the broken occupant indexed")
	}
	if !f.index.Occupied(Cell{X: 0, Y: 0}) {
		t.Fatalf("audit evicted a healthy occupant")
	}
	if err := f.maint.Audit(f.marker.Has); err != nil {
		t.Fatalf("second audit should be clean, got %v", err)
	}
}
