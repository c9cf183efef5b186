package system

import (
	"time"

	"github.com/gridcolony/navsim/internal/core/ecs"
	coresys "github.com/gridcolony/navsim/internal/core/system"
	"github.com/gridcolony/navsim/internal/grid"
	"go.uber.org/zap"
)

type maintained struct {
	m         *grid.Maintainer
	hasMarker func(ecs.EntityID) bool
}

// MaintenanceSystem applies queued marker lifecycle events to every
// occupancy index before anything reads them, and periodically audits the
// indexes against their marker stores.
type MaintenanceSystem struct {
	indexes    []maintained
	auditEvery uint64
	ticks      uint64
	log        *zap.Logger
}

// NewMaintenanceSystem audits every auditEvery ticks; 0 disables auditing.
func NewMaintenanceSystem(auditEvery uint64, log *zap.Logger) *MaintenanceSystem {
	return &MaintenanceSystem{auditEvery: auditEvery, log: log}
}

// Add registers a maintainer together with the marker check used to audit it.
func (s *MaintenanceSystem) Add(m *grid.Maintainer, hasMarker func(ecs.EntityID) bool) {
	s.indexes = append(s.indexes, maintained{m: m, hasMarker: hasMarker})
}

func (s *MaintenanceSystem) Phase() coresys.Phase { return coresys.PhaseMaintenance }

func (s *MaintenanceSystem) Update(_ time.Duration) {
	for _, ix := range s.indexes {
		ix.m.Apply()
	}
	s.ticks++
	if s.auditEvery == 0 || s.ticks%s.auditEvery != 0 {
		return
	}
	for _, ix := range s.indexes {
		if err := ix.m.Audit(ix.hasMarker); err != nil {
			s.log.DPanic("occupancy index inconsistent",
				zap.String("category", string(ix.m.Index().Category())), zap.Error(err))
		}
	}
}
