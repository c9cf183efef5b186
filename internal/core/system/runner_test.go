package system

import (
	"testing"
	"time"
)

type probe struct {
	phase Phase
	name  string
	log   *[]string
}

func (p probe) Phase() Phase           { return p.phase }
func (p probe) Update(_ time.Duration) { *p.log = append(*p.log, p.name) }

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(probe{PhaseMovement, "move", &log})
	r.Register(probe{PhaseMaintenance, "maint-a", &log})
	r.Register(probe{PhaseMaintenance, "maint-b", &log})
	r.Register(probe{PhaseInput, "input", &log})

	r.Tick(time.Millisecond)

	want := []string{"input", "maint-a", "maint-b", "move"}
	if len(log) != len(want) {
		t.Fatalf("got %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("got %v, want %v", log, want)
		}
	}
	if r.Ticks() != 1 {
		t.Fatalf("expected tick count 1, got %d", r.Ticks())
	}
}

func TestTickPhaseRunsOnlyThatPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(probe{PhasePlan, "plan", &log})
	r.Register(probe{PhaseCleanup, "cleanup", &log})

	r.TickPhase(PhaseCleanup, 0)
	if len(log) != 1 || log[0] != "cleanup" {
		t.Fatalf("unexpected run %v", log)
	}
	if r.Ticks() != 0 {
		t.Fatalf("TickPhase must not count as a tick")
	}
}
