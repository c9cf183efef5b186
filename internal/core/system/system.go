package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput       Phase = iota // 0: external edits (layout churn, spawns)
	PhaseMaintenance              // 1: apply lifecycle events to occupancy indexes
	PhaseNotify                   // 2: flush change notifications, invalidate paths
	PhasePlan                     // 3: reachability rebuilds, path requests and polling
	PhaseMovement                 // 4: advance entities along their paths
	PhaseCleanup                  // 5: destroy queued entities
)

var phaseNames = [...]string{"input", "maintenance", "notify", "plan", "movement", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
