package system

import "time"

// Phase defines execution ordering within a single tick. The order is part
// of the simulation contract: positions are integrated before collisions are
// judged, and collisions are judged before timed hazards can end the session.
type Phase int

const (
	PhaseClock       Phase = iota // 0: survival time
	PhaseSpawn                    // 1: traffic cadence
	PhaseMovement                 // 2: integrate positions, cull
	PhaseCollision                // 3: player vs traffic
	PhaseHazard                   // 4: missile, then police
	PhaseEnvironment              // 5: day factor, warnings
	PhaseCleanup                  // 6: destroy queued entities, flush events
)

var phaseNames = [...]string{"clock", "spawn", "movement", "collision", "hazard", "environment", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
