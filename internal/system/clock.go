package system

import (
	"time"

	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/world"
)

// ClockSystem derives survival time from the wall clock of the tick. Every
// later system reads State.Survival. Phase 0 (Clock).
type ClockSystem struct {
	world *world.State
}

func NewClockSystem(ws *world.State) *ClockSystem {
	return &ClockSystem{world: ws}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseClock }

func (s *ClockSystem) Update(_ time.Duration) {
	if !s.world.Playing() {
		return
	}
	// Wall clocks can step backwards; survival never does.
	if d := s.world.Now.Sub(s.world.StartWall); d > s.world.Survival {
		s.world.Survival = d
	}
}
