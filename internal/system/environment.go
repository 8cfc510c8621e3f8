package system

import (
	"time"

	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/daycycle"
	"github.com/wrongway/engine/internal/world"
)

// EnvironmentSystem samples the day cycle for the current survival time.
// Phase 5 (Environment).
type EnvironmentSystem struct {
	world *world.State
}

func NewEnvironmentSystem(ws *world.State) *EnvironmentSystem {
	return &EnvironmentSystem{world: ws}
}

func (s *EnvironmentSystem) Phase() coresys.Phase { return coresys.PhaseEnvironment }

func (s *EnvironmentSystem) Update(_ time.Duration) {
	ws := s.world
	if !ws.Playing() {
		return
	}
	ws.Env = daycycle.Sample(ws.Survival, ws.Tuning.DayCycle)
}
