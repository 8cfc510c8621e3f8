package system

import (
	"time"

	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/world"
)

// CleanupSystem flushes the deferred entity destruction queue and publishes
// the tick's events. Phase 6 (Cleanup).
type CleanupSystem struct {
	world *world.State
}

func NewCleanupSystem(ws *world.State) *CleanupSystem {
	return &CleanupSystem{world: ws}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.world.World().FlushDestroyQueue()
	s.world.Bus.Flush()
}
