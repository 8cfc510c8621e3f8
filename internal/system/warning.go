package system

import (
	"time"

	"github.com/wrongway/engine/internal/core/ecs"
	"github.com/wrongway/engine/internal/core/event"
	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/world"
)

// WarningSystem publishes one approach cue per traffic car when it closes
// within warning range ahead of the player. Pan follows the car's lane and
// volume rises as it nears. Phase 5 (Environment).
type WarningSystem struct {
	world *world.State
}

func NewWarningSystem(ws *world.State) *WarningSystem {
	return &WarningSystem{world: ws}
}

func (s *WarningSystem) Phase() coresys.Phase { return coresys.PhaseEnvironment }

func (s *WarningSystem) Update(_ time.Duration) {
	ws := s.world
	if !ws.Playing() {
		return
	}
	w := ws.Tuning.Warning
	playerZ := ws.PlayerZ()

	ecs.Each2(ws.Traffic, ws.Bodies, func(id ecs.EntityID, tc *world.TrafficCar, b *world.Body) {
		if tc.Warned {
			return
		}
		d := b.Z - playerZ
		if d <= 0 || d > w.Range {
			return
		}
		tc.Warned = true
		event.Emit(ws.Bus, ws.Survival, event.TrafficWarning{
			CarID:    id,
			Lane:     b.Lane,
			Distance: d,
			Pan:      float64(b.Lane - 1),
			Volume:   WarningVolume(d, w.Range, w.MinVolume),
		})
	})
}

// WarningVolume scales linearly from minVolume at the edge of the range to 1
// at the player.
func WarningVolume(distance, rng, minVolume float64) float64 {
	if rng <= 0 {
		return 1
	}
	return max(minVolume, min(1, (rng-distance)/rng))
}
