package system

import (
	"math"
	"time"

	"github.com/wrongway/engine/internal/core/ecs"
	"github.com/wrongway/engine/internal/core/event"
	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/world"
)

// CollisionSystem tests the player against traffic in spawn order and ends
// the session on the first hit. Police cars are not collision targets.
// Phase 3 (Collision).
type CollisionSystem struct {
	world *world.State
}

func NewCollisionSystem(ws *world.State) *CollisionSystem {
	return &CollisionSystem{world: ws}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(_ time.Duration) {
	ws := s.world
	if !ws.Playing() {
		return
	}
	if _, hit := FirstHit(ws); hit {
		ws.Crash(ws.Player.Lane, event.CauseTraffic)
	}
}

// FirstHit returns the earliest spawned traffic car overlapping the player.
func FirstHit(ws *world.State) (ecs.EntityID, bool) {
	c := ws.Tuning.Collision
	px, pz := ws.PlayerX(), ws.PlayerZ()
	return ecs.Find2(ws.Traffic, ws.Bodies, func(_ ecs.EntityID, _ *world.TrafficCar, b *world.Body) bool {
		return math.Abs(b.X-px) < c.Lateral && math.Abs(b.Z-pz) < c.Longitudinal
	})
}
