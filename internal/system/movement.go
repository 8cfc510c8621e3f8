package system

import (
	"time"

	"github.com/wrongway/engine/internal/core/ecs"
	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/hazard"
	"github.com/wrongway/engine/internal/world"
)

// MovementSystem integrates car positions. Traffic drives toward negative z
// at constant speed; police close on a stand-off point behind the player
// and never pass it. Phase 2 (Movement).
type MovementSystem struct {
	world *world.State
}

func NewMovementSystem(ws *world.State) *MovementSystem {
	return &MovementSystem{world: ws}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update(dt time.Duration) {
	ws := s.world
	if !ws.Playing() || dt <= 0 {
		return
	}
	sec := dt.Seconds()

	ecs.Each3(ws.Traffic, ws.Bodies, ws.Motions, func(_ ecs.EntityID, _ *world.TrafficCar, b *world.Body, m *world.Motion) {
		b.Z -= m.Speed * sec
	})

	p := ws.Tuning.Police
	pursuit := hazard.Pursuit{StandOff: p.StandOff, Aggressive: p.AggressiveStandOff}
	playerZ := ws.PlayerZ()
	ecs.Each3(ws.Police, ws.Bodies, ws.Motions, func(_ ecs.EntityID, _ *world.PoliceCar, b *world.Body, m *world.Motion) {
		target := pursuit.Target(playerZ, b.Lane, ws.Player.Lane)
		b.Z = hazard.Pursue(b.Z, m.Speed, dt, target)
	})
}

// CullSystem removes cars that fell far enough behind the player. Runs after
// MovementSystem in the same phase.
type CullSystem struct {
	world *world.State
}

func NewCullSystem(ws *world.State) *CullSystem {
	return &CullSystem{world: ws}
}

func (s *CullSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *CullSystem) Update(_ time.Duration) {
	ws := s.world
	if !ws.Playing() {
		return
	}
	Cull(ws)
}

// Cull queues every car behind PlayerBaseZ - CullDistance for removal and
// reports how many were queued.
func Cull(ws *world.State) int {
	limit := ws.Tuning.Player.BaseZ - ws.Tuning.Traffic.CullDistance
	n := 0
	ws.Bodies.Each(func(id ecs.EntityID, b *world.Body) {
		if b.Z < limit {
			ws.Despawn(id)
			n++
		}
	})
	return n
}
