package system

import (
	"time"

	"github.com/google/uuid"
	"github.com/wrongway/engine/internal/core/ecs"
	"github.com/wrongway/engine/internal/core/event"
	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/hazard"
	"github.com/wrongway/engine/internal/world"
	"go.uber.org/zap"
)

// PoliceSystem starts and ends chases. A chase owns one police car per lane;
// the cars are removed in the same tick the chase ends. Pursuit itself is
// integrated by MovementSystem. Phase 4 (Hazard).
type PoliceSystem struct {
	world *world.State
}

func NewPoliceSystem(ws *world.State) *PoliceSystem {
	return &PoliceSystem{world: ws}
}

func (s *PoliceSystem) Phase() coresys.Phase { return coresys.PhaseHazard }

func (s *PoliceSystem) Update(_ time.Duration) {
	ws := s.world
	if !ws.Playing() {
		return
	}
	p := ws.Tuning.Police

	if c := ws.Chase; c != nil {
		if c.Advance(ws.Survival, p.Duration) {
			s.end(c)
		}
		return
	}

	gate := hazard.ChaseGate{First: p.FirstChase, Cooldown: p.Cooldown}
	if gate.Open(ws.Survival, false, ws.ChaseCount > 0, ws.LastChaseEnd) {
		s.Start()
	}
}

// Start begins a chase with one car per lane behind the player. It reports
// false while a chase is already running.
func (s *PoliceSystem) Start() bool {
	ws := s.world
	if !ws.Playing() || ws.Chase != nil {
		return false
	}
	p := ws.Tuning.Police
	c := hazard.NewChase(uuid.New().String(), ws.Survival)
	z := ws.PlayerZ() - p.SpawnBehind

	cars := make([]ecs.EntityID, 0, data.LaneCount)
	for lane := 0; lane < data.LaneCount; lane++ {
		cars = append(cars, ws.SpawnPolice(lane, z, p.Speed, c.ID))
	}
	ws.Chase = c
	ws.ChaseCars = cars
	ws.ChaseCount++

	event.Emit(ws.Bus, ws.Survival, event.ChaseStarted{
		ChaseID: c.ID,
		Cars:    append([]ecs.EntityID(nil), cars...),
	})
	ws.Log.Info("chase started",
		zap.String("chase", c.ID),
		zap.Duration("survival", ws.Survival),
	)
	return true
}

func (s *PoliceSystem) end(c *hazard.Chase) {
	ws := s.world
	for _, id := range ws.ChaseCars {
		ws.Despawn(id)
	}
	ws.Chase = nil
	ws.ChaseCars = nil
	ws.LastChaseEnd = ws.Survival
	event.Emit(ws.Bus, ws.Survival, event.ChaseEnded{ChaseID: c.ID})
	ws.Log.Info("chase ended",
		zap.String("chase", c.ID),
		zap.Duration("survival", ws.Survival),
	)
}
