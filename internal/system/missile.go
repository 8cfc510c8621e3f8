package system

import (
	"time"

	"github.com/google/uuid"
	"github.com/wrongway/engine/internal/core/event"
	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/hazard"
	"github.com/wrongway/engine/internal/world"
	"go.uber.org/zap"
)

// MissileSystem advances the active missile attack and rolls for a new one
// once warm-up and cooldown allow it. Only one attack exists at a time.
// Phase 4 (Hazard), ahead of PoliceSystem.
type MissileSystem struct {
	world *world.State

	// Roll decides whether an attack fires this tick given the per-tick
	// probability p. Defaults to the session RNG.
	Roll func(p float64) bool
}

func NewMissileSystem(ws *world.State) *MissileSystem {
	s := &MissileSystem{world: ws}
	s.Roll = func(p float64) bool { return ws.Rand.Float64() < p }
	return s
}

func (s *MissileSystem) Phase() coresys.Phase { return coresys.PhaseHazard }

func (s *MissileSystem) Update(dt time.Duration) {
	ws := s.world
	if !ws.Playing() {
		return
	}

	if ws.Missile != nil {
		s.advance()
		return
	}

	m := ws.Tuning.Missile
	if !s.gate().Open(ws.Survival, false, ws.MissileCount > 0, ws.LastMissileEnd) {
		return
	}
	if s.Roll(hazard.TriggerProbability(m.TriggerRate, dt)) {
		s.Trigger(false)
	}
}

// Trigger starts an attack on a random lane. force skips warm-up and
// cooldown; an existing attack always blocks a new one.
func (s *MissileSystem) Trigger(force bool) bool {
	ws := s.world
	if !ws.Playing() || ws.Missile != nil {
		return false
	}
	if !force && !s.gate().Open(ws.Survival, false, ws.MissileCount > 0, ws.LastMissileEnd) {
		return false
	}

	m := hazard.NewMissile(uuid.New().String(), ws.Rand.Intn(data.LaneCount), ws.Survival)
	ws.Missile = m
	ws.MissileCount++
	s.entered(m, hazard.PhaseWarning)
	return true
}

func (s *MissileSystem) advance() {
	ws := s.world
	m := ws.Missile
	step := m.Advance(ws.Survival, timings(ws.Tuning.Missile))

	for _, phase := range step.Entered {
		s.entered(m, phase)
		if phase == hazard.PhaseImpact && ws.Player.Lane == m.TargetLane {
			ws.Crash(m.TargetLane, event.CauseMissile)
			// The attack stays frozen in Impact for the crash snapshot.
			return
		}
	}

	if step.Expired {
		ws.Missile = nil
		ws.LastMissileEnd = ws.Survival
		event.Emit(ws.Bus, ws.Survival, event.MissileCleared{AttackID: m.ID})
		ws.Log.Info("missile cleared", zap.String("attack", m.ID))
	}
}

func (s *MissileSystem) entered(m *hazard.Missile, phase hazard.Phase) {
	ws := s.world
	event.Emit(ws.Bus, ws.Survival, event.MissilePhaseEntered{
		AttackID:   m.ID,
		Phase:      phase,
		TargetLane: m.TargetLane,
	})
	ws.Log.Info("missile phase",
		zap.String("attack", m.ID),
		zap.Stringer("phase", phase),
		zap.Int("lane", m.TargetLane),
		zap.Duration("survival", ws.Survival),
	)
}

func (s *MissileSystem) gate() hazard.MissileGate {
	m := s.world.Tuning.Missile
	return hazard.MissileGate{WarmUp: m.WarmUp, Cooldown: m.Cooldown}
}

func timings(m data.MissileTuning) hazard.MissileTimings {
	return hazard.MissileTimings{Incoming: m.Incoming, Impact: m.Impact, Clear: m.Clear}
}
