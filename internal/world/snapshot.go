package world

import (
	"time"

	"github.com/wrongway/engine/internal/core/ecs"
	"github.com/wrongway/engine/internal/daycycle"
	"github.com/wrongway/engine/internal/hazard"
)

// CarView is a read-only copy of one car.
type CarView struct {
	ID    ecs.EntityID
	Lane  int
	X     float64
	Z     float64
	Speed float64
}

type PlayerView struct {
	Lane   int
	Offset float64
	X      float64
	Z      float64
}

type MissileView struct {
	ID         string
	TargetLane int
	Phase      hazard.Phase
	Elapsed    time.Duration
}

type ChaseView struct {
	ID      string
	Elapsed time.Duration
	Cars    []ecs.EntityID
}

// Snapshot is everything a renderer or audio poller needs for one frame.
// It shares no memory with the live state.
type Snapshot struct {
	State     GameState
	SessionID string
	Survival  time.Duration
	Player    PlayerView
	Traffic   []CarView
	Police    []CarView
	Missile   *MissileView
	Chase     *ChaseView
	Env       daycycle.Environment
	LastCrash *Crash
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		State:     s.Game,
		SessionID: s.SessionID,
		Survival:  s.Survival,
		Player: PlayerView{
			Lane:   s.Player.Lane,
			Offset: s.Player.Offset,
			X:      s.PlayerX(),
			Z:      s.PlayerZ(),
		},
		Traffic: s.carViews(s.Traffic.IDs()),
		Police:  s.carViews(s.Police.IDs()),
		Env:     s.Env,
	}
	if m := s.Missile; m != nil {
		snap.Missile = &MissileView{
			ID:         m.ID,
			TargetLane: m.TargetLane,
			Phase:      m.Phase,
			Elapsed:    s.Survival - m.StartAt,
		}
	}
	if c := s.Chase; c != nil && c.Active {
		snap.Chase = &ChaseView{
			ID:      c.ID,
			Elapsed: s.Survival - c.StartAt,
			Cars:    append([]ecs.EntityID(nil), s.ChaseCars...),
		}
	}
	if s.LastCrash != nil {
		c := *s.LastCrash
		snap.LastCrash = &c
	}
	return snap
}

func (s *State) carViews(ids []ecs.EntityID) []CarView {
	out := make([]CarView, 0, len(ids))
	for _, id := range ids {
		b, ok := s.Bodies.Get(id)
		if !ok {
			continue
		}
		v := CarView{ID: id, Lane: b.Lane, X: b.X, Z: b.Z}
		if m, ok := s.Motions.Get(id); ok {
			v.Speed = m.Speed
		}
		out = append(out, v)
	}
	return out
}
