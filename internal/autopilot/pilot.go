// Package autopilot is a headless player. It reads engine snapshots and
// answers with lane-change intents, which lets the host run and soak-test
// sessions without a keyboard.
package autopilot

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/hazard"
	"github.com/wrongway/engine/internal/world"
)

type Intent int

const (
	Hold Intent = iota
	Left
	Right
)

func (i Intent) String() string {
	switch i {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "hold"
	}
}

// Driver receives intents. *sim.Engine satisfies it.
type Driver interface {
	LaneLeft() bool
	LaneRight() bool
}

type Pilot struct {
	lookAhead float64
	reaction  time.Duration
	log       *zap.Logger

	moved    bool
	lastMove time.Duration
}

func New(lookAhead float64, reaction time.Duration, log *zap.Logger) *Pilot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pilot{lookAhead: lookAhead, reaction: reaction, log: log}
}

// Reset forgets the reaction timer; call it when a new session starts.
func (p *Pilot) Reset() {
	p.moved = false
	p.lastMove = 0
}

// Steer decides on the snapshot and forwards the intent to d.
func (p *Pilot) Steer(s world.Snapshot, d Driver) Intent {
	in := p.Decide(s)
	switch in {
	case Left:
		d.LaneLeft()
	case Right:
		d.LaneRight()
	}
	return in
}

// Decide picks the adjacent lane with the most clearance ahead, holding the
// current lane on ties. A lane targeted by a missile has no clearance.
func (p *Pilot) Decide(s world.Snapshot) Intent {
	if s.State != world.Playing {
		return Hold
	}
	if p.moved && s.Survival-p.lastMove < p.reaction {
		return Hold
	}

	lane := s.Player.Lane
	best, bestClear := lane, p.clearance(s, lane)
	for _, l := range []int{lane - 1, lane + 1} {
		if l < 0 || l >= data.LaneCount {
			continue
		}
		if c := p.clearance(s, l); c > bestClear {
			best, bestClear = l, c
		}
	}
	if best == lane {
		return Hold
	}

	p.moved = true
	p.lastMove = s.Survival
	in := Right
	if best < lane {
		in = Left
	}
	p.log.Debug("autopilot lane change",
		zap.Stringer("intent", in),
		zap.Int("from", lane),
		zap.Float64("clearance", bestClear),
	)
	return in
}

// clearance is the distance to the nearest car in lane that the player has
// not yet passed, capped at lookAhead.
func (p *Pilot) clearance(s world.Snapshot, lane int) float64 {
	if m := s.Missile; m != nil && m.TargetLane == lane {
		if m.Phase == hazard.PhaseWarning {
			return 0
		}
		return -1
	}
	clear := p.lookAhead
	for _, c := range s.Traffic {
		if c.Lane != lane {
			continue
		}
		d := c.Z - s.Player.Z
		// Cars already alongside still block until fully past.
		if d < -3 {
			continue
		}
		clear = math.Min(clear, math.Max(d, 0))
	}
	return clear
}
