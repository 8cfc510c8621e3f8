// Package hazard holds the timed hazards of a session as explicit state
// machines. Transitions are pure functions of elapsed survival time so they
// can be tested without a running tick loop.
package hazard

import (
	"fmt"
	"math"
	"time"
)

// Phase is the stage of a missile attack. Phases only move forward.
type Phase int

const (
	PhaseWarning Phase = iota + 1
	PhaseIncoming
	PhaseImpact
)

func (p Phase) String() string {
	switch p {
	case PhaseWarning:
		return "warning"
	case PhaseIncoming:
		return "incoming"
	case PhaseImpact:
		return "impact"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// MissileTimings are offsets from the attack's trigger time.
type MissileTimings struct {
	Incoming time.Duration
	Impact   time.Duration
	Clear    time.Duration
}

// PhaseAt maps elapsed time since trigger to the phase the attack is in.
// expired is true once the attack record must be gone.
func (t MissileTimings) PhaseAt(elapsed time.Duration) (phase Phase, expired bool) {
	switch {
	case elapsed >= t.Clear:
		return PhaseImpact, true
	case elapsed >= t.Impact:
		return PhaseImpact, false
	case elapsed >= t.Incoming:
		return PhaseIncoming, false
	default:
		return PhaseWarning, false
	}
}

// Missile is a single aerial strike aimed at one lane.
type Missile struct {
	ID         string
	TargetLane int
	StartAt    time.Duration // survival time at trigger
	Phase      Phase
	PhaseAt    time.Duration // survival time the current phase was entered
}

func NewMissile(id string, targetLane int, startAt time.Duration) *Missile {
	return &Missile{
		ID:         id,
		TargetLane: targetLane,
		StartAt:    startAt,
		Phase:      PhaseWarning,
		PhaseAt:    startAt,
	}
}

// Step is the outcome of advancing a missile to a new time.
type Step struct {
	Entered []Phase // phases entered by this advance, in order
	Expired bool
}

// EnteredImpact reports whether this step crossed into the impact phase.
func (s Step) EnteredImpact() bool {
	for _, p := range s.Entered {
		if p == PhaseImpact {
			return true
		}
	}
	return false
}

// Advance moves the missile to the phase matching now. A long frame may
// enter several phases at once; every one of them is reported so no cue or
// impact check is skipped.
func (m *Missile) Advance(now time.Duration, t MissileTimings) Step {
	target, expired := t.PhaseAt(now - m.StartAt)
	var step Step
	for m.Phase < target {
		m.Phase++
		m.PhaseAt = now
		step.Entered = append(step.Entered, m.Phase)
	}
	step.Expired = expired
	return step
}

// MissileGate decides when a new attack may be rolled for.
type MissileGate struct {
	WarmUp   time.Duration // survival time before the first attack
	Cooldown time.Duration // quiet time after an attack is removed
}

// Open reports whether an attack may be triggered now. lastEnd is the
// survival time the previous attack was removed; hadAttack is false until
// the first attack of the session has ended.
func (g MissileGate) Open(survival time.Duration, active bool, hadAttack bool, lastEnd time.Duration) bool {
	if active || survival < g.WarmUp {
		return false
	}
	if hadAttack && survival-lastEnd < g.Cooldown {
		return false
	}
	return true
}

// TriggerProbability converts a memoryless trigger rate (events per second)
// into the chance of firing within one frame of length dt. Summed over
// frames this gives the same exponential wait regardless of frame rate.
func TriggerProbability(ratePerSecond float64, dt time.Duration) float64 {
	if ratePerSecond <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-ratePerSecond*dt.Seconds())
}
