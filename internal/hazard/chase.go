package hazard

import (
	"math"
	"time"
)

// Chase is a police pursuit episode. Its cars live in the entity registry
// and are removed together with the chase.
type Chase struct {
	ID      string
	StartAt time.Duration
	Active  bool
}

func NewChase(id string, startAt time.Duration) *Chase {
	return &Chase{ID: id, StartAt: startAt, Active: true}
}

// Advance deactivates the chase once duration has elapsed and reports
// whether it ended on this call.
func (c *Chase) Advance(now, duration time.Duration) bool {
	if !c.Active {
		return false
	}
	if now-c.StartAt >= duration {
		c.Active = false
		return true
	}
	return false
}

// ChaseGate decides when the next chase starts.
type ChaseGate struct {
	First    time.Duration // survival time of the first chase
	Cooldown time.Duration // quiet time after a chase ends
}

func (g ChaseGate) Open(survival time.Duration, active bool, hadChase bool, lastEnd time.Duration) bool {
	if active {
		return false
	}
	if !hadChase {
		return survival >= g.First
	}
	return survival-lastEnd >= g.Cooldown
}

// Pursuit holds the stand-off distances police keep behind the player.
type Pursuit struct {
	StandOff   float64 // cars in other lanes
	Aggressive float64 // car in the player's lane
}

// Target returns the z a police car in carLane closes toward.
func (p Pursuit) Target(playerZ float64, carLane, playerLane int) float64 {
	if carLane == playerLane {
		return playerZ - p.Aggressive
	}
	return playerZ - p.StandOff
}

// Pursue advances z toward target by speed*dt without passing it.
func Pursue(z, speed float64, dt time.Duration, target float64) float64 {
	return math.Min(z+speed*dt.Seconds(), target)
}
