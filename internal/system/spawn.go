package system

import (
	"time"

	"github.com/wrongway/engine/internal/core/ecs"
	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/world"
)

// SpawnPolicy is the traffic difficulty curve.
type SpawnPolicy interface {
	Interval(survival time.Duration) time.Duration
	Speed(survival time.Duration) float64
}

// FixedPolicy spawns at a constant cadence and speed.
type FixedPolicy struct {
	Every    time.Duration
	CarSpeed float64
}

func (p FixedPolicy) Interval(time.Duration) time.Duration { return p.Every }
func (p FixedPolicy) Speed(time.Duration) float64          { return p.CarSpeed }

// ScalingPolicy shortens the interval and raises the speed for every second
// survived, within the floor and cap of the tuning.
type ScalingPolicy struct {
	Traffic data.TrafficTuning
}

func (p ScalingPolicy) Interval(survival time.Duration) time.Duration {
	t := p.Traffic
	shrink := time.Duration(float64(t.IntervalRamp) * survival.Seconds())
	return max(t.Interval-shrink, t.MinInterval)
}

func (p ScalingPolicy) Speed(survival time.Duration) float64 {
	t := p.Traffic
	return min(t.Speed+t.SpeedRamp*survival.Seconds(), t.MaxSpeed)
}

// SpawnSystem releases one oncoming car into a random lane whenever the
// policy interval has passed since the previous spawn. Phase 1 (Spawn).
type SpawnSystem struct {
	world  *world.State
	policy SpawnPolicy
}

func NewSpawnSystem(ws *world.State, policy SpawnPolicy) *SpawnSystem {
	return &SpawnSystem{world: ws, policy: policy}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnSystem) Update(_ time.Duration) {
	ws := s.world
	if !ws.Playing() {
		return
	}
	if ws.Survival-ws.LastSpawn < s.policy.Interval(ws.Survival) {
		return
	}
	s.SpawnRandom()
	ws.LastSpawn = ws.Survival
}

// SpawnRandom places a car in a uniformly chosen lane at the policy speed.
func (s *SpawnSystem) SpawnRandom() ecs.EntityID {
	ws := s.world
	return ws.SpawnTraffic(ws.Rand.Intn(data.LaneCount), s.policy.Speed(ws.Survival))
}
