package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	goerrors "github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// LaneCount is fixed: left, center, right.
const LaneCount = 3

// Tuning is every gameplay constant of a session. Values come from
// DefaultTuning, optionally overridden by a YAML file.
type Tuning struct {
	Lanes     LaneTuning      `yaml:"lanes"`
	Player    PlayerTuning    `yaml:"player"`
	Traffic   TrafficTuning   `yaml:"traffic"`
	Collision CollisionTuning `yaml:"collision"`
	Missile   MissileTuning   `yaml:"missile"`
	Police    PoliceTuning    `yaml:"police"`
	Warning   WarningTuning   `yaml:"warning"`
	DayCycle  DayCycleTuning  `yaml:"day_cycle"`
}

type LaneTuning struct {
	Positions []float64 `yaml:"positions"` // lateral x per lane, index 0 = left
}

type PlayerTuning struct {
	BaseZ      float64 `yaml:"base_z"`
	OffsetMin  float64 `yaml:"offset_min"`
	OffsetMax  float64 `yaml:"offset_max"`
	OffsetStep float64 `yaml:"offset_step"`
	StartLane  int     `yaml:"start_lane"`
}

type TrafficTuning struct {
	SpawnZ       float64       `yaml:"spawn_z"`
	Speed        float64       `yaml:"speed"`
	MaxSpeed     float64       `yaml:"max_speed"`
	SpeedRamp    float64       `yaml:"speed_ramp"` // speed gained per survived second
	Interval     time.Duration `yaml:"interval"`
	MinInterval  time.Duration `yaml:"min_interval"`
	IntervalRamp time.Duration `yaml:"interval_ramp"` // interval lost per survived second
	CullDistance float64       `yaml:"cull_distance"`
}

type CollisionTuning struct {
	Lateral      float64 `yaml:"lateral"`
	Longitudinal float64 `yaml:"longitudinal"`
}

type MissileTuning struct {
	WarmUp      time.Duration `yaml:"warm_up"`
	Cooldown    time.Duration `yaml:"cooldown"`
	TriggerRate float64       `yaml:"trigger_rate"` // expected triggers per second once the gate is open
	Incoming    time.Duration `yaml:"incoming"`
	Impact      time.Duration `yaml:"impact"`
	Clear       time.Duration `yaml:"clear"`
}

type PoliceTuning struct {
	FirstChase         time.Duration `yaml:"first_chase"`
	Cooldown           time.Duration `yaml:"cooldown"`
	Duration           time.Duration `yaml:"duration"`
	SpawnBehind        float64       `yaml:"spawn_behind"`
	Speed              float64       `yaml:"speed"`
	StandOff           float64       `yaml:"stand_off"`
	AggressiveStandOff float64       `yaml:"aggressive_stand_off"`
}

type WarningTuning struct {
	Range     float64 `yaml:"range"`
	MinVolume float64 `yaml:"min_volume"`
}

type DayCycleTuning struct {
	NightStart   time.Duration `yaml:"night_start"`
	NightFull    time.Duration `yaml:"night_full"`
	SunriseStart time.Duration `yaml:"sunrise_start"`
	SunriseFull  time.Duration `yaml:"sunrise_full"`
	RainMax      float64       `yaml:"rain_max"`
}

// DefaultTuning returns the shipped balance.
func DefaultTuning() *Tuning {
	return &Tuning{
		Lanes: LaneTuning{Positions: []float64{-4, 0, 4}},
		Player: PlayerTuning{
			BaseZ:      0,
			OffsetMin:  -5,
			OffsetMax:  5,
			OffsetStep: 0.5,
			StartLane:  1,
		},
		Traffic: TrafficTuning{
			SpawnZ:       50,
			Speed:        25,
			MaxSpeed:     40,
			SpeedRamp:    0.05,
			Interval:     2000 * time.Millisecond,
			MinInterval:  800 * time.Millisecond,
			IntervalRamp: 10 * time.Millisecond,
			CullDistance: 50,
		},
		Collision: CollisionTuning{Lateral: 1.5, Longitudinal: 2.5},
		Missile: MissileTuning{
			WarmUp:      120 * time.Second,
			Cooldown:    30 * time.Second,
			TriggerRate: 0.18,
			Incoming:    16 * time.Second,
			Impact:      23 * time.Second,
			Clear:       25 * time.Second,
		},
		Police: PoliceTuning{
			FirstChase:         30 * time.Second,
			Cooldown:           25 * time.Second,
			Duration:           20 * time.Second,
			SpawnBehind:        12,
			Speed:              12,
			StandOff:           5,
			AggressiveStandOff: 3,
		},
		Warning: WarningTuning{Range: 20, MinVolume: 0.1},
		DayCycle: DayCycleTuning{
			NightStart:   120 * time.Second,
			NightFull:    130 * time.Second,
			SunriseStart: 240 * time.Second,
			SunriseFull:  260 * time.Second,
			RainMax:      0.8,
		},
	}
}

// LoadTuning reads a YAML override on top of DefaultTuning. A missing file
// yields the defaults.
func LoadTuning(path string) (*Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// LanePosition returns the lateral x of a lane, clamping the lane index.
func (t *Tuning) LanePosition(lane int) float64 {
	return t.Lanes.Positions[ClampLane(lane)]
}

// ClampLane forces a lane index into [0, LaneCount-1].
func ClampLane(lane int) int {
	return max(0, min(LaneCount-1, lane))
}

func (t *Tuning) Validate() error {
	el := goerrors.NewErrorList()

	if len(t.Lanes.Positions) != LaneCount {
		el.Add(fmt.Errorf("lanes.positions must have %d entries, got %d", LaneCount, len(t.Lanes.Positions)))
	}
	if t.Player.OffsetMin > 0 || t.Player.OffsetMax < 0 || t.Player.OffsetMin >= t.Player.OffsetMax {
		el.Add(fmt.Errorf("player offset range [%v, %v] must contain 0", t.Player.OffsetMin, t.Player.OffsetMax))
	}
	if t.Player.OffsetStep <= 0 {
		el.Add(fmt.Errorf("player.offset_step must be positive"))
	}
	if t.Player.StartLane < 0 || t.Player.StartLane >= LaneCount {
		el.Add(fmt.Errorf("player.start_lane %d out of range", t.Player.StartLane))
	}
	if t.Traffic.Speed <= 0 {
		el.Add(fmt.Errorf("traffic.speed must be positive"))
	}
	if t.Traffic.MaxSpeed < t.Traffic.Speed {
		el.Add(fmt.Errorf("traffic.max_speed must be at least traffic.speed"))
	}
	if t.Traffic.MinInterval <= 0 || t.Traffic.Interval < t.Traffic.MinInterval {
		el.Add(fmt.Errorf("traffic interval %s must be at least min_interval %s > 0", t.Traffic.Interval, t.Traffic.MinInterval))
	}
	if t.Traffic.CullDistance <= 0 {
		el.Add(fmt.Errorf("traffic.cull_distance must be positive"))
	}
	if t.Collision.Lateral <= 0 || t.Collision.Longitudinal <= 0 {
		el.Add(fmt.Errorf("collision thresholds must be positive"))
	}
	m := t.Missile
	if !(0 < m.Incoming && m.Incoming < m.Impact && m.Impact < m.Clear) {
		el.Add(fmt.Errorf("missile phases must satisfy 0 < incoming < impact < clear, got %s/%s/%s", m.Incoming, m.Impact, m.Clear))
	}
	if m.TriggerRate < 0 {
		el.Add(fmt.Errorf("missile.trigger_rate must not be negative"))
	}
	if t.Police.Duration <= 0 {
		el.Add(fmt.Errorf("police.duration must be positive"))
	}
	if t.Police.AggressiveStandOff < 0 || t.Police.StandOff < 0 {
		el.Add(fmt.Errorf("police stand-off distances must not be negative"))
	}
	d := t.DayCycle
	if !(d.NightStart <= d.NightFull && d.NightFull <= d.SunriseStart && d.SunriseStart <= d.SunriseFull) {
		el.Add(fmt.Errorf("day_cycle thresholds must be non-decreasing"))
	}
	if d.RainMax < 0 || d.RainMax > 1 {
		el.Add(fmt.Errorf("day_cycle.rain_max must be in [0, 1]"))
	}

	return el.Err()
}
