package scripting

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
)

// Curve is a traffic difficulty curve: how often cars spawn and how fast
// they drive at a given survival time.
type Curve interface {
	Interval(survival time.Duration) time.Duration
	Speed(survival time.Duration) float64
}

// LuaPolicy reads the difficulty curve from the scripts and falls back to a
// Go curve when a function is missing or fails, or when it returns a value
// that is not a positive finite number. Script intervals never go below
// floor.
type LuaPolicy struct {
	engine   *Engine
	fallback Curve
	floor    time.Duration
	log      *zap.Logger
	reported map[string]bool
}

func NewLuaPolicy(engine *Engine, fallback Curve, floor time.Duration, log *zap.Logger) *LuaPolicy {
	if log == nil {
		log = zap.NewNop()
	}
	return &LuaPolicy{
		engine:   engine,
		fallback: fallback,
		floor:    floor,
		log:      log,
		reported: make(map[string]bool),
	}
}

func (p *LuaPolicy) Interval(survival time.Duration) time.Duration {
	ms, err := p.engine.SpawnIntervalMS(survival.Milliseconds())
	if err != nil || !usable(ms) {
		p.report("spawn_interval_ms", ms, err)
		return p.fallback.Interval(survival)
	}
	return max(time.Duration(ms*float64(time.Millisecond)), p.floor)
}

func (p *LuaPolicy) Speed(survival time.Duration) float64 {
	speed, err := p.engine.TrafficSpeed(survival.Milliseconds())
	if err != nil || !usable(speed) {
		p.report("traffic_speed", speed, err)
		return p.fallback.Speed(survival)
	}
	return speed
}

// report logs the first fallback of each function; the curve is evaluated
// every tick and would otherwise flood the log.
func (p *LuaPolicy) report(name string, got float64, err error) {
	if p.reported[name] {
		return
	}
	p.reported[name] = true
	switch {
	case errors.Is(err, ErrNotDefined):
		p.log.Debug("lua curve not defined, using fallback", zap.String("func", name))
	case err != nil:
		p.log.Error("lua curve error, using fallback", zap.String("func", name), zap.Error(err))
	default:
		p.log.Warn("lua curve returned unusable value, using fallback",
			zap.String("func", name),
			zap.Float64("value", got),
		)
	}
}

// usable reports whether v is a positive finite number.
func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
