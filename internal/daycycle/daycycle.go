// Package daycycle derives lighting and weather from survival time.
package daycycle

import (
	"time"

	"github.com/wrongway/engine/internal/data"
)

// Environment is the read-only lighting/weather state for one tick.
type Environment struct {
	DayFactor  float64 // 1 = full day, 0 = full night
	Darkness   float64
	Rain       float64
	Ambient    float64
	Sun        float64
	Headlights float64
}

// DayFactor follows day → dusk → night → sunrise → day. Each ramp is linear;
// a zero-length ramp is a hard switch.
func DayFactor(survival time.Duration, s data.DayCycleTuning) float64 {
	switch {
	case survival < s.NightStart:
		return 1
	case survival < s.NightFull:
		return 1 - ramp(survival, s.NightStart, s.NightFull)
	case survival < s.SunriseStart:
		return 0
	case survival < s.SunriseFull:
		return ramp(survival, s.SunriseStart, s.SunriseFull)
	default:
		return 1
	}
}

func ramp(t, from, to time.Duration) float64 {
	if to <= from {
		return 1
	}
	p := float64(t-from) / float64(to-from)
	return max(0, min(1, p))
}

// Sample computes the full environment for a survival time.
func Sample(survival time.Duration, s data.DayCycleTuning) Environment {
	f := DayFactor(survival, s)
	dark := 1 - f
	return Environment{
		DayFactor:  f,
		Darkness:   dark,
		Rain:       dark * s.RainMax,
		Ambient:    0.1 + 0.5*f,
		Sun:        0.2 + 0.8*f,
		Headlights: 15 * dark,
	}
}
