package daycycle

import (
	"math"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/wrongway/engine/internal/data"
)

func TestDayFactor_Schedule(t *testing.T) {
	s := data.DefaultTuning().DayCycle

	tests := map[string]struct {
		survival time.Duration
		exp      float64
	}{
		"start":        {survival: 0, exp: 1},
		"late day":     {survival: 119 * time.Second, exp: 1},
		"dusk half":    {survival: 125 * time.Second, exp: 0.5},
		"night":        {survival: 130 * time.Second, exp: 0},
		"deep night":   {survival: 200 * time.Second, exp: 0},
		"sunrise half": {survival: 250 * time.Second, exp: 0.5},
		"day again":    {survival: 260 * time.Second, exp: 1},
		"holds":        {survival: time.Hour, exp: 1},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := DayFactor(tt.survival, s)
			if math.Abs(got-tt.exp) > 1e-9 {
				t.Errorf("DayFactor(%s) = %v, want %v", tt.survival, got, tt.exp)
			}
		})
	}
}

func TestDayFactor_StaysInRange(t *testing.T) {
	s := data.DefaultTuning().DayCycle
	for ms := 0; ms <= 300_000; ms += 250 {
		f := DayFactor(time.Duration(ms)*time.Millisecond, s)
		if f < 0 || f > 1 {
			t.Fatalf("DayFactor at %dms = %v out of [0,1]", ms, f)
		}
	}
}

func TestDayFactor_ZeroLengthRampSwitches(t *testing.T) {
	s := data.DayCycleTuning{NightStart: 10 * time.Second, NightFull: 10 * time.Second, SunriseStart: 20 * time.Second, SunriseFull: 20 * time.Second}
	testutil.AssertEqual(t, "before", DayFactor(9*time.Second, s), 1.0)
	testutil.AssertEqual(t, "switch", DayFactor(10*time.Second, s), 0.0)
	testutil.AssertEqual(t, "sunrise", DayFactor(20*time.Second, s), 1.0)
}

func TestSample_Night(t *testing.T) {
	s := data.DefaultTuning().DayCycle
	env := Sample(180*time.Second, s)
	testutil.AssertEqual(t, "darkness", env.Darkness, 1.0)
	testutil.AssertEqual(t, "rain", env.Rain, s.RainMax)
	testutil.AssertEqual(t, "headlights", env.Headlights, 15.0)
	if math.Abs(env.Ambient-0.1) > 1e-9 || math.Abs(env.Sun-0.2) > 1e-9 {
		t.Errorf("night lighting ambient=%v sun=%v", env.Ambient, env.Sun)
	}
}
