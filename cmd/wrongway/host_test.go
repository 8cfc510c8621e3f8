package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/wrongway/engine/internal/config"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/sim"
	"github.com/wrongway/engine/internal/system"
	"github.com/wrongway/engine/internal/world"
)

func TestBuildPolicy(t *testing.T) {
	tuning := data.DefaultTuning()
	dir := t.TempDir()
	script := `function spawn_interval_ms(t) return 1234 end`
	if err := os.WriteFile(filepath.Join(dir, "curve.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		policy      string
		expInterval time.Duration
		expSpeed    float64
		expErr      string
	}{
		"fixed":   {policy: "fixed", expInterval: 2 * time.Second, expSpeed: 25},
		"scaling": {policy: "scaling", expInterval: 2 * time.Second, expSpeed: 25},
		"lua":     {policy: "lua", expInterval: 1234 * time.Millisecond, expSpeed: 25},
		"unknown": {policy: "chaos", expErr: `unknown policy "chaos"`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.SimulationConfig{Policy: tt.policy, ScriptsDir: dir}
			p, closeFn, err := buildPolicy(cfg, tuning, zap.NewNop())
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			defer closeFn()
			testutil.AssertEqual(t, "interval", p.Interval(0), tt.expInterval)
			testutil.AssertEqual(t, "speed", p.Speed(0), tt.expSpeed)
		})
	}
}

func TestHost_RestartsAfterCrashUntilSessionLimit(t *testing.T) {
	tuning := data.DefaultTuning()
	tuning.Traffic.SpawnZ = 1
	e := sim.New(sim.Options{
		Tuning: tuning,
		Policy: system.FixedPolicy{Every: time.Hour, CarSpeed: 0},
		Seed:   1,
	})
	h := &host{
		engine: e,
		cfg:    config.SimulationConfig{FrameRate: 60, Sessions: 2, RestartDelay: time.Second},
		lang:   language.English,
		log:    zap.NewNop(),
	}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dt := time.Second / 60
	h.begin(now)
	e.SpawnTraffic(1, 0)

	now = now.Add(dt)
	testutil.AssertEqual(t, "crash frame", h.frame(now, dt), false)
	testutil.AssertEqual(t, "ended", e.State(), world.Ended)

	now = now.Add(500 * time.Millisecond)
	h.frame(now, dt)
	testutil.AssertEqual(t, "waits on crash screen", e.State(), world.Ended)

	now = now.Add(time.Second)
	h.frame(now, dt)
	testutil.AssertEqual(t, "restarted", e.State(), world.Playing)
	testutil.AssertEqual(t, "sessions", h.sessions, 2)
	testutil.AssertEqual(t, "fresh session", len(e.Snapshot().Traffic), 0)

	e.End()
	now = now.Add(2 * time.Second)
	h.endedAt = now
	now = now.Add(2 * time.Second)
	testutil.AssertEqual(t, "limit reached", h.frame(now, dt), true)
}
