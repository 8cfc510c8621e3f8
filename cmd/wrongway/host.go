package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/wrongway/engine/internal/autopilot"
	"github.com/wrongway/engine/internal/config"
	"github.com/wrongway/engine/internal/core/event"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/hazard"
	"github.com/wrongway/engine/internal/hud"
	"github.com/wrongway/engine/internal/relay"
	"github.com/wrongway/engine/internal/scripting"
	"github.com/wrongway/engine/internal/sim"
	"github.com/wrongway/engine/internal/system"
	"github.com/wrongway/engine/internal/world"
)

// host owns the frame loop: it ticks the engine, drives the autopilot,
// forwards events and restarts sessions after a crash.
type host struct {
	engine   *sim.Engine
	pilot    *autopilot.Pilot // nil: no input, sessions only end by crash
	pub      *relay.Publisher // nil: events are drained and dropped
	cfg      config.SimulationConfig
	hudEvery time.Duration
	lang     language.Tag
	log      *zap.Logger

	sessions int
	endedAt  time.Time
	lastHUD  time.Time
}

func (h *host) loop(shutdownCh <-chan os.Signal) error {
	frame := h.cfg.FrameInterval()
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	h.begin(time.Now())

	for {
		select {
		case now := <-ticker.C:
			if done := h.frame(now, frame); done {
				h.log.Info("session limit reached", zap.Int("sessions", h.sessions))
				return nil
			}
		case sig := <-shutdownCh:
			h.log.Info("shutdown signal", zap.String("signal", sig.String()))
			h.engine.End()
			h.forward()
			return nil
		}
	}
}

func (h *host) begin(now time.Time) {
	h.engine.Start(now)
	h.sessions++
	h.lastHUD = now
	if h.pilot != nil {
		h.pilot.Reset()
	}
}

// frame runs one tick and reports whether the host should stop.
func (h *host) frame(now time.Time, dt time.Duration) bool {
	switch h.engine.State() {
	case world.Playing:
		if h.pilot != nil {
			h.pilot.Steer(h.engine.Snapshot(), h.engine)
		}
		h.engine.Tick(now, dt)
		if h.engine.State() == world.Ended {
			h.endedAt = now
			h.printHUD()
		} else if h.hudEvery > 0 && now.Sub(h.lastHUD) >= h.hudEvery {
			h.lastHUD = now
			h.printHUD()
		}
	case world.Ended:
		if now.Sub(h.endedAt) < h.cfg.RestartDelay {
			break
		}
		if h.cfg.Sessions > 0 && h.sessions >= h.cfg.Sessions {
			h.forward()
			return true
		}
		h.engine.Restart()
		h.begin(now)
	case world.Ready:
		h.begin(now)
	}
	h.forward()
	return false
}

func (h *host) printHUD() {
	h.log.Info(hud.Format(h.engine.HUD(), h.lang).String())
}

// forward drains the engine's events to the relay.
func (h *host) forward() {
	envs := h.engine.Events()
	if h.pub == nil || len(envs) == 0 {
		return
	}
	if err := h.pub.Publish(envs); err != nil {
		h.log.Warn("relay publish", zap.Error(err))
	}
}

// buildPolicy selects the traffic difficulty curve. The returned func
// releases the Lua VM when one was created.
func buildPolicy(cfg config.SimulationConfig, t *data.Tuning, log *zap.Logger) (system.SpawnPolicy, func(), error) {
	scaling := system.ScalingPolicy{Traffic: t.Traffic}
	switch cfg.Policy {
	case "fixed":
		return system.FixedPolicy{Every: t.Traffic.Interval, CarSpeed: t.Traffic.Speed}, func() {}, nil
	case "scaling", "":
		return scaling, func() {}, nil
	case "lua":
		lua, err := scripting.NewEngine(cfg.ScriptsDir, log.Named("lua"))
		if err != nil {
			return nil, nil, err
		}
		return scripting.NewLuaPolicy(lua, scaling, t.Traffic.MinInterval, log.Named("lua")), lua.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown policy %q", cfg.Policy)
	}
}

// attachAudioLog stands in for the audio collaborator: every cue it would
// play is logged.
func attachAudioLog(e *sim.Engine, log *zap.Logger) {
	sim.Subscribe(e, func(ev event.TrafficWarning) {
		log.Debug("honk",
			zap.Int("lane", ev.Lane),
			zap.Float64("pan", ev.Pan),
			zap.Float64("volume", ev.Volume),
		)
	})
	sim.Subscribe(e, func(ev event.MissilePhaseEntered) {
		cue := map[hazard.Phase]string{
			hazard.PhaseWarning:  "air raid siren",
			hazard.PhaseIncoming: "incoming whistle",
			hazard.PhaseImpact:   "explosion",
		}[ev.Phase]
		log.Info(cue, zap.Int("lane", ev.TargetLane))
	})
	sim.Subscribe(e, func(ev event.ChaseStarted) {
		log.Info("police siren", zap.Int("cars", len(ev.Cars)))
	})
	sim.Subscribe(e, func(ev event.ChaseEnded) {
		log.Info("police siren off")
	})
	sim.Subscribe(e, func(ev event.CrashOccurred) {
		log.Info("crash",
			zap.String("cause", string(ev.Cause)),
			zap.Int("lane", ev.Lane),
			zap.Duration("survival", ev.Survival),
		)
	})
}
