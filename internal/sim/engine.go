// Package sim is the authoritative session engine: the Ready/Playing/Ended
// state machine, player intents and the fixed-order tick over all systems.
//
// An Engine is not safe for concurrent use. The host calls commands, intents
// and Tick from a single goroutine; events are published synchronously at
// the end of each call.
package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/wrongway/engine/internal/core/ecs"
	"github.com/wrongway/engine/internal/core/event"
	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/hud"
	"github.com/wrongway/engine/internal/system"
	"github.com/wrongway/engine/internal/world"
)

// Options configures a new Engine. Zero values pick the shipped defaults.
type Options struct {
	Tuning  *data.Tuning
	Policy  system.SpawnPolicy // nil: ScalingPolicy over Tuning.Traffic
	Seed    int64              // 0: seeded from the clock
	Backlog int                // undrained events kept; 0: event.DefaultBacklog
	Log     *zap.Logger
}

type Engine struct {
	state   *world.State
	runner  *coresys.Runner
	spawn   *system.SpawnSystem
	missile *system.MissileSystem
	police  *system.PoliceSystem
	log     *zap.Logger
}

func New(opts Options) *Engine {
	if opts.Tuning == nil {
		opts.Tuning = data.DefaultTuning()
	}
	if opts.Policy == nil {
		opts.Policy = system.ScalingPolicy{Traffic: opts.Tuning.Traffic}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	ws := world.NewState(opts.Tuning, event.NewBus(opts.Backlog), opts.Seed, opts.Log)
	e := &Engine{
		state:   ws,
		runner:  coresys.NewRunner(),
		spawn:   system.NewSpawnSystem(ws, opts.Policy),
		missile: system.NewMissileSystem(ws),
		police:  system.NewPoliceSystem(ws),
		log:     opts.Log,
	}

	// Registration order breaks ties inside a phase: cull after movement,
	// missile before police, environment before warnings.
	e.runner.Register(system.NewClockSystem(ws))
	e.runner.Register(e.spawn)
	e.runner.Register(system.NewMovementSystem(ws))
	e.runner.Register(system.NewCullSystem(ws))
	e.runner.Register(system.NewCollisionSystem(ws))
	e.runner.Register(e.missile)
	e.runner.Register(e.police)
	e.runner.Register(system.NewEnvironmentSystem(ws))
	e.runner.Register(system.NewWarningSystem(ws))
	e.runner.Register(system.NewCleanupSystem(ws))

	return e
}

// --- Commands ---

// Start begins a session at wall time now. Ignored while Playing.
func (e *Engine) Start(now time.Time) bool {
	defer e.state.Bus.Flush()
	return e.state.Begin(now)
}

// Reset discards the current session from any state and returns to Ready.
func (e *Engine) Reset() {
	defer e.state.Bus.Flush()
	e.state.Reset()
}

// End finishes a Playing session. A second call reports false and emits
// nothing.
func (e *Engine) End() bool {
	defer e.state.Bus.Flush()
	return e.state.End()
}

// Restart is the player's reset intent; it only applies once the session
// has ended.
func (e *Engine) Restart() bool {
	if e.state.Game != world.Ended {
		return false
	}
	e.Reset()
	return true
}

// Tick advances the session to wall time now. delta is the frame length used
// for integration and per-frame trigger odds. Does nothing unless Playing.
func (e *Engine) Tick(now time.Time, delta time.Duration) {
	if !e.state.Playing() {
		return
	}
	e.state.Now = now
	e.runner.Tick(delta)
}

// --- Input intents ---

func (e *Engine) LaneLeft() bool  { return e.shiftLane(-1) }
func (e *Engine) LaneRight() bool { return e.shiftLane(1) }

func (e *Engine) MoveForward() bool  { return e.shiftOffset(1) }
func (e *Engine) MoveBackward() bool { return e.shiftOffset(-1) }

func (e *Engine) shiftLane(delta int) bool {
	if !e.state.Playing() {
		return false
	}
	e.state.ShiftLane(delta)
	return true
}

func (e *Engine) shiftOffset(steps float64) bool {
	if !e.state.Playing() {
		return false
	}
	e.state.ShiftOffset(steps)
	return true
}

// --- Spawner and hazard hooks ---

// SpawnTraffic places a car at the far end of lane. Used by tools and tests;
// regular traffic comes from the spawn policy. Outside Playing nothing is
// spawned and the zero ID is returned.
func (e *Engine) SpawnTraffic(lane int, speed float64) ecs.EntityID {
	if !e.state.Playing() {
		return 0
	}
	return e.state.SpawnTraffic(lane, speed)
}

// SpawnRandomTraffic places a car in a random lane at the policy speed.
// Ignored unless Playing.
func (e *Engine) SpawnRandomTraffic() ecs.EntityID {
	if !e.state.Playing() {
		return 0
	}
	return e.spawn.SpawnRandom()
}

// Cull removes every car behind the cull line immediately. Ignored unless
// Playing; an ended session keeps its last picture.
func (e *Engine) Cull() int {
	if !e.state.Playing() {
		return 0
	}
	n := system.Cull(e.state)
	e.state.World().FlushDestroyQueue()
	return n
}

// TriggerMissile starts an attack now. force skips the warm-up and cooldown;
// an attack already in flight always wins.
func (e *Engine) TriggerMissile(force bool) bool {
	defer e.state.Bus.Flush()
	return e.missile.Trigger(force)
}

// SetMissileRoll replaces the per-tick trigger roll. Tests use it to force
// or suppress attacks.
func (e *Engine) SetMissileRoll(roll func(p float64) bool) {
	e.missile.Roll = roll
}

// StartChase starts a police chase now if none is running.
func (e *Engine) StartChase() bool {
	defer e.state.Bus.Flush()
	return e.police.Start()
}

// --- Views ---

func (e *Engine) State() world.GameState { return e.state.Game }

func (e *Engine) Survival() time.Duration { return e.state.Survival }

func (e *Engine) Tuning() *data.Tuning { return e.state.Tuning }

// Snapshot returns a deep copy of everything a renderer needs.
func (e *Engine) Snapshot() world.Snapshot { return e.state.Snapshot() }

// LastCrash returns a copy of the crash that ended the session, if any.
func (e *Engine) LastCrash() (world.Crash, bool) {
	if e.state.LastCrash == nil {
		return world.Crash{}, false
	}
	return *e.state.LastCrash, true
}

func (e *Engine) HUD() hud.Status {
	return hud.Status{
		State:    e.state.Game,
		Survival: e.state.Survival,
		Lane:     e.state.Player.Lane,
	}
}

// Events drains every published event in emission order.
func (e *Engine) Events() []event.Envelope { return e.state.Bus.Drain() }

// DroppedEvents reports events lost because nobody drained the queue.
func (e *Engine) DroppedEvents() uint64 { return e.state.Bus.Dropped() }

// Subscribe registers a push handler for events of type T. Handlers run
// synchronously on the engine's goroutine when events are published.
func Subscribe[T any](e *Engine, fn func(T)) {
	event.Subscribe(e.state.Bus, fn)
}
