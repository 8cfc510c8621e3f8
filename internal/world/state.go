package world

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/wrongway/engine/internal/core/ecs"
	"github.com/wrongway/engine/internal/core/event"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/daycycle"
	"github.com/wrongway/engine/internal/hazard"
	"go.uber.org/zap"
)

// GameState is the session lifecycle.
type GameState int

const (
	Ready GameState = iota
	Playing
	Ended
)

func (g GameState) String() string {
	switch g {
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

func (g GameState) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// Player is the controllable car. Its z is the tuning base z plus Offset.
type Player struct {
	Lane   int
	Offset float64
}

// Crash records how and when a session ended by collision or impact.
type Crash struct {
	Lane     int
	Cause    event.CrashCause
	Survival time.Duration
	Wall     time.Time
}

// State is the whole simulation of one session. Single-goroutine access only
// (host loop).
type State struct {
	Tuning *data.Tuning
	Bus    *event.Bus
	Rand   *rand.Rand
	Log    *zap.Logger

	ecs     *ecs.World
	Bodies  *ecs.PtrComponentStore[Body]
	Motions *ecs.PtrComponentStore[Motion]
	Traffic *ecs.PtrComponentStore[TrafficCar]
	Police  *ecs.PtrComponentStore[PoliceCar]

	Game      GameState
	SessionID string
	StartWall time.Time     // wall clock of the Playing transition
	Now       time.Time     // wall clock of the current tick
	Survival  time.Duration // Now - StartWall, refreshed first thing each tick
	Player    Player

	LastSpawn time.Duration

	Missile        *hazard.Missile
	MissileCount   int // attacks triggered this session
	LastMissileEnd time.Duration

	Chase        *hazard.Chase
	ChaseCars    []ecs.EntityID
	ChaseCount   int
	LastChaseEnd time.Duration

	Env       daycycle.Environment
	LastCrash *Crash
}

// NewState builds an idle (Ready) state. A zero seed draws one from the clock.
func NewState(t *data.Tuning, bus *event.Bus, seed int64, log *zap.Logger) *State {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if log == nil {
		log = zap.NewNop()
	}
	w := ecs.NewWorld()
	s := &State{
		Tuning:  t,
		Bus:     bus,
		Rand:    rand.New(rand.NewSource(seed)),
		Log:     log,
		ecs:     w,
		Bodies:  ecs.NewPtrComponentStore[Body](),
		Motions: ecs.NewPtrComponentStore[Motion](),
		Traffic: ecs.NewPtrComponentStore[TrafficCar](),
		Police:  ecs.NewPtrComponentStore[PoliceCar](),
	}
	reg := w.Registry()
	reg.Register(s.Bodies)
	reg.Register(s.Motions)
	reg.Register(s.Traffic)
	reg.Register(s.Police)
	s.resetPlayer()
	s.Env = daycycle.Sample(0, t.DayCycle)
	return s
}

// World exposes the entity container for systems that queue destruction.
func (s *State) World() *ecs.World { return s.ecs }

func (s *State) Playing() bool { return s.Game == Playing }

func (s *State) PlayerX() float64 { return s.Tuning.LanePosition(s.Player.Lane) }

func (s *State) PlayerZ() float64 { return s.Tuning.Player.BaseZ + s.Player.Offset }

// ShiftLane moves the player delta lanes, clamped to the road.
func (s *State) ShiftLane(delta int) int {
	s.Player.Lane = data.ClampLane(s.Player.Lane + delta)
	return s.Player.Lane
}

// ShiftOffset moves the player steps*OffsetStep along the road, clamped.
func (s *State) ShiftOffset(steps float64) float64 {
	p := s.Tuning.Player
	s.Player.Offset = max(p.OffsetMin, min(p.OffsetMax, s.Player.Offset+steps*p.OffsetStep))
	return s.Player.Offset
}

// SpawnTraffic places an oncoming car at the far end of lane.
func (s *State) SpawnTraffic(lane int, speed float64) ecs.EntityID {
	lane = data.ClampLane(lane)
	id := s.ecs.CreateEntity()
	s.Bodies.Set(id, &Body{Lane: lane, X: s.Tuning.LanePosition(lane), Z: s.Tuning.Traffic.SpawnZ})
	s.Motions.Set(id, &Motion{Speed: speed})
	s.Traffic.Set(id, &TrafficCar{})
	s.Log.Debug("traffic spawned",
		zap.Uint64("car", uint64(id)),
		zap.Int("lane", lane),
		zap.Float64("speed", speed),
	)
	return id
}

// SpawnPolice places a pursuit car of chaseID in lane at z.
func (s *State) SpawnPolice(lane int, z, speed float64, chaseID string) ecs.EntityID {
	lane = data.ClampLane(lane)
	id := s.ecs.CreateEntity()
	s.Bodies.Set(id, &Body{Lane: lane, X: s.Tuning.LanePosition(lane), Z: z})
	s.Motions.Set(id, &Motion{Speed: speed})
	s.Police.Set(id, &PoliceCar{ChaseID: chaseID})
	return id
}

// Despawn queues an entity for removal at the end of the tick.
func (s *State) Despawn(id ecs.EntityID) {
	s.ecs.MarkForDestruction(id)
}

// Begin starts a new session at wall time now. Ignored while Playing.
func (s *State) Begin(now time.Time) bool {
	if s.Game == Playing {
		return false
	}
	s.Clear()
	s.SessionID = uuid.New().String()
	s.StartWall = now
	s.Now = now
	s.Game = Playing
	event.Emit(s.Bus, 0, event.SessionStarted{SessionID: s.SessionID, Wall: now})
	s.Log.Info("session started", zap.String("session", s.SessionID))
	return true
}

// Reset discards the session from any state and returns to Ready.
func (s *State) Reset() {
	id := s.SessionID
	s.Clear()
	s.Game = Ready
	event.Emit(s.Bus, 0, event.SessionReset{SessionID: id})
	s.Log.Info("session reset", zap.String("session", id))
}

// End moves Playing to Ended. It reports false, and does nothing, in any
// other state.
func (s *State) End() bool {
	if s.Game != Playing {
		return false
	}
	s.Game = Ended
	event.Emit(s.Bus, s.Survival, event.SessionEnded{SessionID: s.SessionID, Survival: s.Survival})
	s.Log.Info("session ended",
		zap.String("session", s.SessionID),
		zap.Duration("survival", s.Survival),
	)
	return true
}

// Crash ends the session with a crash record. Only the first crash of a
// session is recorded.
func (s *State) Crash(lane int, cause event.CrashCause) bool {
	if s.Game != Playing {
		return false
	}
	c := &Crash{Lane: lane, Cause: cause, Survival: s.Survival, Wall: s.Now}
	s.LastCrash = c
	event.Emit(s.Bus, s.Survival, event.CrashOccurred{
		Lane:     c.Lane,
		Cause:    c.Cause,
		Survival: c.Survival,
		Wall:     c.Wall,
	})
	s.Log.Info("crash",
		zap.String("cause", string(cause)),
		zap.Int("lane", lane),
		zap.Duration("survival", s.Survival),
	)
	return s.End()
}

// Clear drops every entity, hazard record and timer. The game state and the
// event bus are left alone.
func (s *State) Clear() {
	s.ecs.Clear()
	s.SessionID = ""
	s.StartWall = time.Time{}
	s.Now = time.Time{}
	s.Survival = 0
	s.LastSpawn = 0
	s.Missile = nil
	s.MissileCount = 0
	s.LastMissileEnd = 0
	s.Chase = nil
	s.ChaseCars = nil
	s.ChaseCount = 0
	s.LastChaseEnd = 0
	s.LastCrash = nil
	s.Env = daycycle.Sample(0, s.Tuning.DayCycle)
	s.resetPlayer()
}

func (s *State) resetPlayer() {
	s.Player = Player{Lane: data.ClampLane(s.Tuning.Player.StartLane)}
}
