package world

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/wrongway/engine/internal/core/event"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/hazard"
)

func newTestState() *State {
	return NewState(data.DefaultTuning(), event.NewBus(0), 1, nil)
}

func names(b *event.Bus) []string {
	b.Flush()
	var out []string
	for _, env := range b.Drain() {
		out = append(out, event.Name(env.Payload))
	}
	return out
}

func TestState_ShiftLaneClamps(t *testing.T) {
	tests := map[string]struct {
		start   int
		delta   int
		expLane int
	}{
		"left from left edge":   {start: 0, delta: -1, expLane: 0},
		"right from right edge": {start: 2, delta: 1, expLane: 2},
		"left from center":      {start: 1, delta: -1, expLane: 0},
		"right from center":     {start: 1, delta: 1, expLane: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := newTestState()
			s.Player.Lane = tt.start
			testutil.AssertEqual(t, "lane", s.ShiftLane(tt.delta), tt.expLane)
		})
	}
}

func TestState_ShiftOffsetClamps(t *testing.T) {
	s := newTestState()
	for i := 0; i < 30; i++ {
		s.ShiftOffset(1)
	}
	testutil.AssertEqual(t, "max", s.Player.Offset, 5.0)
	testutil.AssertEqual(t, "player z", s.PlayerZ(), 5.0)
	for i := 0; i < 30; i++ {
		s.ShiftOffset(-1)
	}
	testutil.AssertEqual(t, "min", s.Player.Offset, -5.0)
}

func TestState_BeginIgnoredWhilePlaying(t *testing.T) {
	s := newTestState()
	now := time.Unix(1000, 0)
	testutil.AssertEqual(t, "first begin", s.Begin(now), true)
	id := s.SessionID
	testutil.AssertEqual(t, "second begin", s.Begin(now.Add(time.Second)), false)
	testutil.AssertEqual(t, "session kept", s.SessionID, id)
	testutil.AssertEqual(t, "start kept", s.StartWall, now)
	testutil.AssertEqual(t, "events", len(names(s.Bus)), 1)
}

func TestState_EndIsIdempotent(t *testing.T) {
	s := newTestState()
	s.Begin(time.Unix(0, 0))
	names(s.Bus)

	testutil.AssertEqual(t, "first end", s.End(), true)
	testutil.AssertEqual(t, "second end", s.End(), false)
	testutil.AssertEqual(t, "state", s.Game, Ended)

	got := names(s.Bus)
	testutil.AssertEqual(t, "events", len(got), 1)
	testutil.AssertEqual(t, "event", got[0], "session.ended")
	testutil.AssertEqual(t, "no crash", s.LastCrash == nil, true)
}

func TestState_CrashRecordsOnce(t *testing.T) {
	s := newTestState()
	now := time.Unix(50, 0)
	s.Begin(now)
	s.Now = now.Add(3 * time.Second)
	s.Survival = 3 * time.Second
	names(s.Bus)

	testutil.AssertEqual(t, "crash", s.Crash(2, event.CauseMissile), true)
	testutil.AssertEqual(t, "second crash", s.Crash(0, event.CauseTraffic), false)

	testutil.AssertEqual(t, "lane", s.LastCrash.Lane, 2)
	testutil.AssertEqual(t, "cause", s.LastCrash.Cause, event.CauseMissile)
	testutil.AssertEqual(t, "survival", s.LastCrash.Survival, 3*time.Second)
	testutil.AssertEqual(t, "wall", s.LastCrash.Wall, now.Add(3*time.Second))

	got := names(s.Bus)
	testutil.AssertEqual(t, "events", len(got), 2)
	testutil.AssertEqual(t, "crash first", got[0], "crash")
	testutil.AssertEqual(t, "then end", got[1], "session.ended")
}

func TestState_ResetClearsEverything(t *testing.T) {
	s := newTestState()
	s.Begin(time.Unix(0, 0))
	car := s.SpawnTraffic(0, 25)
	s.SpawnPolice(1, -12, 12, "c")
	s.Missile = hazard.NewMissile("m", 1, 0)
	s.MissileCount = 1
	s.Chase = hazard.NewChase("c", 0)
	s.ShiftLane(1)
	s.ShiftOffset(2)

	s.Reset()

	testutil.AssertEqual(t, "state", s.Game, Ready)
	testutil.AssertEqual(t, "traffic", s.Traffic.Len(), 0)
	testutil.AssertEqual(t, "police", s.Police.Len(), 0)
	testutil.AssertEqual(t, "bodies", s.Bodies.Len(), 0)
	testutil.AssertEqual(t, "car stale", s.World().Alive(car), false)
	testutil.AssertEqual(t, "missile", s.Missile == nil, true)
	testutil.AssertEqual(t, "missile count", s.MissileCount, 0)
	testutil.AssertEqual(t, "chase", s.Chase == nil, true)
	testutil.AssertEqual(t, "lane", s.Player.Lane, 1)
	testutil.AssertEqual(t, "offset", s.Player.Offset, 0.0)
}

func TestState_SpawnTrafficUsesLanePosition(t *testing.T) {
	s := newTestState()
	id := s.SpawnTraffic(2, 30)
	b, ok := s.Bodies.Get(id)
	testutil.AssertEqual(t, "body", ok, true)
	testutil.AssertEqual(t, "x", b.X, 4.0)
	testutil.AssertEqual(t, "z", b.Z, 50.0)
	m, _ := s.Motions.Get(id)
	testutil.AssertEqual(t, "speed", m.Speed, 30.0)
	testutil.AssertEqual(t, "tagged", s.Traffic.Has(id), true)
	testutil.AssertEqual(t, "not police", s.Police.Has(id), false)
}

func TestState_SnapshotIsACopy(t *testing.T) {
	s := newTestState()
	s.Begin(time.Unix(0, 0))
	id := s.SpawnTraffic(1, 25)
	s.Survival = 20 * time.Second
	s.Missile = hazard.NewMissile("m", 0, 2*time.Second)
	s.Chase = hazard.NewChase("c", 10*time.Second)
	s.ChaseCars = append(s.ChaseCars, s.SpawnPolice(0, -12, 12, "c"))

	snap := s.Snapshot()
	b, _ := s.Bodies.Get(id)
	b.Z = -99
	s.ChaseCars[0] = 0

	testutil.AssertEqual(t, "state", snap.State, Playing)
	testutil.AssertEqual(t, "traffic", len(snap.Traffic), 1)
	testutil.AssertEqual(t, "traffic z", snap.Traffic[0].Z, 50.0)
	testutil.AssertEqual(t, "police", len(snap.Police), 1)
	testutil.AssertEqual(t, "missile elapsed", snap.Missile.Elapsed, 18*time.Second)
	testutil.AssertEqual(t, "missile phase", snap.Missile.Phase, hazard.PhaseWarning)
	testutil.AssertEqual(t, "chase elapsed", snap.Chase.Elapsed, 10*time.Second)
	testutil.AssertEqual(t, "chase car kept", snap.Chase.Cars[0].IsZero(), false)
	testutil.AssertEqual(t, "player z", snap.Player.Z, 0.0)
}

func TestGameState_String(t *testing.T) {
	testutil.AssertEqual(t, "ready", Ready.String(), "ready")
	testutil.AssertEqual(t, "playing", Playing.String(), "playing")
	testutil.AssertEqual(t, "ended", Ended.String(), "ended")
}
