package event

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestBus_FlushPreservesEmissionOrderAcrossTypes(t *testing.T) {
	b := NewBus(0)
	Emit(b, time.Second, MissileCleared{AttackID: "m1"})
	Emit(b, time.Second, ChaseEnded{ChaseID: "c1"})
	Emit(b, 2*time.Second, MissileCleared{AttackID: "m2"})

	testutil.AssertEqual(t, "drain before flush", len(b.Drain()), 0)
	b.Flush()

	got := b.Drain()
	testutil.AssertEqual(t, "count", len(got), 3)
	testutil.AssertEqual(t, "first seq", got[0].Seq, uint64(1))
	testutil.AssertEqual(t, "second name", Name(got[1].Payload), "chase.ended")
	testutil.AssertEqual(t, "third at", got[2].At, 2*time.Second)
	testutil.AssertEqual(t, "drained", len(b.Drain()), 0)
}

func TestBus_SubscribersSeeOnlyTheirType(t *testing.T) {
	b := NewBus(0)
	var crashes []CrashOccurred
	var chases int
	Subscribe(b, func(ev CrashOccurred) { crashes = append(crashes, ev) })
	Subscribe(b, func(ChaseStarted) { chases++ })

	Emit(b, 0, CrashOccurred{Lane: 2, Cause: CauseMissile})
	Emit(b, 0, MissileCleared{AttackID: "x"})
	b.Flush()

	testutil.AssertEqual(t, "crash handler calls", len(crashes), 1)
	testutil.AssertEqual(t, "crash lane", crashes[0].Lane, 2)
	testutil.AssertEqual(t, "chase handler calls", chases, 0)
}

func TestBus_BacklogDropsOldest(t *testing.T) {
	b := NewBus(2)
	for i := 0; i < 5; i++ {
		Emit(b, time.Duration(i), SessionReset{})
	}
	b.Flush()

	got := b.Drain()
	testutil.AssertEqual(t, "kept", len(got), 2)
	testutil.AssertEqual(t, "oldest kept", got[0].Seq, uint64(4))
	testutil.AssertEqual(t, "dropped", b.Dropped(), uint64(3))
}
