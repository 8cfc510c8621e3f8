package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pixil98/go-testutil"

	"github.com/wrongway/engine/internal/core/event"
	"github.com/wrongway/engine/internal/hazard"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(WithPort(-1), WithStartTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(s.Shutdown)
	return s
}

func TestSubject(t *testing.T) {
	testutil.AssertEqual(t, "crash", Subject("ww", event.CrashOccurred{}), "ww.crash")
	testutil.AssertEqual(t, "missile", Subject("ww", event.MissilePhaseEntered{}), "ww.missile.phase")
}

func TestEncode(t *testing.T) {
	data, err := Encode(event.Envelope{
		Seq:     4,
		At:      1500 * time.Millisecond,
		Payload: event.MissilePhaseEntered{AttackID: "m1", Phase: hazard.PhaseIncoming, TargetLane: 2},
	}, "s1")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got struct {
		Seq     uint64 `json:"seq"`
		AtMS    int64  `json:"at_ms"`
		Type    string `json:"type"`
		Session string `json:"session"`
		Payload struct {
			AttackID   string
			Phase      string
			TargetLane int
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	testutil.AssertEqual(t, "seq", got.Seq, uint64(4))
	testutil.AssertEqual(t, "at", got.AtMS, int64(1500))
	testutil.AssertEqual(t, "type", got.Type, "missile.phase")
	testutil.AssertEqual(t, "session", got.Session, "s1")
	testutil.AssertEqual(t, "phase", got.Payload.Phase, "incoming")
	testutil.AssertEqual(t, "lane", got.Payload.TargetLane, 2)
}

func TestPublisher_DeliversInOrder(t *testing.T) {
	srv := startServer(t)

	sub, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer sub.Close()
	inbox, err := sub.SubscribeSync("ww.>")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sub.Flush(); err != nil {
		t.Fatalf("flush subscription: %v", err)
	}

	pub, err := Dial(srv.ClientURL(), "ww", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer pub.Close()

	err = pub.Publish([]event.Envelope{
		{Seq: 1, Payload: event.SessionStarted{SessionID: "abc"}},
		{Seq: 2, At: time.Second, Payload: event.ChaseStarted{ChaseID: "c1"}},
		{Seq: 3, At: 2 * time.Second, Payload: event.CrashOccurred{Lane: 1, Cause: event.CauseTraffic}},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := pub.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	wantSubjects := []string{"ww.session.started", "ww.chase.started", "ww.crash"}
	for i, want := range wantSubjects {
		msg, err := inbox.NextMsg(2 * time.Second)
		if err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		testutil.AssertEqual(t, "subject", msg.Subject, want)

		var m Message
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		testutil.AssertEqual(t, "seq", m.Seq, uint64(i+1))
		testutil.AssertEqual(t, "session carried", m.Session, "abc")
	}
}

func TestDial_Unreachable(t *testing.T) {
	_, err := Dial("nats://127.0.0.1:1", "ww", nil)
	testutil.AssertErrorContains(t, err, "connect relay")
}
