package event

import (
	"time"

	"github.com/wrongway/engine/internal/core/ecs"
	"github.com/wrongway/engine/internal/hazard"
)

// CrashCause identifies what ended a session.
type CrashCause string

const (
	CauseTraffic CrashCause = "traffic"
	CauseMissile CrashCause = "missile"
)

type SessionStarted struct {
	SessionID string
	Wall      time.Time
}

type SessionEnded struct {
	SessionID string
	Survival  time.Duration
}

type SessionReset struct {
	SessionID string
}

// CrashOccurred is published once per session, at the moment it ends by
// collision or missile impact.
type CrashOccurred struct {
	Lane     int
	Cause    CrashCause
	Survival time.Duration
	Wall     time.Time
}

type MissilePhaseEntered struct {
	AttackID   string
	Phase      hazard.Phase
	TargetLane int
}

type MissileCleared struct {
	AttackID string
}

type ChaseStarted struct {
	ChaseID string
	Cars    []ecs.EntityID
}

type ChaseEnded struct {
	ChaseID string
}

// TrafficWarning is the approach cue for a car closing on the player.
// Pan runs -1 (left lane) to 1 (right lane); Volume is in [0.1, 1].
type TrafficWarning struct {
	CarID    ecs.EntityID
	Lane     int
	Distance float64
	Pan      float64
	Volume   float64
}

// Name returns a stable short name for an event payload, used by relays and logs.
func Name(payload any) string {
	switch payload.(type) {
	case SessionStarted:
		return "session.started"
	case SessionEnded:
		return "session.ended"
	case SessionReset:
		return "session.reset"
	case CrashOccurred:
		return "crash"
	case MissilePhaseEntered:
		return "missile.phase"
	case MissileCleared:
		return "missile.cleared"
	case ChaseStarted:
		return "chase.started"
	case ChaseEnded:
		return "chase.ended"
	case TrafficWarning:
		return "traffic.warning"
	default:
		return "unknown"
	}
}
