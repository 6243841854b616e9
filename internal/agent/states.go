package agent

import "deadwave/core/internal/geom"

// ThreatState is the distance-driven motion axis. It is orthogonal to
// MusicState; the two combine only through Resolve.
type ThreatState int

const (
	ThreatWander ThreatState = iota
	ThreatChase
)

func (s ThreatState) String() string {
	switch s {
	case ThreatWander:
		return "wander"
	case ThreatChase:
		return "chase"
	default:
		return "unknown"
	}
}

// MusicState is the sound-driven behavior axis. Any non-hostile value
// suppresses the threat axis entirely: the agent cannot damage the player
// regardless of distance.
type MusicState int

// Declaration order doubles as priority rank: remembering > dancing >
// entranced > hostile.
const (
	MusicHostile MusicState = iota
	MusicEntranced
	MusicDancing
	MusicRemembering
)

func (s MusicState) String() string {
	switch s {
	case MusicHostile:
		return "hostile"
	case MusicEntranced:
		return "entranced"
	case MusicDancing:
		return "dancing"
	case MusicRemembering:
		return "remembering"
	default:
		return "unknown"
	}
}

// Priority reports the override rank used when several sources produce
// candidate states in the same tick.
func (s MusicState) Priority() int { return int(s) }

// Effective intensity thresholds mapping to candidate music states.
const (
	entrancedThreshold   = 0.3
	dancingThreshold     = 0.6
	rememberingThreshold = 0.9
)

// musicStateFor maps a clamped effective intensity onto a candidate state.
func musicStateFor(effective float64) MusicState {
	switch {
	case effective >= rememberingThreshold:
		return MusicRemembering
	case effective >= dancingThreshold:
		return MusicDancing
	case effective >= entrancedThreshold:
		return MusicEntranced
	default:
		return MusicHostile
	}
}

// MotionKind names the movement decision Resolve hands to the caller.
type MotionKind int

const (
	MotionWander MotionKind = iota
	MotionChase
	MotionFrozen
	MotionSway
	MotionRetreat
)

func (k MotionKind) String() string {
	switch k {
	case MotionWander:
		return "wander"
	case MotionChase:
		return "chase"
	case MotionFrozen:
		return "frozen"
	case MotionSway:
		return "sway"
	case MotionRetreat:
		return "retreat"
	default:
		return "unknown"
	}
}

// Motion couples a movement decision with a unit direction. Frozen and sway
// motions carry a zero vector; sway exists so renderers can animate in place.
type Motion struct {
	Kind      MotionKind
	Direction geom.Vec2
}

// Resolve combines the two state axes into one motion decision. It is a pure
// function so the override rules stay testable in isolation from timers and
// field queries: whenever the music state is non-hostile it wins outright,
// otherwise the threat state drives.
func Resolve(threat ThreatState, music MusicState, toPlayer geom.Vec2, wanderHeading geom.Vec2) Motion {
	switch music {
	case MusicEntranced:
		return Motion{Kind: MotionFrozen}
	case MusicDancing:
		return Motion{Kind: MotionSway}
	case MusicRemembering:
		return Motion{Kind: MotionRetreat, Direction: toPlayer.Scale(-1).Normalized()}
	}
	if threat == ThreatChase {
		return Motion{Kind: MotionChase, Direction: toPlayer.Normalized()}
	}
	return Motion{Kind: MotionWander, Direction: wanderHeading.Normalized()}
}
