package agent

import (
	"math"
	"math/rand"

	"deadwave/core/internal/agent/catalog"
	"deadwave/core/internal/audio"
	"deadwave/core/internal/geom"
)

// Agent is the behavior state for one non-player creature. All side effects
// are data (position, states); rendering and sound playback read them from
// the outside.
type Agent struct {
	ID       string
	Position geom.Vec2

	creature *catalog.Creature

	threat     ThreatState
	music      MusicState
	musicTimer float64

	winningSource audio.SourceID

	wanderHeading geom.Vec2
	wanderTimer   float64

	rng *rand.Rand
}

// StateChange reports a music state transition produced by an Update call,
// so the caller can log it.
type StateChange struct {
	From     MusicState
	To       MusicState
	SourceID audio.SourceID
}

// New constructs an agent of the given creature type at a position. The RNG
// drives wander headings; passing the room's labeled subsystem RNG keeps
// replays deterministic.
func New(id string, creature *catalog.Creature, position geom.Vec2, rng *rand.Rand) *Agent {
	a := &Agent{
		ID:       id,
		Position: position,
		creature: creature,
		rng:      rng,
	}
	a.refreshWanderHeading()
	return a
}

// Creature exposes the immutable type definition.
func (a *Agent) Creature() *catalog.Creature {
	if a == nil {
		return nil
	}
	return a.creature
}

// ThreatState reports the distance-driven axis.
func (a *Agent) ThreatState() ThreatState {
	if a == nil {
		return ThreatWander
	}
	return a.threat
}

// MusicState reports the sound-driven axis.
func (a *Agent) MusicState() MusicState {
	if a == nil {
		return MusicHostile
	}
	return a.music
}

// Half reports the agent's collision half size.
func (a *Agent) Half() float64 {
	if a == nil || a.creature == nil {
		return 0
	}
	return a.creature.Half
}

// Update runs one tick of sensing: the threat axis from player distance, the
// music axis from a fresh field query. It returns the resolved motion and,
// when the music state moved, the transition. The agent never holds a
// reference to a source across ticks; it re-queries every time.
func (a *Agent) Update(dt float64, playerPos geom.Vec2, field *audio.Field) (Motion, *StateChange) {
	if a == nil || a.creature == nil {
		return Motion{}, nil
	}

	toPlayer := playerPos.Sub(a.Position)
	if toPlayer.Length() <= a.creature.DetectionRadius {
		a.threat = ThreatChase
	} else {
		a.threat = ThreatWander
	}

	change := a.senseMusic(dt, field)

	a.wanderTimer -= dt
	if a.wanderTimer <= 0 {
		a.refreshWanderHeading()
	}

	return Resolve(a.threat, a.music, toPlayer, a.wanderHeading), change
}

// senseMusic computes the candidate music state per audible source and
// applies the priority override rules. Equal-priority candidates resolve to
// the lowest source id; Query already yields ascending ids, so the first
// strict improvement wins.
func (a *Agent) senseMusic(dt float64, field *audio.Field) *StateChange {
	winner := MusicHostile
	var winnerSource audio.SourceID
	var winnerDuration float64

	for _, reading := range field.Query(a.Position) {
		effective := geom.Clamp(reading.Intensity*a.creature.AffinityFor(reading.MusicType), 0, 1)
		candidate := musicStateFor(effective)
		if candidate == MusicHostile {
			continue
		}
		if candidate.Priority() > winner.Priority() {
			winner = candidate
			winnerSource = reading.SourceID
			winnerDuration = reading.EffectDuration
		}
	}

	if winner == MusicHostile {
		// Nothing is influencing the agent this tick. The armed effect keeps
		// holding until its own timer elapses, even if the source expired.
		if a.music == MusicHostile {
			return nil
		}
		a.musicTimer -= dt
		if a.musicTimer > 0 {
			return nil
		}
		change := &StateChange{From: a.music, To: MusicHostile}
		a.music = MusicHostile
		a.musicTimer = 0
		a.winningSource = 0
		return change
	}

	var change *StateChange
	if winner != a.music {
		change = &StateChange{From: a.music, To: winner, SourceID: winnerSource}
	}
	a.music = winner
	a.musicTimer = winnerDuration
	a.winningSource = winnerSource
	return change
}

// Touches reports whether the agent can damage the player this tick. It is
// meaningful only under hostile+chase; in every other music state the agent
// is harmless regardless of proximity.
func (a *Agent) Touches(playerPos geom.Vec2, playerHalf float64) bool {
	if a == nil || a.creature == nil {
		return false
	}
	if a.music != MusicHostile || a.threat != ThreatChase {
		return false
	}
	return geom.CirclesOverlap(a.Position, a.creature.Half, playerPos, playerHalf)
}

// Speed reports the movement speed for a motion kind.
func (a *Agent) Speed(kind MotionKind) float64 {
	if a == nil || a.creature == nil {
		return 0
	}
	switch kind {
	case MotionChase, MotionRetreat:
		return a.creature.ChaseSpeed
	case MotionWander:
		return a.creature.WanderSpeed
	default:
		return 0
	}
}

func (a *Agent) refreshWanderHeading() {
	angle := 0.0
	if a.rng != nil {
		angle = a.rng.Float64() * 2 * math.Pi
	}
	a.wanderHeading = geom.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
	interval := 3.0
	if a.creature != nil && a.creature.WanderInterval > 0 {
		interval = a.creature.WanderInterval
	}
	a.wanderTimer = interval
}

// Deflect rotates the wander heading when forward progress is blocked, so
// wandering agents slide along walls instead of grinding into them.
func (a *Agent) Deflect() {
	if a == nil {
		return
	}
	a.refreshWanderHeading()
}
