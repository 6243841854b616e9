package sim

import (
	"deadwave/core/internal/audio"
)

// PointView is a bare world-space coordinate used inside snapshot payloads.
type PointView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerView mirrors the player state exposed to callers. Target carries the
// destination of the active navigation path so clients can render a marker;
// it is nil while the player is idle or steered by raw input.
type PlayerView struct {
	ID     string     `json:"id"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Target *PointView `json:"target,omitempty"`
}

// AgentView carries everything a renderer needs to pick a sprite: position
// plus the current (threat, music) state pair.
type AgentView struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	ThreatState string  `json:"threatState"`
	MusicState  string  `json:"musicState"`
}

// SourceView mirrors an active sound source.
type SourceView struct {
	ID            uint64          `json:"id"`
	X             float64         `json:"x"`
	Y             float64         `json:"y"`
	MusicType     audio.MusicType `json:"musicType"`
	BaseIntensity float64         `json:"baseIntensity"`
	Radius        float64         `json:"radius"`
	Permanent     bool            `json:"permanent"`
	Remaining     float64         `json:"remaining,omitempty"`
}

// Snapshot captures the state exposed to non-simulation callers each tick.
type Snapshot struct {
	Tick    uint64        `json:"tick"`
	Player  PlayerView    `json:"player"`
	Agents  []AgentView   `json:"agents,omitempty"`
	Sources []SourceView  `json:"sources,omitempty"`
	Tension TensionSignal `json:"tension"`
	Damage  []DamageEvent `json:"damage,omitempty"`
}

// Snapshot builds a value copy of the world for broadcast. Damage events are
// drained as part of the snapshot so each hit is delivered exactly once.
func (w *World) Snapshot() Snapshot {
	if w == nil {
		return Snapshot{}
	}
	snapshot := Snapshot{
		Tick: w.tick,
		Player: PlayerView{
			ID: w.player.id,
			X:  w.player.position.X,
			Y:  w.player.position.Y,
		},
		Tension: w.tension,
		Damage:  w.DrainDamage(),
	}
	if goal, ok := w.player.path.Goal(); ok {
		snapshot.Player.Target = &PointView{X: goal.X, Y: goal.Y}
	}
	for _, id := range w.agentOrder {
		ag := w.agents[id]
		snapshot.Agents = append(snapshot.Agents, AgentView{
			ID:          id,
			Type:        ag.Creature().ID,
			X:           ag.Position.X,
			Y:           ag.Position.Y,
			ThreatState: ag.ThreatState().String(),
			MusicState:  ag.MusicState().String(),
		})
	}
	for _, src := range w.field.Sources() {
		view := SourceView{
			ID:            uint64(src.ID),
			X:             src.Position.X,
			Y:             src.Position.Y,
			MusicType:     src.MusicType,
			BaseIntensity: src.BaseIntensity,
			Radius:        src.Radius,
			Permanent:     src.Permanent,
		}
		if !src.Permanent {
			view.Remaining = src.Remaining
		}
		snapshot.Sources = append(snapshot.Sources, view)
	}
	return snapshot
}
