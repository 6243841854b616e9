package behavior

import (
	"context"

	"deadwave/core/logging"
)

const (
	// EventMusicStateChanged is emitted when an agent's music state moves to a
	// different value, including the decay back to hostile.
	EventMusicStateChanged logging.EventType = "behavior.music_state_changed"
	// EventDamageTouch is emitted when a hostile chasing agent overlaps the
	// player and a damage event fires.
	EventDamageTouch logging.EventType = "behavior.damage_touch"
)

// MusicStateChangedPayload records the transition and the source that won it.
type MusicStateChangedPayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	SourceID uint64 `json:"sourceId,omitempty"`
}

func MusicStateChanged(ctx context.Context, pub logging.Publisher, tick uint64, agentID string, payload MusicStateChangedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMusicStateChanged,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryBehavior,
		Payload:  payload,
	})
}

func DamageTouch(ctx context.Context, pub logging.Publisher, tick uint64, agentID, playerID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDamageTouch,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Targets:  []logging.EntityRef{{ID: playerID, Kind: logging.EntityKindPlayer}},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryBehavior,
	})
}
