package audiofield

import (
	"context"
	"fmt"

	"deadwave/core/logging"
)

const (
	// EventSourceAdded is emitted when a sound source enters the field.
	EventSourceAdded logging.EventType = "audio.source_added"
	// EventSourceExpired is emitted when a transient source runs out.
	EventSourceExpired logging.EventType = "audio.source_expired"
)

// SourcePayload summarizes a source for the log stream.
type SourcePayload struct {
	MusicType     string  `json:"musicType"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	BaseIntensity float64 `json:"baseIntensity"`
	Radius        float64 `json:"radius"`
	Permanent     bool    `json:"permanent"`
}

func SourceAdded(ctx context.Context, pub logging.Publisher, tick uint64, sourceID uint64, payload SourcePayload) {
	publish(ctx, pub, EventSourceAdded, tick, sourceID, payload)
}

func SourceExpired(ctx context.Context, pub logging.Publisher, tick uint64, sourceID uint64, payload SourcePayload) {
	publish(ctx, pub, EventSourceExpired, tick, sourceID, payload)
}

func publish(ctx context.Context, pub logging.Publisher, typ logging.EventType, tick uint64, sourceID uint64, payload SourcePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     typ,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: fmt.Sprintf("source-%d", sourceID), Kind: logging.EntityKindSource},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryAudio,
		Payload:  payload,
	})
}
