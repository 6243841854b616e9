package lifecycle

import (
	"context"

	"deadwave/core/logging"
)

const (
	// EventRoomLoaded is emitted once a room finishes constructing its grid,
	// permanent sources, and initial agent population.
	EventRoomLoaded logging.EventType = "lifecycle.room_loaded"
	// EventTickBudgetOverrun is emitted when a step exceeds the tick budget.
	EventTickBudgetOverrun logging.EventType = "lifecycle.tick_budget_overrun"
)

type RoomLoadedPayload struct {
	Seed          string `json:"seed"`
	WalkableCells int    `json:"walkableCells"`
	Agents        int    `json:"agents"`
	Sources       int    `json:"sources"`
}

func RoomLoaded(ctx context.Context, pub logging.Publisher, roomID string, payload RoomLoadedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRoomLoaded,
		Actor:    logging.EntityRef{ID: roomID, Kind: logging.EntityKindRoom},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}

type TickBudgetOverrunPayload struct {
	DurationMillis int64   `json:"durationMillis"`
	BudgetMillis   int64   `json:"budgetMillis"`
	Ratio          float64 `json:"ratio"`
}

func TickBudgetOverrun(ctx context.Context, pub logging.Publisher, tick uint64, payload TickBudgetOverrunPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTickBudgetOverrun,
		Tick:     tick,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}
