package navigation

import (
	"context"

	"deadwave/core/logging"
)

const (
	// EventGridEmpty is emitted when a walkability grid rasterizes with zero
	// walkable cells, which indicates a malformed room asset.
	EventGridEmpty logging.EventType = "navigation.grid_empty"
	// EventPathUnreachable is emitted when a navigation request cannot be
	// satisfied even after snapping to the nearest walkable cell.
	EventPathUnreachable logging.EventType = "navigation.path_unreachable"
)

// GridEmptyPayload captures the dimensions of the degenerate grid.
type GridEmptyPayload struct {
	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
	CellSize float64 `json:"cellSize"`
}

// GridEmpty publishes a warning for a grid with no walkable cells.
func GridEmpty(ctx context.Context, pub logging.Publisher, roomID string, payload GridEmptyPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGridEmpty,
		Actor:    logging.EntityRef{ID: roomID, Kind: logging.EntityKindRoom},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNavigation,
		Payload:  payload,
	})
}

// PathUnreachablePayload records the failed request endpoints.
type PathUnreachablePayload struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	GoalX  float64 `json:"goalX"`
	GoalY  float64 `json:"goalY"`
}

// PathUnreachable publishes a debug event for an unreachable goal. It is not
// a fault; the mover simply stays put.
func PathUnreachable(ctx context.Context, pub logging.Publisher, tick uint64, moverID string, payload PathUnreachablePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPathUnreachable,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: moverID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNavigation,
		Payload:  payload,
	})
}
