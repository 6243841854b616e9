package sim

import (
	"time"

	"deadwave/core/internal/audio"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandMove       CommandType = "Move"
	CommandNavigate   CommandType = "Navigate"
	CommandClearInput CommandType = "ClearInput"
	CommandUseItem    CommandType = "UseItem"
)

// MoveCommand carries a raw input vector. A non-zero vector cancels and
// replaces any active path.
type MoveCommand struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// NavigateCommand asks for a click-to-move path to a world point.
type NavigateCommand struct {
	TargetX float64 `json:"targetX"`
	TargetY float64 `json:"targetY"`
}

// UseItemCommand drops a transient sound source into the field, e.g. a
// boombox or a chord struck on a guitar.
type UseItemCommand struct {
	X              float64         `json:"x"`
	Y              float64         `json:"y"`
	MusicType      audio.MusicType `json:"musicType"`
	BaseIntensity  float64         `json:"baseIntensity"`
	Radius         float64         `json:"radius"`
	Duration       float64         `json:"duration"`
	EffectDuration float64         `json:"effectDuration"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick uint64           `json:"originTick"`
	ActorID    string           `json:"actorId"`
	Type       CommandType      `json:"type"`
	IssuedAt   time.Time        `json:"issuedAt"`
	Move       *MoveCommand     `json:"move,omitempty"`
	Navigate   *NavigateCommand `json:"navigate,omitempty"`
	UseItem    *UseItemCommand  `json:"useItem,omitempty"`
}
