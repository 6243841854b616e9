package room

import (
	"strings"

	"deadwave/core/internal/audio"
)

const (
	DefaultSeed   = "backlot"
	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// PlayerHalf is the player's collision half size in world units. The
	// rasterizer carves walkability with this clearance so any walkable cell
	// is actually reachable by the player's bounding circle.
	PlayerHalf = 14.0
)

// SpawnConfig asks the loader to place Count creatures of a catalog type.
type SpawnConfig struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// SourceConfig declares a permanent ambient emitter baked into the room.
type SourceConfig struct {
	X              float64         `json:"x"`
	Y              float64         `json:"y"`
	MusicType      audio.MusicType `json:"musicType"`
	BaseIntensity  float64         `json:"baseIntensity"`
	Radius         float64         `json:"radius"`
	EffectDuration float64         `json:"effectDuration"`
}

// Config describes one room: dimensions, seed, generated geometry knobs, the
// spawn table, and permanent sources.
type Config struct {
	ID             string         `json:"id"`
	Seed           string         `json:"seed"`
	Width          float64        `json:"width"`
	Height         float64        `json:"height"`
	CellSize       float64        `json:"cellSize"`
	Obstacles      bool           `json:"obstacles"`
	ObstaclesCount int            `json:"obstaclesCount"`
	Rubble         bool           `json:"rubble"`
	RubbleDensity  float64        `json:"rubbleDensity"`
	Spawns         []SpawnConfig  `json:"spawns"`
	Sources        []SourceConfig `json:"sources"`
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.ID == "" {
		normalized.ID = "room-" + normalized.Seed
	}
	if normalized.Width <= 0 {
		normalized.Width = DefaultWidth
	}
	if normalized.Height <= 0 {
		normalized.Height = DefaultHeight
	}
	if normalized.CellSize <= 0 {
		normalized.CellSize = 0 // rasterizer falls back to nav.DefaultCellSize
	}
	if normalized.ObstaclesCount < 0 {
		normalized.ObstaclesCount = 0
	}
	if normalized.RubbleDensity < 0 {
		normalized.RubbleDensity = 0
	}
	if normalized.RubbleDensity > 1 {
		normalized.RubbleDensity = 1
	}
	spawns := make([]SpawnConfig, 0, len(normalized.Spawns))
	for _, spawn := range normalized.Spawns {
		if spawn.Type == "" || spawn.Count <= 0 {
			continue
		}
		spawns = append(spawns, spawn)
	}
	normalized.Spawns = spawns
	return normalized
}

// Normalized fills defaults and drops empty spawn rows.
func (cfg Config) Normalized() Config {
	return cfg.normalized()
}

// DefaultConfig is a small playable room with a permanent ambient source.
func DefaultConfig() Config {
	return Config{
		Seed:           DefaultSeed,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Obstacles:      true,
		ObstaclesCount: 6,
		Rubble:         true,
		RubbleDensity:  0.08,
		Spawns: []SpawnConfig{
			{Type: "rocker", Count: 2},
			{Type: "shambler", Count: 3},
		},
		Sources: []SourceConfig{
			{
				X:              DefaultWidth / 2,
				Y:              DefaultHeight / 2,
				MusicType:      audio.MusicAmbient,
				BaseIntensity:  0.25,
				Radius:         220,
				EffectDuration: 1.0,
			},
		},
	}
}
