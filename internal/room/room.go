// Package room builds the static side of a playable room: the walkability
// grid rasterized from generated collision geometry, the permanent ambient
// sources, and the initial creature spawn positions. Everything stochastic
// draws from labeled RNGs derived from the room seed, so identical seeds
// produce identical rooms.
package room

import (
	"context"

	"deadwave/core/internal/audio"
	"deadwave/core/internal/geom"
	"deadwave/core/internal/nav"
	"deadwave/core/logging"
	navlog "deadwave/core/logging/navigation"
)

// Spawn is one creature placement resolved by the loader.
type Spawn struct {
	Type     string
	Position geom.Vec2
}

// Room is the immutable product of Load. The simulation owns the mutable
// side (field contents, agent state) and rebuilds it from a Room on reload.
type Room struct {
	ID        string
	Config    Config
	Grid      *nav.Grid
	Obstacles []geom.Rect
	Sources   []audio.SourceSpec
	Spawns    []Spawn
	PlayerAt  geom.Vec2
}

const spawnSnapRadius = 6 * nav.DefaultCellSize

// Load builds a room from config. The only condition surfaced loudly is a
// grid with zero walkable cells, which indicates a malformed asset; spawn
// rows that cannot be placed are dropped quietly.
func Load(ctx context.Context, cfg Config, pub logging.Publisher) *Room {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	normalized := cfg.normalized()

	playerAt := geom.Vec2{X: normalized.Width / 2, Y: normalized.Height / 2}

	var obstacles []geom.Rect
	if normalized.Obstacles {
		rng := NewDeterministicRNG(normalized.Seed, "room.obstacles")
		obstacles = generateObstacles(rng, normalized.ObstaclesCount, normalized.Width, normalized.Height, playerAt)
	}

	mask, cols, rows, cellSize := rasterize(normalized, obstacles)
	grid := nav.NewGrid(mask, cols, rows, cellSize)
	if grid.WalkableCells() == 0 {
		navlog.GridEmpty(ctx, pub, normalized.ID, navlog.GridEmptyPayload{
			Cols:     grid.Cols(),
			Rows:     grid.Rows(),
			CellSize: grid.CellSize(),
		})
	}

	if snapped, ok := grid.NearestWalkable(playerAt, spawnSnapRadius); ok {
		playerAt = snapped
	}

	sources := make([]audio.SourceSpec, 0, len(normalized.Sources))
	for _, src := range normalized.Sources {
		sources = append(sources, audio.SourceSpec{
			Position:       geom.Vec2{X: src.X, Y: src.Y},
			MusicType:      src.MusicType,
			BaseIntensity:  src.BaseIntensity,
			Radius:         src.Radius,
			Duration:       -1,
			EffectDuration: src.EffectDuration,
		})
	}

	return &Room{
		ID:        normalized.ID,
		Config:    normalized,
		Grid:      grid,
		Obstacles: obstacles,
		Sources:   sources,
		Spawns:    placeSpawns(normalized, grid),
		PlayerAt:  playerAt,
	}
}

// placeSpawns scatters the spawn table across walkable cells, snapping each
// candidate through the grid so nothing starts inside geometry.
func placeSpawns(cfg Config, grid *nav.Grid) []Spawn {
	if len(cfg.Spawns) == 0 || grid.WalkableCells() == 0 {
		return nil
	}
	rng := NewDeterministicRNG(cfg.Seed, "room.spawns")
	spawns := make([]Spawn, 0)
	for _, row := range cfg.Spawns {
		for i := 0; i < row.Count; i++ {
			placed := false
			for attempt := 0; attempt < 10 && !placed; attempt++ {
				candidate := geom.Vec2{
					X: geom.Clamp(rng.Float64()*cfg.Width, PlayerHalf, cfg.Width-PlayerHalf),
					Y: geom.Clamp(rng.Float64()*cfg.Height, PlayerHalf, cfg.Height-PlayerHalf),
				}
				position, ok := grid.NearestWalkable(candidate, spawnSnapRadius)
				if !ok {
					continue
				}
				spawns = append(spawns, Spawn{Type: row.Type, Position: position})
				placed = true
			}
		}
	}
	return spawns
}
