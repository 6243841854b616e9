package room

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"deadwave/core/internal/geom"
	"deadwave/core/internal/nav"
)

const rubbleNoiseFrequency = 0.015

// rasterize converts the room's collision geometry into a walkability mask
// at the given cell size. A cell is walkable when a circle of PlayerHalf at
// its center clears the room border, every obstacle rectangle, and the
// rubble noise layer.
func rasterize(cfg Config, obstacles []geom.Rect) ([]bool, int, int, float64) {
	cellSize := cfg.CellSize
	if cellSize <= 0 {
		cellSize = nav.DefaultCellSize
	}
	cols := int(cfg.Width / cellSize)
	rows := int(cfg.Height / cellSize)
	if float64(cols)*cellSize < cfg.Width {
		cols++
	}
	if float64(rows)*cellSize < cfg.Height {
		rows++
	}
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}

	var rubble opensimplex.Noise
	rubbleCutoff := 0.0
	if cfg.Rubble && cfg.RubbleDensity > 0 {
		rubble = opensimplex.NewNormalized(DeterministicSeedValue(cfg.Seed, "room.rubble"))
		// Normalized noise is uniform enough that treating the density as a
		// quantile cutoff gives roughly that fraction of blocked cells.
		rubbleCutoff = 1 - cfg.RubbleDensity
	}

	mask := make([]bool, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cx := (float64(col) + 0.5) * cellSize
			cy := (float64(row) + 0.5) * cellSize
			if cx < PlayerHalf || cx > cfg.Width-PlayerHalf || cy < PlayerHalf || cy > cfg.Height-PlayerHalf {
				continue
			}
			blocked := false
			for _, obs := range obstacles {
				if geom.CircleRectOverlap(cx, cy, PlayerHalf, obs) {
					blocked = true
					break
				}
			}
			if !blocked && rubble != nil {
				if rubble.Eval2(cx*rubbleNoiseFrequency, cy*rubbleNoiseFrequency) > rubbleCutoff {
					blocked = true
				}
			}
			if !blocked {
				mask[row*cols+col] = true
			}
		}
	}
	return mask, cols, rows, cellSize
}
