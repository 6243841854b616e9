package room

import (
	"math/rand"

	"deadwave/core/internal/geom"
)

const (
	obstacleMinWidth    = 40.0
	obstacleMaxWidth    = 140.0
	obstacleMinHeight   = 40.0
	obstacleMaxHeight   = 120.0
	obstacleSpawnMargin = 48.0
	spawnSafeRadius     = 80.0
)

// generateObstacles scatters non-overlapping blocking rectangles while
// keeping the player spawn point clear.
func generateObstacles(rng *rand.Rand, count int, width, height float64, spawn geom.Vec2) []geom.Rect {
	if rng == nil || count <= 0 {
		return nil
	}

	obstacles := make([]geom.Rect, 0, count)
	attempts := 0
	maxAttempts := count * 20

	for len(obstacles) < count && attempts < maxAttempts {
		attempts++

		w := obstacleMinWidth + rng.Float64()*(obstacleMaxWidth-obstacleMinWidth)
		h := obstacleMinHeight + rng.Float64()*(obstacleMaxHeight-obstacleMinHeight)

		minX := obstacleSpawnMargin
		maxX := width - obstacleSpawnMargin - w
		minY := obstacleSpawnMargin
		maxY := height - obstacleSpawnMargin - h
		if maxX <= minX || maxY <= minY {
			break
		}

		candidate := geom.Rect{
			X:      minX + rng.Float64()*(maxX-minX),
			Y:      minY + rng.Float64()*(maxY-minY),
			Width:  w,
			Height: h,
		}

		if geom.CircleRectOverlap(spawn.X, spawn.Y, spawnSafeRadius, candidate) {
			continue
		}

		overlaps := false
		for _, existing := range obstacles {
			if geom.RectsOverlap(candidate, existing, PlayerHalf) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		obstacles = append(obstacles, candidate)
	}

	return obstacles
}
