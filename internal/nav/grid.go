package nav

import (
	"math"

	"deadwave/core/internal/geom"
)

// DefaultCellSize is the rasterization granularity for room collision
// geometry, in world units.
const DefaultCellSize = 32.0

// Cell addresses one grid square by column and row.
type Cell struct {
	Col int
	Row int
}

// Grid is a binary rasterization of a room's collision geometry. It is built
// once when the room loads and never mutated afterwards; rebuilding happens
// only on room (re)load.
type Grid struct {
	cols, rows    int
	cellSize      float64
	walkable      []bool
	width         float64
	height        float64
	walkableCells int
}

// NewGrid wraps a walkability mask produced by a room loader. The mask is
// indexed row-major (row*cols + col). Dimensions are clamped to at least one
// cell so lookups stay in range even for degenerate assets.
func NewGrid(mask []bool, cols, rows int, cellSize float64) *Grid {
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	walkable := make([]bool, cols*rows)
	count := 0
	for i := 0; i < len(walkable) && i < len(mask); i++ {
		if mask[i] {
			walkable[i] = true
			count++
		}
	}
	return &Grid{
		cols:          cols,
		rows:          rows,
		cellSize:      cellSize,
		walkable:      walkable,
		width:         float64(cols) * cellSize,
		height:        float64(rows) * cellSize,
		walkableCells: count,
	}
}

// Cols reports the number of columns in the grid.
func (g *Grid) Cols() int {
	if g == nil {
		return 0
	}
	return g.cols
}

// Rows reports the number of rows in the grid.
func (g *Grid) Rows() int {
	if g == nil {
		return 0
	}
	return g.rows
}

// CellSize reports the size of each cell in world units.
func (g *Grid) CellSize() float64 {
	if g == nil {
		return 0
	}
	return g.cellSize
}

// Width reports the grid extent along X in world units.
func (g *Grid) Width() float64 {
	if g == nil {
		return 0
	}
	return g.width
}

// Height reports the grid extent along Y in world units.
func (g *Grid) Height() float64 {
	if g == nil {
		return 0
	}
	return g.height
}

// WalkableCells reports how many cells rasterized as walkable. A room loader
// should treat zero as a malformed asset and say so loudly.
func (g *Grid) WalkableCells() int {
	if g == nil {
		return 0
	}
	return g.walkableCells
}

// IsWithin reports whether the cell lies inside the grid.
func (g *Grid) IsWithin(cell Cell) bool {
	return g != nil && cell.Col >= 0 && cell.Row >= 0 && cell.Col < g.cols && cell.Row < g.rows
}

// IsWalkable reports whether the cell is traversable. Out-of-range cells are
// unwalkable rather than a fault.
func (g *Grid) IsWalkable(cell Cell) bool {
	if !g.IsWithin(cell) {
		return false
	}
	return g.walkable[g.index(cell)]
}

func (g *Grid) index(cell Cell) int {
	return cell.Row*g.cols + cell.Col
}

// WorldToGrid maps a world point to the cell containing it. Points outside
// the grid clamp to the nearest edge cell.
func (g *Grid) WorldToGrid(point geom.Vec2) Cell {
	if g == nil {
		return Cell{}
	}
	maxX := g.width - 1
	if maxX < 0 {
		maxX = 0
	}
	maxY := g.height - 1
	if maxY < 0 {
		maxY = 0
	}
	x := geom.Clamp(point.X, 0, maxX)
	y := geom.Clamp(point.Y, 0, maxY)
	return Cell{Col: int(x / g.cellSize), Row: int(y / g.cellSize)}
}

// GridToWorld maps a cell to the world position of its center, so the
// WorldToGrid round-trip is stable to within half a cell.
func (g *Grid) GridToWorld(cell Cell) geom.Vec2 {
	if g == nil {
		return geom.Vec2{}
	}
	return geom.Vec2{
		X: (float64(cell.Col) + 0.5) * g.cellSize,
		Y: (float64(cell.Row) + 0.5) * g.cellSize,
	}
}

// NearestWalkable searches outward in expanding square rings from the cell
// containing point and returns the center of the closest walkable cell whose
// center lies within maxRadius of point. It returns false when no such cell
// exists, e.g. a click deep inside solid geometry.
func (g *Grid) NearestWalkable(point geom.Vec2, maxRadius float64) (geom.Vec2, bool) {
	if g == nil || maxRadius < 0 {
		return geom.Vec2{}, false
	}
	origin := g.WorldToGrid(point)
	maxRing := int(math.Ceil(maxRadius/g.cellSize)) + 1

	best := Cell{}
	bestDist := math.MaxFloat64
	found := false

	consider := func(cell Cell) {
		if !g.IsWalkable(cell) {
			return
		}
		dist := geom.Distance(point, g.GridToWorld(cell))
		if dist > maxRadius {
			return
		}
		if dist < bestDist {
			bestDist = dist
			best = cell
			found = true
		}
	}

	for ring := 0; ring <= maxRing; ring++ {
		if ring == 0 {
			consider(origin)
		} else {
			for col := origin.Col - ring; col <= origin.Col+ring; col++ {
				consider(Cell{Col: col, Row: origin.Row - ring})
				consider(Cell{Col: col, Row: origin.Row + ring})
			}
			for row := origin.Row - ring + 1; row <= origin.Row+ring-1; row++ {
				consider(Cell{Col: origin.Col - ring, Row: row})
				consider(Cell{Col: origin.Col + ring, Row: row})
			}
		}
		// Cells on later rings can still be nearer than a corner hit on
		// this ring, so finish one more ring before settling.
		if found && float64(ring-1)*g.cellSize > bestDist {
			break
		}
	}
	if !found {
		return geom.Vec2{}, false
	}
	return g.GridToWorld(best), true
}
