package nav

import (
	"testing"

	"deadwave/core/internal/geom"
)

// gridFromRows builds a grid from an ASCII sketch: '.' walkable, '#' blocked.
func gridFromRows(t *testing.T, rows []string) *Grid {
	t.Helper()
	if len(rows) == 0 {
		t.Fatalf("gridFromRows requires at least one row")
	}
	cols := len(rows[0])
	mask := make([]bool, 0, cols*len(rows))
	for _, row := range rows {
		if len(row) != cols {
			t.Fatalf("ragged grid sketch: row %q has %d cells, want %d", row, len(row), cols)
		}
		for _, ch := range row {
			mask = append(mask, ch == '.')
		}
	}
	return NewGrid(mask, cols, len(rows), DefaultCellSize)
}

func TestWorldGridRoundTrip(t *testing.T) {
	grid := gridFromRows(t, []string{
		"....",
		"....",
		"....",
	})

	cases := []struct {
		name  string
		point geom.Vec2
		want  Cell
	}{
		{name: "origin", point: geom.Vec2{X: 0, Y: 0}, want: Cell{Col: 0, Row: 0}},
		{name: "interior", point: geom.Vec2{X: 70, Y: 40}, want: Cell{Col: 2, Row: 1}},
		{name: "cell boundary", point: geom.Vec2{X: 64, Y: 64}, want: Cell{Col: 2, Row: 2}},
		{name: "clamped past right edge", point: geom.Vec2{X: 9999, Y: 10}, want: Cell{Col: 3, Row: 0}},
		{name: "clamped negative", point: geom.Vec2{X: -50, Y: -50}, want: Cell{Col: 0, Row: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := grid.WorldToGrid(tc.point)
			if got != tc.want {
				t.Fatalf("WorldToGrid(%v) = %v, want %v", tc.point, got, tc.want)
			}
			center := grid.GridToWorld(got)
			if grid.WorldToGrid(center) != got {
				t.Fatalf("center %v of cell %v maps back to %v", center, got, grid.WorldToGrid(center))
			}
		})
	}
}

func TestGridWalkability(t *testing.T) {
	grid := gridFromRows(t, []string{
		".#.",
		"...",
	})

	if !grid.IsWalkable(Cell{Col: 0, Row: 0}) {
		t.Fatalf("expected open cell to be walkable")
	}
	if grid.IsWalkable(Cell{Col: 1, Row: 0}) {
		t.Fatalf("expected blocked cell to be unwalkable")
	}
	if grid.IsWalkable(Cell{Col: -1, Row: 0}) || grid.IsWalkable(Cell{Col: 3, Row: 0}) {
		t.Fatalf("out-of-range cells must report unwalkable")
	}
	if got := grid.WalkableCells(); got != 5 {
		t.Fatalf("WalkableCells() = %d, want 5", got)
	}
}

func TestGridClampsDegenerateDimensions(t *testing.T) {
	grid := NewGrid(nil, 0, -3, 0)
	if grid.Cols() != 1 || grid.Rows() != 1 {
		t.Fatalf("degenerate grid clamped to %dx%d, want 1x1", grid.Cols(), grid.Rows())
	}
	if grid.CellSize() != DefaultCellSize {
		t.Fatalf("cell size = %v, want default %v", grid.CellSize(), DefaultCellSize)
	}
	if grid.WalkableCells() != 0 {
		t.Fatalf("empty mask should produce zero walkable cells")
	}
}

func TestNearestWalkable(t *testing.T) {
	grid := gridFromRows(t, []string{
		"#####",
		"##..#",
		"#####",
	})

	// A point inside solid geometry snaps to the closest open cell center.
	point := geom.Vec2{X: 1.5 * DefaultCellSize, Y: 1.5 * DefaultCellSize}
	got, ok := grid.NearestWalkable(point, 4*DefaultCellSize)
	if !ok {
		t.Fatalf("expected a walkable cell within range")
	}
	want := grid.GridToWorld(Cell{Col: 2, Row: 1})
	if got != want {
		t.Fatalf("NearestWalkable = %v, want %v", got, want)
	}

	// A point already on a walkable cell returns that cell's center.
	onOpen := grid.GridToWorld(Cell{Col: 3, Row: 1})
	got, ok = grid.NearestWalkable(onOpen, DefaultCellSize)
	if !ok || got != onOpen {
		t.Fatalf("NearestWalkable on open cell = %v ok=%v, want %v", got, ok, onOpen)
	}
}

func TestNearestWalkableRespectsRadius(t *testing.T) {
	grid := gridFromRows(t, []string{
		"#####",
		"####.",
	})

	// The only open cell sits ~4 cells away; a tight radius must miss it.
	point := geom.Vec2{X: 0.5 * DefaultCellSize, Y: 0.5 * DefaultCellSize}
	if _, ok := grid.NearestWalkable(point, DefaultCellSize); ok {
		t.Fatalf("expected no walkable cell within one cell")
	}
	if _, ok := grid.NearestWalkable(point, 8*DefaultCellSize); !ok {
		t.Fatalf("expected the open cell within eight cells")
	}
}
