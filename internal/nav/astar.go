package nav

import (
	"container/heap"
	"math"

	"deadwave/core/internal/geom"
)

// DefaultSnapRadius bounds how far an unwalkable start or goal may snap to
// the nearest walkable cell before the request fails. Three cells absorbs
// click imprecision without teleporting the goal across a wall.
const DefaultSnapRadius = 3 * DefaultCellSize

type neighborDelta struct {
	col      int
	row      int
	cost     float64
	diagonal bool
}

var neighborDeltas = [...]neighborDelta{
	{col: 0, row: -1, cost: 1, diagonal: false},
	{col: 1, row: 0, cost: 1, diagonal: false},
	{col: 0, row: 1, cost: 1, diagonal: false},
	{col: -1, row: 0, cost: 1, diagonal: false},
	{col: 1, row: -1, cost: math.Sqrt2, diagonal: true},
	{col: 1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: -1, cost: math.Sqrt2, diagonal: true},
}

// canTraverseDiagonal rejects corner cutting: a diagonal step is legal only
// when both cardinal cells flanking it are walkable.
func (g *Grid) canTraverseDiagonal(from Cell, delta neighborDelta) bool {
	if g == nil || !delta.diagonal {
		return true
	}
	horiz := Cell{Col: from.Col + delta.col, Row: from.Row}
	vert := Cell{Col: from.Col, Row: from.Row + delta.row}
	return g.IsWalkable(horiz) && g.IsWalkable(vert)
}

// octile is admissible and consistent for 8-directional movement with
// cardinal cost 1 and diagonal cost sqrt(2).
func octile(a, b Cell) float64 {
	dx := math.Abs(float64(a.Col - b.Col))
	dy := math.Abs(float64(a.Row - b.Row))
	if dx > dy {
		return dx + (math.Sqrt2-1)*dy
	}
	return dy + (math.Sqrt2-1)*dx
}

type searchNode struct {
	cell   Cell
	g      float64
	f      float64
	seq    uint64
	index  int
	parent *searchNode
}

type openSet []*searchNode

func (pq openSet) Len() int { return len(pq) }

// Less breaks f-score ties by discovery order so identical requests always
// yield identical paths.
func (pq openSet) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq openSet) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *openSet) Push(x any) {
	n := len(*pq)
	item := x.(*searchNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *openSet) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func (g *Grid) search(start, goal Cell) ([]Cell, bool) {
	open := &openSet{}
	heap.Init(open)
	var seq uint64
	heap.Push(open, &searchNode{cell: start, g: 0, f: octile(start, goal), seq: seq})
	gScore := map[int]float64{g.index(start): 0}
	closed := make(map[int]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		currIdx := g.index(current.cell)
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}
		if current.cell == goal {
			return reconstruct(current), true
		}

		for _, delta := range neighborDeltas {
			if delta.diagonal && !g.canTraverseDiagonal(current.cell, delta) {
				continue
			}
			next := Cell{Col: current.cell.Col + delta.col, Row: current.cell.Row + delta.row}
			if !g.IsWalkable(next) {
				continue
			}
			idx := g.index(next)
			if _, seen := closed[idx]; seen {
				continue
			}
			tentative := current.g + delta.cost
			if prev, ok := gScore[idx]; ok && tentative >= prev {
				continue
			}
			gScore[idx] = tentative
			seq++
			heap.Push(open, &searchNode{
				cell:   next,
				g:      tentative,
				f:      tentative + octile(next, goal),
				seq:    seq,
				parent: current,
			})
		}
	}
	return nil, false
}

func reconstruct(end *searchNode) []Cell {
	if end == nil {
		return nil
	}
	cells := make([]Cell, 0)
	for node := end; node != nil; node = node.parent {
		cells = append(cells, node.cell)
	}
	for i := 0; i < len(cells)/2; i++ {
		j := len(cells) - 1 - i
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// FindPath runs A* between two world points and returns the waypoint list
// front-to-back. Unwalkable endpoints are first snapped to the nearest
// walkable cell within DefaultSnapRadius. An unreachable goal yields
// (nil, false); the caller simply does not move.
func (g *Grid) FindPath(start, goal geom.Vec2) ([]geom.Vec2, bool) {
	if g == nil || g.walkableCells == 0 {
		return nil, false
	}

	target := goal
	startCell := g.WorldToGrid(start)
	if !g.IsWalkable(startCell) {
		snapped, ok := g.NearestWalkable(start, DefaultSnapRadius)
		if !ok {
			return nil, false
		}
		startCell = g.WorldToGrid(snapped)
	}
	goalCell := g.WorldToGrid(goal)
	if !g.IsWalkable(goalCell) {
		snapped, ok := g.NearestWalkable(goal, DefaultSnapRadius)
		if !ok {
			return nil, false
		}
		goalCell = g.WorldToGrid(snapped)
		target = snapped
	}

	// Same cell: trivial path, no search loop.
	if startCell == goalCell {
		return []geom.Vec2{target}, true
	}

	cells, ok := g.search(startCell, goalCell)
	if !ok || len(cells) == 0 {
		return nil, false
	}

	waypoints := make([]geom.Vec2, 0, len(cells))
	for i := 1; i < len(cells); i++ {
		waypoints = append(waypoints, g.GridToWorld(cells[i]))
	}
	if len(waypoints) == 0 {
		return []geom.Vec2{target}, true
	}
	last := waypoints[len(waypoints)-1]
	if geom.Distance(last, target) > 1 {
		waypoints = append(waypoints, target)
	} else {
		waypoints[len(waypoints)-1] = target
	}
	return waypoints, true
}
