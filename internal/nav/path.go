package nav

import "deadwave/core/internal/geom"

// Path is an ordered sequence of world-space waypoints with a consumption
// cursor. A mover owns exactly one Path; issuing a new navigation request
// replaces the whole value, it is never mutated while partially consumed.
type Path struct {
	waypoints []geom.Vec2
	index     int
}

// NewPath copies the waypoint slice so the path owns its backing storage.
func NewPath(waypoints []geom.Vec2) *Path {
	if len(waypoints) == 0 {
		return nil
	}
	cloned := make([]geom.Vec2, len(waypoints))
	copy(cloned, waypoints)
	return &Path{waypoints: cloned}
}

// Current returns the waypoint the mover should head toward, or false when
// the path is fully consumed.
func (p *Path) Current() (geom.Vec2, bool) {
	if p == nil || p.index >= len(p.waypoints) {
		return geom.Vec2{}, false
	}
	return p.waypoints[p.index], true
}

// Advance moves the cursor past the current waypoint.
func (p *Path) Advance() {
	if p == nil || p.index >= len(p.waypoints) {
		return
	}
	p.index++
}

// Done reports whether every waypoint has been consumed.
func (p *Path) Done() bool {
	return p == nil || p.index >= len(p.waypoints)
}

// Goal returns the final waypoint.
func (p *Path) Goal() (geom.Vec2, bool) {
	if p == nil || len(p.waypoints) == 0 {
		return geom.Vec2{}, false
	}
	return p.waypoints[len(p.waypoints)-1], true
}

// Remaining reports how many waypoints are left, including the current one.
func (p *Path) Remaining() int {
	if p == nil {
		return 0
	}
	return len(p.waypoints) - p.index
}
