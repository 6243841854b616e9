package sim

import (
	"context"
	"fmt"
	"sort"

	"deadwave/core/internal/agent"
	"deadwave/core/internal/agent/catalog"
	"deadwave/core/internal/audio"
	"deadwave/core/internal/geom"
	"deadwave/core/internal/nav"
	"deadwave/core/internal/room"
	"deadwave/core/internal/telemetry"
	"deadwave/core/logging"
	audiolog "deadwave/core/logging/audiofield"
	behaviorlog "deadwave/core/logging/behavior"
	lifecyclelog "deadwave/core/logging/lifecycle"
	navlog "deadwave/core/logging/navigation"
)

const (
	// PlayerSpeed is the player's movement speed in world units per second.
	PlayerSpeed = 160.0

	// pathArriveEpsilon is how close the player must get to a waypoint
	// before the path cursor advances.
	pathArriveEpsilon = room.PlayerHalf * 0.75
)

// Tension band multipliers: hostile chasing agents close to the player weigh
// more than distant ones. Bands are multiples of each agent's own detection
// radius.
var tensionBands = [...]struct {
	radiusFactor float64
	weight       float64
}{
	{radiusFactor: 1, weight: 1.0},
	{radiusFactor: 2, weight: 0.6},
	{radiusFactor: 4, weight: 0.3},
}

// Deps bundles shared infrastructure dependencies for a World.
type Deps struct {
	Publisher logging.Publisher
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Library   *catalog.Library
}

// DamageEvent is a discrete hit emitted when a hostile chasing agent touches
// the player. The health subsystem consumes these; the core only reports.
type DamageEvent struct {
	AgentID  string `json:"agentId"`
	PlayerID string `json:"playerId"`
	Tick     uint64 `json:"tick"`
}

// TensionSignal is the per-tick aggregate for the external audio mixer.
type TensionSignal struct {
	Value          float64         `json:"value"`
	HostileChasing int             `json:"hostileChasing"`
	Dominant       audio.MusicType `json:"dominant,omitempty"`
	HasDominant    bool            `json:"hasDominant"`
}

type playerState struct {
	id       string
	position geom.Vec2
	intent   geom.Vec2
	path     *nav.Path
}

// World owns one room's live simulation: the player, the creature agents,
// and the diegetic audio field. All methods run on the tick goroutine; the
// Loop serializes access.
type World struct {
	room  *room.Room
	grid  *nav.Grid
	field *audio.Field

	publisher logging.Publisher
	logger    telemetry.Logger
	metrics   telemetry.Metrics
	library   *catalog.Library

	tick   uint64
	player playerState

	agents     map[string]*agent.Agent
	agentOrder []string
	nextAgent  uint64

	damage  []DamageEvent
	tension TensionSignal
}

// NewWorld builds the mutable world state from a loaded room. Spawn rows
// naming unknown creature types are skipped with a log line rather than
// failing the whole room.
func NewWorld(r *room.Room, deps Deps) *World {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	library := deps.Library
	if library == nil {
		library = catalog.Default
	}

	w := &World{
		room:      r,
		grid:      r.Grid,
		field:     audio.NewField(),
		publisher: publisher,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		library:   library,
		player:    playerState{id: "player-1", position: r.PlayerAt},
		agents:    make(map[string]*agent.Agent),
	}

	for _, spec := range r.Sources {
		w.field.Add(spec)
	}

	for i, spawn := range r.Spawns {
		creature, ok := library.ByType(spawn.Type)
		if !ok {
			if w.logger != nil {
				w.logger.Printf("room %s: unknown creature type %q in spawn table", r.ID, spawn.Type)
			}
			continue
		}
		w.nextAgent++
		id := fmt.Sprintf("%s-%d", spawn.Type, w.nextAgent)
		rng := room.NewDeterministicRNG(r.Config.Seed, fmt.Sprintf("agent.%d", i))
		w.agents[id] = agent.New(id, creature, spawn.Position, rng)
		w.agentOrder = append(w.agentOrder, id)
	}
	sort.Strings(w.agentOrder)

	lifecyclelog.RoomLoaded(context.Background(), publisher, r.ID, lifecyclelog.RoomLoadedPayload{
		Seed:          r.Config.Seed,
		WalkableCells: r.Grid.WalkableCells(),
		Agents:        len(w.agents),
		Sources:       w.field.Len(),
	})

	return w
}

// Tick reports the current tick counter.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// PlayerID reports the identifier damage events reference.
func (w *World) PlayerID() string {
	if w == nil {
		return ""
	}
	return w.player.id
}

// SetPlayerID renames the player, e.g. to the hub-assigned session id.
func (w *World) SetPlayerID(id string) {
	if w == nil || id == "" {
		return
	}
	w.player.id = id
}

// PlayerPosition reports where the player currently stands.
func (w *World) PlayerPosition() geom.Vec2 {
	if w == nil {
		return geom.Vec2{}
	}
	return w.player.position
}

// Field exposes the room's audio field for callers that add sources outside
// the command flow (tests, the room loader).
func (w *World) Field() *audio.Field {
	if w == nil {
		return nil
	}
	return w.field
}

// Apply routes staged commands into world state. Expected failure modes
// (unreachable target, unknown actor) degrade quietly per the error policy.
func (w *World) Apply(cmds []Command) error {
	if w == nil {
		return nil
	}
	for _, cmd := range cmds {
		switch cmd.Type {
		case CommandMove:
			if cmd.Move == nil {
				continue
			}
			w.player.intent = geom.Vec2{X: cmd.Move.DX, Y: cmd.Move.DY}
			if w.player.intent.Length() > 0 {
				// Raw input wins: the active path is discarded atomically.
				w.player.path = nil
			}
		case CommandClearInput:
			w.player.intent = geom.Vec2{}
		case CommandNavigate:
			if cmd.Navigate == nil {
				continue
			}
			w.navigatePlayer(geom.Vec2{X: cmd.Navigate.TargetX, Y: cmd.Navigate.TargetY})
		case CommandUseItem:
			if cmd.UseItem == nil {
				continue
			}
			w.useItem(cmd)
		}
	}
	return nil
}

// navigatePlayer computes a fresh path on demand. Pathfinding runs only
// here, never in the per-tick hot path.
func (w *World) navigatePlayer(target geom.Vec2) {
	waypoints, ok := w.grid.FindPath(w.player.position, target)
	if !ok {
		w.player.path = nil
		navlog.PathUnreachable(context.Background(), w.publisher, w.tick, w.player.id, navlog.PathUnreachablePayload{
			StartX: w.player.position.X,
			StartY: w.player.position.Y,
			GoalX:  target.X,
			GoalY:  target.Y,
		})
		return
	}
	// A new request replaces the previous path outright; there is no
	// partial-cancellation state to reconcile.
	w.player.path = nav.NewPath(waypoints)
	w.player.intent = geom.Vec2{}
}

func (w *World) useItem(cmd Command) {
	spec := audio.SourceSpec{
		Position:       geom.Vec2{X: cmd.UseItem.X, Y: cmd.UseItem.Y},
		MusicType:      cmd.UseItem.MusicType,
		BaseIntensity:  cmd.UseItem.BaseIntensity,
		Radius:         cmd.UseItem.Radius,
		Duration:       cmd.UseItem.Duration,
		EffectDuration: cmd.UseItem.EffectDuration,
	}
	id := w.field.Add(spec)
	audiolog.SourceAdded(context.Background(), w.publisher, w.tick, uint64(id), audiolog.SourcePayload{
		MusicType:     string(spec.MusicType),
		X:             spec.Position.X,
		Y:             spec.Position.Y,
		BaseIntensity: spec.BaseIntensity,
		Radius:        spec.Radius,
		Permanent:     spec.Duration < 0,
	})
}

// Step advances one fixed timestep. Order matters: the player moves first,
// then the field expires sources, and only then do agents sense, so every
// agent this tick reads the same fully-updated field.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	w.tick++
	ctx := context.Background()

	w.advancePlayer(dt)

	w.field.Tick(dt)
	for _, expired := range w.field.DrainExpired() {
		audiolog.SourceExpired(ctx, w.publisher, w.tick, uint64(expired.ID), audiolog.SourcePayload{
			MusicType:     string(expired.MusicType),
			X:             expired.Position.X,
			Y:             expired.Position.Y,
			BaseIntensity: expired.BaseIntensity,
			Radius:        expired.Radius,
		})
	}

	hostileChasing := 0
	weighted := 0.0
	for _, id := range w.agentOrder {
		ag := w.agents[id]
		motion, change := ag.Update(dt, w.player.position, w.field)
		if change != nil {
			behaviorlog.MusicStateChanged(ctx, w.publisher, w.tick, id, behaviorlog.MusicStateChangedPayload{
				From:     change.From.String(),
				To:       change.To.String(),
				SourceID: uint64(change.SourceID),
			})
		}
		w.moveAgent(ag, motion, dt)

		if ag.Touches(w.player.position, room.PlayerHalf) {
			w.damage = append(w.damage, DamageEvent{AgentID: id, PlayerID: w.player.id, Tick: w.tick})
			behaviorlog.DamageTouch(ctx, w.publisher, w.tick, id, w.player.id)
		}

		if ag.MusicState() == agent.MusicHostile && ag.ThreatState() == agent.ThreatChase {
			hostileChasing++
			weighted += w.tensionWeight(ag)
		}
	}

	w.tension = TensionSignal{HostileChasing: hostileChasing}
	if len(w.agentOrder) > 0 {
		w.tension.Value = geom.Clamp(weighted/float64(len(w.agentOrder)), 0, 1)
	}
	if dominant, ok := w.field.Dominant(w.player.position); ok {
		w.tension.Dominant = dominant
		w.tension.HasDominant = true
	}
}

func (w *World) tensionWeight(ag *agent.Agent) float64 {
	dist := geom.Distance(ag.Position, w.player.position)
	detection := ag.Creature().DetectionRadius
	for _, band := range tensionBands {
		if dist <= detection*band.radiusFactor {
			return band.weight
		}
	}
	return 0
}

// advancePlayer applies raw input when present, otherwise follows the
// active path one step.
func (w *World) advancePlayer(dt float64) {
	if w.player.intent.Length() > 0 {
		step := w.player.intent.Normalized().Scale(PlayerSpeed * dt)
		w.player.position = w.slide(w.player.position, step)
		return
	}

	path := w.player.path
	if path == nil {
		return
	}
	budget := PlayerSpeed * dt
	for budget > 0 {
		if path.Done() {
			w.player.path = nil
			return
		}
		node, _ := path.Current()
		toNode := node.Sub(w.player.position)
		dist := toNode.Length()
		epsilon := pathArriveEpsilon
		if path.Remaining() == 1 {
			epsilon = 1.0
		}
		if dist <= epsilon {
			path.Advance()
			continue
		}
		if dist <= budget {
			w.player.position = node
			budget -= dist
			path.Advance()
			continue
		}
		step := toNode.Normalized().Scale(budget)
		w.player.position = w.slide(w.player.position, step)
		return
	}
}

// moveAgent applies the resolved motion, clipped to room bounds and
// re-validated against the grid. Blocked wanderers pick a new heading.
func (w *World) moveAgent(ag *agent.Agent, motion agent.Motion, dt float64) {
	speed := ag.Speed(motion.Kind)
	if speed <= 0 || motion.Direction.Length() == 0 {
		return
	}
	step := motion.Direction.Scale(speed * dt)
	next := w.slide(ag.Position, step)
	if next == ag.Position && motion.Kind == agent.MotionWander {
		ag.Deflect()
		return
	}
	ag.Position = next
}

// slide attempts the full step, then each axis alone, so movers skirt
// geometry instead of sticking to it. The result is always clamped to room
// bounds and validated against the walkability grid.
func (w *World) slide(from, step geom.Vec2) geom.Vec2 {
	candidates := [...]geom.Vec2{
		from.Add(step),
		from.Add(geom.Vec2{X: step.X}),
		from.Add(geom.Vec2{Y: step.Y}),
	}
	for _, candidate := range candidates {
		clamped := w.clampToRoom(candidate)
		if w.grid.IsWalkable(w.grid.WorldToGrid(clamped)) {
			return clamped
		}
	}
	return from
}

func (w *World) clampToRoom(point geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: geom.Clamp(point.X, room.PlayerHalf, w.room.Config.Width-room.PlayerHalf),
		Y: geom.Clamp(point.Y, room.PlayerHalf, w.room.Config.Height-room.PlayerHalf),
	}
}

// DrainDamage returns and clears the damage events accumulated since the
// last call. The health subsystem consumes these once per tick.
func (w *World) DrainDamage() []DamageEvent {
	if w == nil || len(w.damage) == 0 {
		return nil
	}
	drained := w.damage
	w.damage = nil
	return drained
}

// Tension reports the aggregate signal computed by the last Step.
func (w *World) Tension() TensionSignal {
	if w == nil {
		return TensionSignal{}
	}
	return w.tension
}
