package sim

import (
	"context"
	"sync"
	"testing"

	"deadwave/core/internal/audio"
	"deadwave/core/internal/geom"
	"deadwave/core/internal/room"
	"deadwave/core/logging"
)

const testDt = 1.0 / 15.0

// capturePublisher records events for assertions without a router.
type capturePublisher struct {
	mu     sync.Mutex
	events []logging.Event
}

func (p *capturePublisher) Publish(_ context.Context, event logging.Event) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

func (p *capturePublisher) byType(typ logging.EventType) []logging.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	matched := make([]logging.Event, 0)
	for _, event := range p.events {
		if event.Type == typ {
			matched = append(matched, event)
		}
	}
	return matched
}

// flatRoom loads an obstacle-free room where every interior cell is walkable.
func flatRoom(t *testing.T, width, height float64, spawns []room.SpawnConfig, sources []room.SourceConfig) *room.Room {
	t.Helper()
	return room.Load(context.Background(), room.Config{
		Seed:    "sim-test",
		Width:   width,
		Height:  height,
		Spawns:  spawns,
		Sources: sources,
	}, nil)
}

func newTestWorld(t *testing.T, r *room.Room, pub logging.Publisher) *World {
	t.Helper()
	w := NewWorld(r, Deps{Publisher: pub})
	if w == nil {
		t.Fatalf("NewWorld returned nil")
	}
	return w
}

func TestNavigateMovesPlayerToTarget(t *testing.T) {
	w := newTestWorld(t, flatRoom(t, 480, 480, nil, nil), nil)
	target := geom.Vec2{X: 80, Y: 80}

	if err := w.Apply([]Command{{Type: CommandNavigate, Navigate: &NavigateCommand{TargetX: target.X, TargetY: target.Y}}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	for tick := 0; tick < 200; tick++ {
		w.Step(testDt)
		if geom.Distance(w.PlayerPosition(), target) <= 1 {
			return
		}
	}
	t.Fatalf("player never reached %v, stuck at %v", target, w.PlayerPosition())
}

func TestSnapshotTargetTracksActivePath(t *testing.T) {
	w := newTestWorld(t, flatRoom(t, 480, 480, nil, nil), nil)
	target := geom.Vec2{X: 80, Y: 80}

	if w.Snapshot().Player.Target != nil {
		t.Fatalf("idle player must have no target")
	}

	w.Apply([]Command{{Type: CommandNavigate, Navigate: &NavigateCommand{TargetX: target.X, TargetY: target.Y}}})
	got := w.Snapshot().Player.Target
	if got == nil || (geom.Vec2{X: got.X, Y: got.Y}) != target {
		t.Fatalf("navigating player target = %v, want %v", got, target)
	}

	for tick := 0; tick < 200 && w.Snapshot().Player.Target != nil; tick++ {
		w.Step(testDt)
	}
	if w.Snapshot().Player.Target != nil {
		t.Fatalf("target still set after arrival at %v", w.PlayerPosition())
	}

	// Raw input discards the path, and the target with it.
	w.Apply([]Command{{Type: CommandNavigate, Navigate: &NavigateCommand{TargetX: 120, TargetY: 120}}})
	w.Apply([]Command{{Type: CommandMove, Move: &MoveCommand{DX: 1}}})
	if w.Snapshot().Player.Target != nil {
		t.Fatalf("raw input left a stale navigation target")
	}
}

func TestRawInputCancelsActivePath(t *testing.T) {
	w := newTestWorld(t, flatRoom(t, 480, 480, nil, nil), nil)
	start := w.PlayerPosition()

	w.Apply([]Command{{Type: CommandNavigate, Navigate: &NavigateCommand{TargetX: 80, TargetY: start.Y}}})
	w.Apply([]Command{{Type: CommandMove, Move: &MoveCommand{DX: 1, DY: 0}}})

	for tick := 0; tick < 10; tick++ {
		w.Step(testDt)
	}
	moved := w.PlayerPosition()
	if moved.X <= start.X {
		t.Fatalf("raw +x input ignored: player moved from %v to %v", start, moved)
	}

	// Releasing input must stop the player: the discarded path does not
	// resume.
	w.Apply([]Command{{Type: CommandClearInput}})
	w.Step(testDt)
	rest := w.PlayerPosition()
	w.Step(testDt)
	if w.PlayerPosition() != rest {
		t.Fatalf("player kept moving after input cleared: %v -> %v", rest, w.PlayerPosition())
	}
}

func TestNavigateUnreachablePublishesAndStaysPut(t *testing.T) {
	// A room this small rasterizes with zero walkable cells, so every
	// navigation request fails.
	pub := &capturePublisher{}
	r := room.Load(context.Background(), room.Config{Seed: "sim-test", Width: 20, Height: 20}, pub)
	if r.Grid.WalkableCells() != 0 {
		t.Fatalf("expected a degenerate grid for this room size")
	}
	if warned := pub.byType("navigation.grid_empty"); len(warned) != 1 {
		t.Fatalf("expected one grid_empty warning, got %d", len(warned))
	}

	w := newTestWorld(t, r, pub)
	start := w.PlayerPosition()
	w.Apply([]Command{{Type: CommandNavigate, Navigate: &NavigateCommand{TargetX: 10, TargetY: 10}}})
	w.Step(testDt)

	if w.PlayerPosition() != start {
		t.Fatalf("player moved despite an unreachable target")
	}
	if events := pub.byType("navigation.path_unreachable"); len(events) != 1 {
		t.Fatalf("expected one path_unreachable event, got %d", len(events))
	}
}

func TestUseItemAddsTransientSource(t *testing.T) {
	pub := &capturePublisher{}
	w := newTestWorld(t, flatRoom(t, 480, 480, nil, nil), pub)

	w.Apply([]Command{{Type: CommandUseItem, UseItem: &UseItemCommand{
		X:              240,
		Y:              240,
		MusicType:      audio.MusicPunk,
		BaseIntensity:  0.6,
		Radius:         150,
		Duration:       0.2,
		EffectDuration: 1,
	}}})

	if added := pub.byType("audio.source_added"); len(added) != 1 {
		t.Fatalf("expected one source_added event, got %d", len(added))
	}
	w.Step(testDt)
	snapshot := w.Snapshot()
	if len(snapshot.Sources) != 1 {
		t.Fatalf("expected the source in the snapshot, got %d", len(snapshot.Sources))
	}
	if snapshot.Sources[0].Permanent {
		t.Fatalf("item-dropped source must be transient")
	}

	// 0.2s at 15Hz is three ticks; the source must be gone shortly after.
	for tick := 0; tick < 5; tick++ {
		w.Step(testDt)
	}
	if snapshot = w.Snapshot(); len(snapshot.Sources) != 0 {
		t.Fatalf("source should have expired, snapshot still has %d", len(snapshot.Sources))
	}
	if expired := pub.byType("audio.source_expired"); len(expired) != 1 {
		t.Fatalf("expected one source_expired event, got %d", len(expired))
	}
}

// chaseRoom is small enough that a rocker (detection radius 90) always sees
// the player wherever it spawns.
func chaseRoom(t *testing.T, sources []room.SourceConfig) *room.Room {
	t.Helper()
	return flatRoom(t, 144, 144, []room.SpawnConfig{{Type: "rocker", Count: 1}}, sources)
}

func TestHostileChaserDamagesPlayer(t *testing.T) {
	pub := &capturePublisher{}
	w := newTestWorld(t, chaseRoom(t, nil), pub)

	var damage []DamageEvent
	for tick := 0; tick < 120 && len(damage) == 0; tick++ {
		w.Step(testDt)
		damage = append(damage, w.Snapshot().Damage...)
	}
	if len(damage) == 0 {
		t.Fatalf("chasing rocker never touched the player")
	}
	if damage[0].PlayerID != w.PlayerID() {
		t.Fatalf("damage targets %q, want player %q", damage[0].PlayerID, w.PlayerID())
	}
	if touches := pub.byType("behavior.damage_touch"); len(touches) == 0 {
		t.Fatalf("expected damage_touch events alongside damage")
	}
	// The snapshot drained the events; nothing is delivered twice.
	if left := w.DrainDamage(); left != nil {
		t.Fatalf("damage drained twice: %v", left)
	}
}

func TestMusicSuppressesDamageEntirely(t *testing.T) {
	// A room-wide guitar source at base 0.5 keeps a rocker (affinity 2.0)
	// out of hostile everywhere, so it can never deal damage.
	pub := &capturePublisher{}
	w := newTestWorld(t, chaseRoom(t, []room.SourceConfig{{
		X:              72,
		Y:              72,
		MusicType:      audio.MusicGuitar,
		BaseIntensity:  0.5,
		Radius:         500,
		EffectDuration: 1,
	}}), pub)

	for tick := 0; tick < 120; tick++ {
		w.Step(testDt)
		snapshot := w.Snapshot()
		if len(snapshot.Damage) != 0 {
			t.Fatalf("tick %d: non-hostile agent dealt damage: %v", tick, snapshot.Damage)
		}
	}

	snapshot := w.Snapshot()
	if len(snapshot.Agents) != 1 {
		t.Fatalf("expected one agent, got %d", len(snapshot.Agents))
	}
	if snapshot.Agents[0].MusicState == "hostile" {
		t.Fatalf("agent stayed hostile under a room-wide source")
	}
}

func TestTensionReflectsHostilePressure(t *testing.T) {
	w := newTestWorld(t, chaseRoom(t, nil), nil)
	w.Step(testDt)

	tension := w.Tension()
	if tension.HostileChasing != 1 {
		t.Fatalf("hostile chasing count = %d, want 1", tension.HostileChasing)
	}
	if tension.Value <= 0 || tension.Value > 1 {
		t.Fatalf("tension value = %v, want in (0, 1]", tension.Value)
	}

	// Under a pacifying source the pressure collapses to zero.
	calm := newTestWorld(t, chaseRoom(t, []room.SourceConfig{{
		X:              72,
		Y:              72,
		MusicType:      audio.MusicGuitar,
		BaseIntensity:  0.5,
		Radius:         500,
		EffectDuration: 1,
	}}), nil)
	calm.Step(testDt)

	tension = calm.Tension()
	if tension.HostileChasing != 0 || tension.Value != 0 {
		t.Fatalf("calm tension = %+v, want zero pressure", tension)
	}
	if !tension.HasDominant || tension.Dominant != audio.MusicGuitar {
		t.Fatalf("dominant = %+v, want the guitar source", tension)
	}
}

func TestSnapshotShape(t *testing.T) {
	w := newTestWorld(t, chaseRoom(t, []room.SourceConfig{{
		X:              72,
		Y:              72,
		MusicType:      audio.MusicAmbient,
		BaseIntensity:  0.2,
		Radius:         200,
		EffectDuration: 1,
	}}), nil)
	w.SetPlayerID("player-abc")
	w.Step(testDt)

	snapshot := w.Snapshot()
	if snapshot.Tick != 1 {
		t.Fatalf("snapshot tick = %d, want 1", snapshot.Tick)
	}
	if snapshot.Player.ID != "player-abc" {
		t.Fatalf("snapshot player id = %q", snapshot.Player.ID)
	}
	if len(snapshot.Agents) != 1 || snapshot.Agents[0].Type != "rocker" {
		t.Fatalf("snapshot agents = %+v", snapshot.Agents)
	}
	if snapshot.Agents[0].ThreatState == "" || snapshot.Agents[0].MusicState == "" {
		t.Fatalf("agent views must carry both state axes: %+v", snapshot.Agents[0])
	}
	if len(snapshot.Sources) != 1 || !snapshot.Sources[0].Permanent {
		t.Fatalf("snapshot sources = %+v, want the permanent room source", snapshot.Sources)
	}
}

func TestUnknownSpawnTypeIsSkipped(t *testing.T) {
	r := flatRoom(t, 480, 480, []room.SpawnConfig{
		{Type: "rocker", Count: 1},
		{Type: "not-a-creature", Count: 3},
	}, nil)
	w := newTestWorld(t, r, nil)
	w.Step(testDt)

	snapshot := w.Snapshot()
	if len(snapshot.Agents) != 1 {
		t.Fatalf("expected only the known creature to spawn, got %d agents", len(snapshot.Agents))
	}
}
