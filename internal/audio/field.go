package audio

import (
	"sort"

	"deadwave/core/internal/geom"
)

// MusicType enumerates the in-world music genres a source can emit.
type MusicType string

const (
	MusicGuitar     MusicType = "guitar"
	MusicElectronic MusicType = "electronic"
	MusicNewWave    MusicType = "new_wave"
	MusicPunk       MusicType = "punk"
	MusicAmbient    MusicType = "ambient"
)

// KnownMusicTypes lists every valid music type, used to validate configs.
var KnownMusicTypes = []MusicType{
	MusicGuitar,
	MusicElectronic,
	MusicNewWave,
	MusicPunk,
	MusicAmbient,
}

// SourceID identifies a source within one field. IDs are assigned
// sequentially by Add, which gives queries a stable total order for
// tie-breaking.
type SourceID uint64

// SourceSpec describes a source being added to the field. Permanent room
// sources use Duration < 0; transient item-triggered sources count down.
// EffectDuration is how long a won influence holds on an agent once armed —
// a property of the interaction, not of the emitter itself.
type SourceSpec struct {
	Position       geom.Vec2
	MusicType      MusicType
	BaseIntensity  float64
	Radius         float64
	Duration       float64
	EffectDuration float64
}

// Source is one positioned, typed, time-limited emitter.
type Source struct {
	ID             SourceID
	Position       geom.Vec2
	MusicType      MusicType
	BaseIntensity  float64
	Radius         float64
	Remaining      float64
	Permanent      bool
	EffectDuration float64
}

// Reading is one source's contribution at a query point: the linear-falloff
// intensity before any agent affinity is applied. Readings are never summed
// across sources; the agent picks the dominant candidate.
type Reading struct {
	SourceID       SourceID
	MusicType      MusicType
	Intensity      float64
	EffectDuration float64
}

// Field owns the active set of sources for one room. It is an owned value
// passed by reference into per-tick calls, never a process-wide singleton,
// so expiring sources and room unloads cannot leave stale references behind.
// Agents must re-query every tick rather than caching a Reading.
type Field struct {
	sources map[SourceID]*Source
	order   []SourceID
	nextID  SourceID
	expired []Source
}

// NewField constructs an empty field.
func NewField() *Field {
	return &Field{sources: make(map[SourceID]*Source)}
}

// Add inserts a source and returns its id. Specs are sanitized rather than
// rejected: intensity clamps to [0,1] and a non-positive radius is ignored
// by marking the source with zero reach.
func (f *Field) Add(spec SourceSpec) SourceID {
	if f == nil {
		return 0
	}
	f.nextID++
	src := &Source{
		ID:             f.nextID,
		Position:       spec.Position,
		MusicType:      spec.MusicType,
		BaseIntensity:  geom.Clamp(spec.BaseIntensity, 0, 1),
		Radius:         spec.Radius,
		Remaining:      spec.Duration,
		Permanent:      spec.Duration < 0,
		EffectDuration: spec.EffectDuration,
	}
	if src.Radius < 0 {
		src.Radius = 0
	}
	f.sources[src.ID] = src
	f.order = append(f.order, src.ID)
	return src.ID
}

// Remove deletes a source. Unknown ids are a no-op, not a fault.
func (f *Field) Remove(id SourceID) {
	if f == nil {
		return
	}
	if _, ok := f.sources[id]; !ok {
		return
	}
	delete(f.sources, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Tick counts down every finite source and removes the ones that ran out.
// It must run before any agent queries the field this tick.
func (f *Field) Tick(dt float64) {
	if f == nil || dt <= 0 {
		return
	}
	f.expired = f.expired[:0]
	kept := f.order[:0]
	for _, id := range f.order {
		src, ok := f.sources[id]
		if !ok {
			continue
		}
		if src.Permanent {
			kept = append(kept, id)
			continue
		}
		src.Remaining -= dt
		if src.Remaining <= 0 {
			f.expired = append(f.expired, *src)
			delete(f.sources, id)
			continue
		}
		kept = append(kept, id)
	}
	f.order = kept
}

// DrainExpired returns the sources removed by the most recent Tick, for
// logging. The slice is reused across ticks.
func (f *Field) DrainExpired() []Source {
	if f == nil || len(f.expired) == 0 {
		return nil
	}
	drained := make([]Source, len(f.expired))
	copy(drained, f.expired)
	f.expired = f.expired[:0]
	return drained
}

// intensityAt computes the linear falloff: BaseIntensity at distance zero,
// fading to exactly zero at distance >= Radius.
func (s *Source) intensityAt(position geom.Vec2) float64 {
	if s == nil || s.Radius <= 0 {
		return 0
	}
	dist := geom.Distance(position, s.Position)
	if dist >= s.Radius {
		return 0
	}
	return s.BaseIntensity * (1 - dist/s.Radius)
}

// Query reports every source audible at position, ordered by ascending
// source id. Each source is reported independently even when several share a
// music type.
func (f *Field) Query(position geom.Vec2) []Reading {
	if f == nil || len(f.order) == 0 {
		return nil
	}
	readings := make([]Reading, 0, len(f.order))
	for _, id := range f.order {
		src, ok := f.sources[id]
		if !ok {
			continue
		}
		intensity := src.intensityAt(position)
		if intensity <= 0 {
			continue
		}
		readings = append(readings, Reading{
			SourceID:       src.ID,
			MusicType:      src.MusicType,
			Intensity:      intensity,
			EffectDuration: src.EffectDuration,
		})
	}
	if len(readings) == 0 {
		return nil
	}
	sort.Slice(readings, func(i, j int) bool { return readings[i].SourceID < readings[j].SourceID })
	return readings
}

// Dominant reports the music type with the strongest falloff intensity at a
// point, for the external mixer. Ties resolve to the lower source id.
func (f *Field) Dominant(position geom.Vec2) (MusicType, bool) {
	readings := f.Query(position)
	if len(readings) == 0 {
		return "", false
	}
	best := readings[0]
	for _, reading := range readings[1:] {
		if reading.Intensity > best.Intensity {
			best = reading
		}
	}
	return best.MusicType, true
}

// Len reports the number of active sources.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.sources)
}

// Sources snapshots the active sources ordered by id, for broadcast.
func (f *Field) Sources() []Source {
	if f == nil || len(f.order) == 0 {
		return nil
	}
	out := make([]Source, 0, len(f.order))
	for _, id := range f.order {
		if src, ok := f.sources[id]; ok {
			out = append(out, *src)
		}
	}
	return out
}
