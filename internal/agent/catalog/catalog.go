// Package catalog loads the designer-authored creature definitions embedded
// with the binary. Creature types are data: adding a new zombie variant means
// adding a JSON file, not a Go type.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"deadwave/core/internal/audio"
)

//go:embed configs/*.json
var embeddedConfigs embed.FS

// Document is a creature definition as it appears on disk. It is exported so
// tooling (the schema generator) can reflect over the configuration contract
// shared with designers.
type Document struct {
	ID              string             `json:"id" jsonschema:"title=Creature Type ID,description=Stable identifier referenced by room spawn tables.,pattern=^[a-z0-9-]+$,minLength=1,required"`
	DetectionRadius float64            `json:"detectionRadius" jsonschema:"title=Detection Radius,description=Distance in world units at which the creature starts chasing the player.,minimum=0,required"`
	ChaseSpeed      float64            `json:"chaseSpeed" jsonschema:"title=Chase Speed,description=Movement speed in world units per second while chasing or retreating.,minimum=0,required"`
	WanderSpeed     float64            `json:"wanderSpeed" jsonschema:"title=Wander Speed,description=Movement speed in world units per second while wandering.,minimum=0,required"`
	WanderInterval  float64            `json:"wanderInterval" jsonschema:"title=Wander Interval,description=Seconds between random heading refreshes.,minimum=0.1,required"`
	Half            float64            `json:"half" jsonschema:"title=Bounding Half Size,description=Half extent of the creature's collision circle in world units.,minimum=1,required"`
	Affinities      map[string]float64 `json:"affinities" jsonschema:"title=Music Affinities,description=Multiplier per music type; values above 1 amplify and values near 0 mean unaffected.,required"`
}

// Creature is the compiled, validated form of a Document.
type Creature struct {
	ID              string
	DetectionRadius float64
	ChaseSpeed      float64
	WanderSpeed     float64
	WanderInterval  float64
	Half            float64
	affinities      map[audio.MusicType]float64
}

// AffinityFor reports the multiplier for a music type. Types absent from the
// table count as zero: unaffected.
func (c *Creature) AffinityFor(musicType audio.MusicType) float64 {
	if c == nil {
		return 0
	}
	return c.affinities[musicType]
}

// Library is the lookup table from creature type id to definition.
type Library struct {
	creatures map[string]*Creature
}

// Default is the library compiled from the embedded configs. Loading is done
// once at init; a malformed embedded config is a build defect, so it panics.
var Default = mustLoad()

func mustLoad() *Library {
	lib, err := Load(embeddedConfigs, "configs")
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return lib
}

// Load parses every *.json file under dir in fsys and compiles a library.
func Load(fsys fs.FS, dir string) (*Library, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read config dir %q: %w", dir, err)
	}
	lib := &Library{creatures: make(map[string]*Creature)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := fs.ReadFile(fsys, dir+"/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read config %q: %w", entry.Name(), err)
		}
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", entry.Name(), err)
		}
		creature, err := compile(doc)
		if err != nil {
			return nil, fmt.Errorf("config %q: %w", entry.Name(), err)
		}
		if _, exists := lib.creatures[creature.ID]; exists {
			return nil, fmt.Errorf("config %q: duplicate creature id %q", entry.Name(), creature.ID)
		}
		lib.creatures[creature.ID] = creature
	}
	if len(lib.creatures) == 0 {
		return nil, fmt.Errorf("no creature configs under %q", dir)
	}
	return lib, nil
}

func compile(doc Document) (*Creature, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if doc.DetectionRadius < 0 || doc.ChaseSpeed < 0 || doc.WanderSpeed < 0 {
		return nil, fmt.Errorf("negative radius or speed for %q", doc.ID)
	}
	if doc.WanderInterval <= 0 {
		return nil, fmt.Errorf("wander interval must be positive for %q", doc.ID)
	}
	if doc.Half <= 0 {
		return nil, fmt.Errorf("bounding half size must be positive for %q", doc.ID)
	}
	affinities := make(map[audio.MusicType]float64, len(doc.Affinities))
	for name, multiplier := range doc.Affinities {
		if multiplier < 0 {
			return nil, fmt.Errorf("negative affinity %q=%v for %q", name, multiplier, doc.ID)
		}
		musicType := audio.MusicType(name)
		if !knownMusicType(musicType) {
			return nil, fmt.Errorf("unknown music type %q for %q", name, doc.ID)
		}
		affinities[musicType] = multiplier
	}
	return &Creature{
		ID:              doc.ID,
		DetectionRadius: doc.DetectionRadius,
		ChaseSpeed:      doc.ChaseSpeed,
		WanderSpeed:     doc.WanderSpeed,
		WanderInterval:  doc.WanderInterval,
		Half:            doc.Half,
		affinities:      affinities,
	}, nil
}

func knownMusicType(candidate audio.MusicType) bool {
	for _, known := range audio.KnownMusicTypes {
		if candidate == known {
			return true
		}
	}
	return false
}

// ByType resolves a creature definition.
func (l *Library) ByType(id string) (*Creature, bool) {
	if l == nil {
		return nil, false
	}
	creature, ok := l.creatures[id]
	return creature, ok
}

// Types lists every creature type id in sorted order.
func (l *Library) Types() []string {
	if l == nil {
		return nil
	}
	ids := make([]string, 0, len(l.creatures))
	for id := range l.creatures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
