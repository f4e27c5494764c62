package biome

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultWaterColor is used by biomes that do not configure a water color.
var DefaultWaterColor = mgl64.Vec3{0.18, 0.42, 0.72}

// Overlay configures a biome that replaces the climate classification of a
// cell whenever that cell's independent overlay roll exceeds Threshold.
type Overlay struct {
	BiomeID   string
	Threshold float64
}

// Registry is the fixed set of biomes a world is generated from. It is
// immutable once built.
type Registry struct {
	biomes  []*Biome
	byID    map[string]*Biome
	def     *Biome
	overlay *Biome

	overlayThreshold float64
}

// NewRegistry validates and indexes biomes. defaultID must name one of them;
// overlay.BiomeID may be empty.
func NewRegistry(biomes []Biome, defaultID string, overlay Overlay) (*Registry, error) {
	if len(biomes) == 0 {
		return nil, fmt.Errorf("registry has no biomes")
	}

	r := &Registry{
		biomes: make([]*Biome, 0, len(biomes)),
		byID:   make(map[string]*Biome, len(biomes)),
	}
	for i := range biomes {
		b := clone(biomes[i])
		if err := validate(&b); err != nil {
			return nil, err
		}
		if _, dup := r.byID[b.ID]; dup {
			return nil, fmt.Errorf("biome %q: duplicate id", b.ID)
		}
		b.index = len(r.biomes)
		r.biomes = append(r.biomes, &b)
		r.byID[b.ID] = &b
	}

	def, ok := r.byID[defaultID]
	if !ok {
		return nil, fmt.Errorf("default biome %q is not defined", defaultID)
	}
	r.def = def

	if overlay.BiomeID != "" {
		ob, ok := r.byID[overlay.BiomeID]
		if !ok {
			return nil, fmt.Errorf("overlay biome %q is not defined", overlay.BiomeID)
		}
		if overlay.Threshold < 0 || overlay.Threshold > 1 {
			return nil, fmt.Errorf("overlay threshold %v out of [0,1]", overlay.Threshold)
		}
		r.overlay = ob
		r.overlayThreshold = overlay.Threshold
	}
	return r, nil
}

func validate(b *Biome) error {
	if b.ID == "" {
		return fmt.Errorf("biome without id")
	}
	if !b.Profile.Valid() {
		return fmt.Errorf("biome %q: unknown profile %q", b.ID, b.Profile)
	}
	axes := []struct {
		name string
		e    *Envelope
	}{
		{"temperature", b.Climate.Temperature},
		{"moisture", b.Climate.Moisture},
		{"elevation", b.Climate.Elevation},
	}
	for _, a := range axes {
		name, e := a.name, a.e
		if e == nil {
			continue
		}
		if !(e.Width > 0) {
			return fmt.Errorf("biome %q: %s width must be positive", b.ID, name)
		}
		if e.Sharpness <= 0 {
			e.Sharpness = 1
		}
	}
	if b.Rarity != nil && (b.Rarity.Penalty < 0 || b.Rarity.Penalty > 1) {
		return fmt.Errorf("biome %q: rarity penalty %v out of [0,1]", b.ID, b.Rarity.Penalty)
	}
	for k, w := range b.Structures {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("biome %q: structure %q has invalid weight %v", b.ID, k, w)
		}
	}
	if b.Name == "" {
		b.Name = b.ID
	}
	return nil
}

// clone copies b so the registry never aliases caller-owned envelopes or maps.
func clone(b Biome) Biome {
	cp := func(e *Envelope) *Envelope {
		if e == nil {
			return nil
		}
		c := *e
		return &c
	}
	b.Climate = ClimatePreference{
		Temperature: cp(b.Climate.Temperature),
		Moisture:    cp(b.Climate.Moisture),
		Elevation:   cp(b.Climate.Elevation),
	}
	if b.Rarity != nil {
		r := *b.Rarity
		b.Rarity = &r
	}
	if b.Structures != nil {
		w := make(StructureWeights, len(b.Structures))
		for k, v := range b.Structures {
			w[k] = v
		}
		b.Structures = w
	}
	return b
}

// ByID returns the biome with the given id.
func (r *Registry) ByID(id string) (*Biome, bool) {
	b, ok := r.byID[id]
	return b, ok
}

// Get returns the biome with the given id, or the default biome when the id
// is unknown.
func (r *Registry) Get(id string) *Biome {
	if b, ok := r.byID[id]; ok {
		return b
	}
	return r.def
}

// All returns the biomes in registry order.
func (r *Registry) All() []*Biome {
	return append([]*Biome(nil), r.biomes...)
}

// Len returns the number of biomes.
func (r *Registry) Len() int {
	return len(r.biomes)
}

// Default returns the fallback biome.
func (r *Registry) Default() *Biome {
	return r.def
}

// Overlay returns the overlay biome and its roll threshold, or nil.
func (r *Registry) Overlay() (*Biome, float64) {
	return r.overlay, r.overlayThreshold
}
