package gen

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/voxel-planet/pkg/gamedata"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

const (
	// WaterLevel is the surface height of still water.
	WaterLevel = 10
	// MountainCeiling is the hard upper bound of the mountains profile.
	MountainCeiling = 72
	// BedrockDepth is the absolute depth at and below which everything is bedrock.
	BedrockDepth = -24
)

// Generator answers every world query for one seed. It holds no mutable
// state after construction and is safe for concurrent use.
type Generator struct {
	seed       uint32
	registry   *biome.Registry
	materials  gamedata.MaterialRegistry
	classifier *biome.Classifier
	palette    map[string]mgl64.Vec3

	// Shared terrain.
	macro  *noise.NoiseGenerator
	detail *noise.NoiseGenerator
	micro  *noise.NoiseGenerator
	jitter *noise.NoiseGenerator

	// Profile shaping.
	duneAxis *noise.NoiseGenerator
	dune     *noise.NoiseGenerator
	mesa     *noise.NoiseGenerator
	lake     *noise.NoiseGenerator
	basin    *noise.NoiseGenerator
	ridge    *noise.NoiseGenerator
	ridge2   *noise.NoiseGenerator
	ridgeMix *noise.NoiseGenerator
	erosion  *noise.NoiseGenerator
	caldera  *noise.NoiseGenerator
	creek    *noise.NoiseGenerator
	terrace  *noise.NoiseGenerator

	// Carving and climate overlays.
	river      *noise.NoiseGenerator
	riverWarp  *noise.NoiseGenerator
	ravine     *noise.NoiseGenerator
	ravineWarp *noise.NoiseGenerator
	ravineZone *noise.NoiseGenerator
	cold       *noise.NoiseGenerator
	vein       *noise.NoiseGenerator

	// Color and placement.
	texture *noise.NoiseGenerator
	tint    *noise.NoiseGenerator
	anchorX *noise.NoiseGenerator
	anchorZ *noise.NoiseGenerator
	spawn   *noise.NoiseGenerator
	pick    *noise.NoiseGenerator
	iceGate *noise.NoiseGenerator
	cluster *noise.NoiseGenerator
	scatter *noise.NoiseGenerator
}

type options struct {
	registry    *biome.Registry
	materials   gamedata.MaterialRegistry
	biomeParams *biome.Params
}

// Option configures a Generator.
type Option func(*options)

// WithRegistry sets the biome registry. The embedded default is used otherwise.
func WithRegistry(r *biome.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithMaterials sets the material table used for material lookups.
func WithMaterials(m gamedata.MaterialRegistry) Option {
	return func(o *options) { o.materials = m }
}

// WithBiomeParams overrides the biome classifier tuning.
func WithBiomeParams(p biome.Params) Option {
	return func(o *options) { o.biomeParams = &p }
}

// New creates a Generator for a numeric seed.
func New(seed uint32, opts ...Option) *Generator {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = biome.DefaultRegistry()
	}
	if o.materials == nil {
		o.materials = gamedata.MustLoad(gamedata.DefaultTable).Materials
	}
	params := biome.DefaultParams()
	if o.biomeParams != nil {
		params = *o.biomeParams
	}

	ch := func(salt uint32) *noise.NoiseGenerator { return noise.New(seed + salt) }
	return &Generator{
		seed:       seed,
		registry:   o.registry,
		materials:  o.materials,
		classifier: biome.NewClassifier(seed, o.registry, params),
		palette:    defaultPalette(),

		macro:  ch(1000),
		detail: ch(1010),
		micro:  ch(1020),
		jitter: ch(1030),

		duneAxis: ch(1100),
		dune:     ch(1110),
		mesa:     ch(1120),
		lake:     ch(1130),
		basin:    ch(1140),
		ridge:    ch(1150),
		ridge2:   ch(1160),
		ridgeMix: ch(1170),
		erosion:  ch(1180),
		caldera:  ch(1190),
		creek:    ch(1200),
		terrace:  ch(1210),

		river:      ch(1300),
		riverWarp:  ch(1310),
		ravine:     ch(1320),
		ravineWarp: ch(1330),
		ravineZone: ch(1340),
		cold:       ch(1350),
		vein:       ch(1360),

		texture: ch(1400),
		tint:    ch(1410),
		anchorX: ch(1500),
		anchorZ: ch(1510),
		spawn:   ch(1520),
		pick:    ch(1530),
		iceGate: ch(1540),
		cluster: ch(1550),
		scatter: ch(1560),
	}
}

// NewFromString creates a Generator from a seed string; see noise.ParseSeed.
func NewFromString(seed string, opts ...Option) *Generator {
	return New(noise.ParseSeed(seed), opts...)
}

// Seed returns the numeric world seed.
func (g *Generator) Seed() uint32 {
	return g.seed
}

// Registry returns the biome registry.
func (g *Generator) Registry() *biome.Registry {
	return g.registry
}

// Materials returns the material table.
func (g *Generator) Materials() gamedata.MaterialRegistry {
	return g.materials
}

// Classifier returns the biome classifier.
func (g *Generator) Classifier() *biome.Classifier {
	return g.classifier
}

// BiomeAt returns the dominant biome at (x, z).
func (g *Generator) BiomeAt(x, z float64) *biome.Biome {
	return g.classifier.Weights(x, z).Dominant()
}

// BiomeMix is a blended biome record together with the weights it came from.
type BiomeMix struct {
	Blended biome.Biome
	Weights biome.Mix
}

// BiomeMixAt returns the biome blend at (x, z).
func (g *Generator) BiomeMixAt(x, z float64) BiomeMix {
	m := g.classifier.Weights(x, z)
	return BiomeMix{Blended: m.Blend(), Weights: m}
}

// ColumnInfo summarizes one voxel column.
type ColumnInfo struct {
	X, Z       int
	Height     int
	Biome      *biome.Biome
	Color      mgl64.Vec3
	WaterColor mgl64.Vec3
	Surface    gamedata.Material
	Water      bool
}

// Column evaluates the column at integer position (x, z) with a single
// biome lookup.
func (g *Generator) Column(x, z int) ColumnInfo {
	fx, fz := float64(x), float64(z)
	m := g.classifier.Weights(fx, fz)
	h := g.heightFromMix(m, fx, fz)
	return ColumnInfo{
		X:          x,
		Z:          z,
		Height:     h,
		Biome:      m.Dominant(),
		Color:      g.colorFromMix(m, h, fx, fz),
		WaterColor: g.waterFromMix(m, fx, fz),
		Surface:    g.surfaceFromMix(m, h, fx, fz),
		Water:      h < WaterLevel,
	}
}
