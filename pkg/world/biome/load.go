package biome

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/voxel-planet/pkg/gamedata"
)

//go:embed biomes.yaml
var defaultRegistryYAML []byte

//go:embed biomes.schema.json
var registrySchemaJSON string

const schemaURL = "biomes.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error

	defaultOnce sync.Once
	defaultReg  *Registry
)

func registrySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(schemaURL, registrySchemaJSON)
	})
	return schema, schemaErr
}

// DefaultRegistry returns the built-in biome registry.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(defaultRegistryYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded biome registry: %v", err))
		}
		defaultReg = r
	})
	return defaultReg
}

// DefaultRegistryYAML returns a copy of the embedded registry document.
func DefaultRegistryYAML() []byte {
	return append([]byte(nil), defaultRegistryYAML...)
}

// Load reads and validates a registry file.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read biome registry: %w", err)
	}
	r, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse validates a registry document against the planet material table.
func Parse(data []byte) (*Registry, error) {
	return ParseWith(data, gamedata.MustLoad(gamedata.DefaultTable).Materials)
}

// ParseWith validates a YAML registry document against the registry schema,
// applies defaults, and checks material names against materials.
func ParseWith(data []byte, materials gamedata.MaterialRegistry) (*Registry, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode biome registry: %w", err)
	}

	biomes := make([]Biome, 0, len(f.Biomes))
	for _, bf := range f.Biomes {
		b, err := bf.toBiome(materials)
		if err != nil {
			return nil, err
		}
		biomes = append(biomes, b)
	}

	var overlay Overlay
	if f.Overlay != nil {
		overlay = Overlay{BiomeID: f.Overlay.Biome, Threshold: f.Overlay.Threshold}
	}
	return NewRegistry(biomes, f.Default, overlay)
}

func validateDocument(data []byte) error {
	s, err := registrySchema()
	if err != nil {
		return fmt.Errorf("compile registry schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode biome registry: %w", err)
	}
	// Round-trip through JSON so the validator sees JSON-shaped values.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("biome registry is not JSON-compatible: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("biome registry is not JSON-compatible: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("biome registry: %w", err)
	}
	return nil
}

type registryFile struct {
	Default string       `yaml:"default"`
	Overlay *overlayFile `yaml:"overlay"`
	Biomes  []biomeFile  `yaml:"biomes"`
}

type overlayFile struct {
	Biome     string  `yaml:"biome"`
	Threshold float64 `yaml:"threshold"`
}

type envelopeFile struct {
	Center    float64  `yaml:"center"`
	Width     float64  `yaml:"width"`
	Sharpness *float64 `yaml:"sharpness"`
}

type biomeFile struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Profile     string   `yaml:"profile"`
	Color       string   `yaml:"color"`
	WaterColor  string   `yaml:"water_color"`
	Roughness   *float64 `yaml:"roughness"`
	Verticality *float64 `yaml:"verticality"`
	Wetness     *float64 `yaml:"wetness"`
	Surface     string   `yaml:"surface"`
	Subsurface  string   `yaml:"subsurface"`
	Climate     struct {
		Temperature *envelopeFile `yaml:"temperature"`
		Moisture    *envelopeFile `yaml:"moisture"`
		Elevation   *envelopeFile `yaml:"elevation"`
	} `yaml:"climate"`
	Rarity *struct {
		Threshold float64 `yaml:"threshold"`
		Penalty   float64 `yaml:"penalty"`
	} `yaml:"rarity"`
	Structures map[string]float64 `yaml:"structures"`
}

// profileMaterials are the surface and subsurface defaults per profile.
var profileMaterials = map[Profile][2]string{
	ProfileDesert:    {"sand", "sandstone"},
	ProfileSwamp:     {"mud", "clay"},
	ProfileMountains: {"stone", "stone"},
	ProfileVolcanic:  {"ash", "basalt"},
	ProfilePlains:    {"grass", "dirt"},
	ProfileForest:    {"grass", "dirt"},
	ProfileGlacier:   {"snow", "ice"},
	ProfileRuins:     {"moss_stone", "stone"},
}

func (bf biomeFile) toBiome(materials gamedata.MaterialRegistry) (Biome, error) {
	b := Biome{
		ID:          bf.ID,
		Name:        bf.Name,
		Profile:     Profile(bf.Profile),
		Roughness:   orDefault(bf.Roughness, 0.5),
		Verticality: orDefault(bf.Verticality, 0.5),
		Wetness:     orDefault(bf.Wetness, 0.3),
		Surface:     bf.Surface,
		Subsurface:  bf.Subsurface,
		WaterColor:  DefaultWaterColor,
	}

	c, err := ParseHexColor(bf.Color)
	if err != nil {
		return b, fmt.Errorf("biome %q: color: %w", bf.ID, err)
	}
	b.Color = c
	if bf.WaterColor != "" {
		wc, err := ParseHexColor(bf.WaterColor)
		if err != nil {
			return b, fmt.Errorf("biome %q: water_color: %w", bf.ID, err)
		}
		b.WaterColor = wc
	}

	defaults := profileMaterials[b.Profile]
	if b.Surface == "" {
		b.Surface = defaults[0]
	}
	if b.Subsurface == "" {
		b.Subsurface = defaults[1]
	}
	for _, name := range []string{b.Surface, b.Subsurface} {
		if _, ok := materials.ByName(name); !ok {
			return b, fmt.Errorf("biome %q: unknown material %q", bf.ID, name)
		}
	}

	b.Climate = ClimatePreference{
		Temperature: bf.Climate.Temperature.toEnvelope(),
		Moisture:    bf.Climate.Moisture.toEnvelope(),
		Elevation:   bf.Climate.Elevation.toEnvelope(),
	}
	if bf.Rarity != nil {
		b.Rarity = &Rarity{Threshold: bf.Rarity.Threshold, Penalty: bf.Rarity.Penalty}
	}
	if len(bf.Structures) > 0 {
		b.Structures = make(StructureWeights, len(bf.Structures))
		for k, v := range bf.Structures {
			b.Structures[StructureKind(k)] = v
		}
	}
	return b, nil
}

func (e *envelopeFile) toEnvelope() *Envelope {
	if e == nil {
		return nil
	}
	return &Envelope{Center: e.Center, Width: e.Width, Sharpness: orDefault(e.Sharpness, 1)}
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// ParseHexColor parses "#rrggbb" into an RGB vector in [0,1]^3.
func ParseHexColor(s string) (mgl64.Vec3, error) {
	if len(s) != 7 || s[0] != '#' {
		return mgl64.Vec3{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return mgl64.Vec3{
		float64(v>>16&0xff) / 255,
		float64(v>>8&0xff) / 255,
		float64(v&0xff) / 255,
	}, nil
}
