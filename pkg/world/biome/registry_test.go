package biome

import (
	"math"
	"strings"
	"testing"
)

func TestDefaultRegistryLoads(t *testing.T) {
	r := DefaultRegistry()

	if r.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", r.Len())
	}
	if got := r.Default().ID; got != "plains" {
		t.Errorf("Default() = %q, want plains", got)
	}
	ob, threshold := r.Overlay()
	if ob == nil || ob.ID != "ruins" {
		t.Fatalf("Overlay() biome = %v, want ruins", ob)
	}
	if threshold != 0.965 {
		t.Errorf("Overlay() threshold = %v, want 0.965", threshold)
	}

	for i, b := range r.All() {
		if b.Index() != i {
			t.Errorf("biome %q: Index() = %d, want %d", b.ID, b.Index(), i)
		}
		if b.Name == "" || b.Surface == "" || b.Subsurface == "" {
			t.Errorf("biome %q: defaults not applied: %+v", b.ID, b)
		}
		if !b.Profile.Valid() {
			t.Errorf("biome %q: invalid profile %q", b.ID, b.Profile)
		}
	}
}

func TestDefaultRegistryDefaults(t *testing.T) {
	r := DefaultRegistry()

	plains, _ := r.ByID("plains")
	if plains.Surface != "grass" || plains.Subsurface != "dirt" {
		t.Errorf("plains materials = %s/%s, want grass/dirt", plains.Surface, plains.Subsurface)
	}
	if plains.WaterColor != DefaultWaterColor {
		t.Errorf("plains water color = %v, want default %v", plains.WaterColor, DefaultWaterColor)
	}
	if s := plains.Climate.Temperature.Sharpness; s != 1 {
		t.Errorf("plains temperature sharpness = %v, want 1", s)
	}

	badlands, _ := r.ByID("badlands")
	if badlands.Surface != "sandstone" || badlands.Subsurface != "clay" {
		t.Errorf("badlands materials = %s/%s, want sandstone/clay", badlands.Surface, badlands.Subsurface)
	}
	if badlands.Rarity == nil || badlands.Rarity.Penalty != 0.3 {
		t.Errorf("badlands rarity = %+v, want penalty 0.3", badlands.Rarity)
	}

	forest, _ := r.ByID("forest")
	if s := forest.Climate.Moisture.Sharpness; s != 1.2 {
		t.Errorf("forest moisture sharpness = %v, want 1.2", s)
	}
	if forest.Climate.Temperature == nil || forest.Climate.Elevation == nil {
		t.Error("forest should constrain temperature and elevation")
	}

	desert, _ := r.ByID("desert")
	if desert.Climate.Elevation != nil {
		t.Error("desert elevation should be unconstrained")
	}
	want, _ := ParseHexColor("#3f8fae")
	if desert.WaterColor != want {
		t.Errorf("desert water color = %v, want %v", desert.WaterColor, want)
	}
}

const minimalBiome = `
  - id: plains
    profile: plains
    color: "#6fae4a"
`

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing profile",
			doc:  "default: a\nbiomes:\n  - id: a\n    color: \"#000000\"\n",
			want: "profile",
		},
		{
			name: "unknown profile",
			doc:  "default: a\nbiomes:\n  - id: a\n    profile: ocean\n    color: \"#000000\"\n",
			want: "profile",
		},
		{
			name: "bad color",
			doc:  "default: a\nbiomes:\n  - id: a\n    profile: plains\n    color: green\n",
			want: "color",
		},
		{
			name: "zero width",
			doc:  "default: a\nbiomes:\n  - id: a\n    profile: plains\n    color: \"#000000\"\n    climate:\n      temperature: { center: 0.5, width: 0 }\n",
			want: "width",
		},
		{
			name: "unknown structure kind",
			doc:  "default: a\nbiomes:\n  - id: a\n    profile: plains\n    color: \"#000000\"\n    structures: { castle: 1 }\n",
			want: "castle",
		},
		{
			name: "unknown field",
			doc:  "default: a\nbiomes:\n  - id: a\n    profile: plains\n    color: \"#000000\"\n    altitude: 3\n",
			want: "altitude",
		},
		{
			name: "duplicate id",
			doc:  "default: plains\nbiomes:" + minimalBiome + minimalBiome,
			want: "duplicate",
		},
		{
			name: "unknown default",
			doc:  "default: forest\nbiomes:" + minimalBiome,
			want: "default biome",
		},
		{
			name: "unknown overlay",
			doc:  "default: plains\noverlay: { biome: ruins, threshold: 0.9 }\nbiomes:" + minimalBiome,
			want: "overlay biome",
		},
		{
			name: "unknown material",
			doc:  "default: a\nbiomes:\n  - id: a\n    profile: plains\n    color: \"#000000\"\n    surface: cheese\n",
			want: "cheese",
		},
		{
			name: "empty biome list",
			doc:  "default: a\nbiomes: []\n",
			want: "biomes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseMinimal(t *testing.T) {
	r, err := Parse([]byte("default: plains\nbiomes:" + minimalBiome))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	b := r.Default()
	if b.Name != "plains" {
		t.Errorf("Name = %q, want id as default", b.Name)
	}
	if b.Roughness != 0.5 || b.Verticality != 0.5 || b.Wetness != 0.3 {
		t.Errorf("scalars = %v/%v/%v, want 0.5/0.5/0.3", b.Roughness, b.Verticality, b.Wetness)
	}
	if ob, _ := r.Overlay(); ob != nil {
		t.Errorf("Overlay() = %q, want none", ob.ID)
	}
}

func TestNewRegistryCopiesInput(t *testing.T) {
	env := &Envelope{Center: 0.5, Width: 0.2}
	in := []Biome{{
		ID:         "a",
		Profile:    ProfilePlains,
		Climate:    ClimatePreference{Temperature: env},
		Structures: StructureWeights{StructureRuin: 1},
	}}
	r, err := NewRegistry(in, "a", Overlay{})
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	if env.Sharpness != 0 {
		t.Errorf("caller envelope mutated: sharpness = %v", env.Sharpness)
	}
	env.Center = 0.9
	in[0].Structures[StructureRuin] = 5

	b := r.Default()
	if b.Climate.Temperature.Center != 0.5 {
		t.Errorf("registry aliases caller envelope: center = %v", b.Climate.Temperature.Center)
	}
	if b.Climate.Temperature.Sharpness != 1 {
		t.Errorf("sharpness = %v, want default 1", b.Climate.Temperature.Sharpness)
	}
	if b.Structures[StructureRuin] != 1 {
		t.Errorf("registry aliases caller weights: ruin = %v", b.Structures[StructureRuin])
	}
}

func TestNewRegistryValidation(t *testing.T) {
	ok := Biome{ID: "a", Profile: ProfilePlains}
	tests := []struct {
		name    string
		biomes  []Biome
		overlay Overlay
	}{
		{"no biomes", nil, Overlay{}},
		{"bad profile", []Biome{{ID: "a", Profile: "ocean"}}, Overlay{}},
		{"negative weight", []Biome{{ID: "a", Profile: ProfilePlains, Structures: StructureWeights{StructureSpire: -1}}}, Overlay{}},
		{"nan weight", []Biome{{ID: "a", Profile: ProfilePlains, Structures: StructureWeights{StructureSpire: math.NaN()}}}, Overlay{}},
		{"bad penalty", []Biome{{ID: "a", Profile: ProfilePlains, Rarity: &Rarity{Threshold: 0.5, Penalty: 2}}}, Overlay{}},
		{"overlay threshold", []Biome{ok}, Overlay{BiomeID: "a", Threshold: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.biomes, "a", tt.overlay); err == nil {
				t.Error("NewRegistry() succeeded, want error")
			}
		})
	}
}

func TestRegistryGetFallsBack(t *testing.T) {
	r := DefaultRegistry()
	if got := r.Get("desert").ID; got != "desert" {
		t.Errorf("Get(desert) = %q", got)
	}
	if got := r.Get("no-such-biome"); got != r.Default() {
		t.Errorf("Get(unknown) = %q, want default", got.ID)
	}
	if _, ok := r.ByID("no-such-biome"); ok {
		t.Error("ByID(unknown) reported ok")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	if err != nil {
		t.Fatalf("ParseHexColor() error: %v", err)
	}
	if c[0] != 1 || math.Abs(c[1]-128.0/255) > 1e-12 || c[2] != 0 {
		t.Errorf("ParseHexColor(#ff8000) = %v", c)
	}
	for _, bad := range []string{"", "ff8000", "#ff80", "#gg0000", "#ff80000"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) succeeded, want error", bad)
		}
	}
}

func TestDefaultRegistryYAMLIsCopy(t *testing.T) {
	a := DefaultRegistryYAML()
	a[0] = '!'
	if b := DefaultRegistryYAML(); b[0] == '!' {
		t.Error("DefaultRegistryYAML() exposes the embedded buffer")
	}
}
