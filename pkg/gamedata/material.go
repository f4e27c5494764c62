package gamedata

import "github.com/go-gl/mathgl/mgl64"

// Material is one entry of the block material table. Hardness is the mining
// resistance consumed by game rules; Color is the flat display color used
// when a renderer has no texture for the material.
type Material struct {
	ID       int
	Name     string
	Hardness float64
	Solid    bool
	Color    mgl64.Vec3
}

// Material ids of the planet table.
const (
	Air = iota
	Bedrock
	Stone
	Dirt
	Grass
	Sand
	Sandstone
	Mud
	Clay
	Gravel
	Snow
	Ice
	Basalt
	Ash
	Obsidian
	MossStone
	MetalOre
)

var planetMaterials = []Material{
	{ID: Air, Name: "air", Hardness: 0, Solid: false},
	{ID: Bedrock, Name: "bedrock", Hardness: -1, Solid: true, Color: mgl64.Vec3{0.16, 0.15, 0.17}},
	{ID: Stone, Name: "stone", Hardness: 1.5, Solid: true, Color: mgl64.Vec3{0.48, 0.47, 0.46}},
	{ID: Dirt, Name: "dirt", Hardness: 0.5, Solid: true, Color: mgl64.Vec3{0.45, 0.32, 0.21}},
	{ID: Grass, Name: "grass", Hardness: 0.6, Solid: true, Color: mgl64.Vec3{0.36, 0.58, 0.27}},
	{ID: Sand, Name: "sand", Hardness: 0.5, Solid: true, Color: mgl64.Vec3{0.86, 0.78, 0.52}},
	{ID: Sandstone, Name: "sandstone", Hardness: 0.8, Solid: true, Color: mgl64.Vec3{0.79, 0.68, 0.45}},
	{ID: Mud, Name: "mud", Hardness: 0.4, Solid: true, Color: mgl64.Vec3{0.30, 0.26, 0.20}},
	{ID: Clay, Name: "clay", Hardness: 0.6, Solid: true, Color: mgl64.Vec3{0.62, 0.56, 0.52}},
	{ID: Gravel, Name: "gravel", Hardness: 0.6, Solid: true, Color: mgl64.Vec3{0.52, 0.50, 0.49}},
	{ID: Snow, Name: "snow", Hardness: 0.2, Solid: true, Color: mgl64.Vec3{0.94, 0.96, 0.98}},
	{ID: Ice, Name: "ice", Hardness: 0.5, Solid: true, Color: mgl64.Vec3{0.66, 0.82, 0.95}},
	{ID: Basalt, Name: "basalt", Hardness: 2.0, Solid: true, Color: mgl64.Vec3{0.22, 0.21, 0.23}},
	{ID: Ash, Name: "ash", Hardness: 0.3, Solid: true, Color: mgl64.Vec3{0.38, 0.36, 0.35}},
	{ID: Obsidian, Name: "obsidian", Hardness: 50, Solid: true, Color: mgl64.Vec3{0.10, 0.07, 0.15}},
	{ID: MossStone, Name: "moss_stone", Hardness: 1.5, Solid: true, Color: mgl64.Vec3{0.38, 0.47, 0.34}},
	{ID: MetalOre, Name: "metal_ore", Hardness: 3.0, Solid: true, Color: mgl64.Vec3{0.63, 0.58, 0.70}},
}

func init() {
	Register(DefaultTable, func() *GameData {
		return &GameData{Name: DefaultTable, Materials: NewMaterialTable(planetMaterials)}
	})
}

// MaterialTable is a MaterialRegistry backed by a slice.
type MaterialTable struct {
	all    []Material
	byID   map[int]Material
	byName map[string]Material
}

// NewMaterialTable indexes materials by id and name. Later duplicates win.
func NewMaterialTable(materials []Material) *MaterialTable {
	t := &MaterialTable{
		all:    append([]Material(nil), materials...),
		byID:   make(map[int]Material, len(materials)),
		byName: make(map[string]Material, len(materials)),
	}
	for _, m := range materials {
		t.byID[m.ID] = m
		t.byName[m.Name] = m
	}
	return t
}

func (t *MaterialTable) ByID(id int) (Material, bool) {
	m, ok := t.byID[id]
	return m, ok
}

func (t *MaterialTable) ByName(name string) (Material, bool) {
	m, ok := t.byName[name]
	return m, ok
}

func (t *MaterialTable) All() []Material {
	return append([]Material(nil), t.all...)
}

// Resolve returns the named material, or stone when the name is unknown.
func Resolve(r MaterialRegistry, name string) Material {
	if m, ok := r.ByName(name); ok {
		return m
	}
	if m, ok := r.ByID(Stone); ok {
		return m
	}
	return planetMaterials[Stone]
}

// Hardness returns the hardness of the material with the given id, or the
// stone hardness for unknown ids.
func Hardness(r MaterialRegistry, id int) float64 {
	if m, ok := r.ByID(id); ok {
		return m.Hardness
	}
	return planetMaterials[Stone].Hardness
}
