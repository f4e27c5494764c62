package gen

import (
	"github.com/OCharnyshevich/voxel-planet/pkg/gamedata"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
)

type veinConfig struct {
	material  string
	minY      int
	maxY      int
	scale     float64 // blocks per noise cycle
	threshold float64 // noise above this turns into the vein material
	offset    float64 // decorrelates veins sharing the vein channel
}

// veins are checked in order; the first match wins.
var veins = []veinConfig{
	{"metal_ore", -20, -12, 6, 0.62, 0},
	{"obsidian", -23, -21, 4, 0.7, 911.3},
}

// SurfaceMaterial returns the material of the top voxel at (x, z).
func (g *Generator) SurfaceMaterial(x, z float64) gamedata.Material {
	m := g.classifier.Weights(x, z)
	return g.surfaceFromMix(m, g.heightFromMix(m, x, z), x, z)
}

func (g *Generator) surfaceFromMix(m biome.Mix, h int, x, z float64) gamedata.Material {
	b := m.Dominant()
	name := b.Surface

	switch {
	case h <= WaterLevel && g.RiverFactor(x, z) > 0.5:
		name = "gravel"
	case h < WaterLevel && b.Profile != biome.ProfileSwamp:
		name = "sand"
	case b.Profile == biome.ProfileMountains && h >= 58:
		name = "snow"
	case b.Profile != biome.ProfileVolcanic && g.IceFactor(x, z, float64(h)) > 0.75:
		name = "snow"
	}
	return gamedata.Resolve(g.materials, name)
}

// MaterialAt returns the material of voxel (x, y, z): air above the surface,
// bedrock at or below BedrockDepth, vein material inside the vein bands and
// the biome's subsurface material otherwise.
func (g *Generator) MaterialAt(x, y, z int) gamedata.Material {
	fx, fz := float64(x), float64(z)
	m := g.classifier.Weights(fx, fz)
	if y > g.heightFromMix(m, fx, fz) {
		return gamedata.Resolve(g.materials, "air")
	}
	if y <= BedrockDepth {
		return gamedata.Resolve(g.materials, "bedrock")
	}
	for _, v := range veins {
		if y < v.minY || y > v.maxY {
			continue
		}
		fy := float64(y)
		n := g.vein.Noise2D((fx+fy*31.7+v.offset)/v.scale, (fz-fy*17.3)/v.scale)
		if n > v.threshold {
			return gamedata.Resolve(g.materials, v.material)
		}
	}
	return gamedata.Resolve(g.materials, m.Dominant().Subsurface)
}
