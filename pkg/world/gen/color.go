package gen

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

var iceTint = mgl64.Vec3{0.80, 0.89, 0.98}

// ColorForHeight returns the display color of the surface voxel at (x, z)
// with height h.
func (g *Generator) ColorForHeight(h int, x, z float64) mgl64.Vec3 {
	return g.colorFromMix(g.classifier.Weights(x, z), h, x, z)
}

// WaterColor returns the tint of water at (x, z).
func (g *Generator) WaterColor(x, z float64) mgl64.Vec3 {
	return g.waterFromMix(g.classifier.Weights(x, z), x, z)
}

func (g *Generator) colorFromMix(m biome.Mix, h int, x, z float64) mgl64.Vec3 {
	hf := float64(h)
	brightness := 0.82 + 0.3*noise.Clamp01((hf-WaterLevel)/50)
	texture := 1 + 0.05*g.texture.Noise2D(x/3, z/3)

	var c mgl64.Vec3
	for _, e := range m {
		c = c.Add(e.Biome.Color.Mul(e.Weight))
	}
	c = c.Mul(brightness * texture)

	channel := math.Max(g.RiverFactor(x, z), g.RavineFactor(x, z))
	c = c.Mul(1 - 0.35*channel)

	if ice := g.IceFactor(x, z, hf); ice > 0 {
		c = lerpVec(c, iceTint, ice*0.6)
	}

	xi, zi := noise.FloorInt(x), noise.FloorInt(z)
	for i := range 3 {
		c[i] += 0.015 * g.tint.Hash(xi*3+i, zi)
	}
	return clampColor(c)
}

func (g *Generator) waterFromMix(m biome.Mix, x, z float64) mgl64.Vec3 {
	var c mgl64.Vec3
	for _, e := range m {
		c = c.Add(e.Biome.WaterColor.Mul(e.Weight))
	}
	ice := g.IceFactor(x, z, WaterLevel)
	return clampColor(lerpVec(c, iceTint, ice*0.4))
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func clampColor(c mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{noise.Clamp01(c[0]), noise.Clamp01(c[1]), noise.Clamp01(c[2])}
}
