package gen

import (
	"math"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

const (
	riverBed     = WaterLevel - 2
	ravineDepth  = 16.0
	latitudeCold = 600.0  // |z| where the latitude term starts
	latitudeSpan = 1400.0 // distance over which it reaches full strength
)

// RiverFactor returns the river channel mask at (x, z): 1 at the channel
// centre, 0 away from any river.
func (g *Generator) RiverFactor(x, z float64) float64 {
	wx := x + g.riverWarp.OctaveNoise2D(x/300, z/300, 2, 2.0, 0.5)*60
	wz := z + g.riverWarp.OctaveNoise2D(x/300+71.3, z/300-12.9, 2, 2.0, 0.5)*60
	n := g.river.OctaveNoise2D(wx/420, wz/420, 3, 2.0, 0.5)
	return noise.SmoothRange(0.955, 0.992, 1-math.Abs(n))
}

// RavineFactor returns the ravine mask at (x, z). Ravines are narrower than
// rivers and only occur inside ravine zones.
func (g *Generator) RavineFactor(x, z float64) float64 {
	zone := noise.SmoothRange(0.15, 0.45, g.ravineZone.Noise2D(x/500, z/500))
	if zone == 0 {
		return 0
	}
	wx := x + g.ravineWarp.OctaveNoise2D(x/140, z/140, 2, 2.0, 0.5)*25
	wz := z + g.ravineWarp.OctaveNoise2D(x/140-33.1, z/140+5.7, 2, 2.0, 0.5)*25
	n := g.ravine.OctaveNoise2D(wx/260, wz/260, 2, 2.0, 0.5)
	return zone * noise.SmoothRange(0.975, 0.996, 1-math.Abs(n))
}

// carve lowers h towards the river bed and cuts ravines.
func (g *Generator) carve(h, x, z float64) float64 {
	if rf := g.RiverFactor(x, z); rf > 0 && h > riverBed {
		h -= rf * (h - riverBed)
	}
	if rv := g.RavineFactor(x, z); rv > 0 {
		h -= rv * ravineDepth
	}
	return h
}

// IceFactor returns how icy the column at (x, z) with surface height h is,
// from distance to the equator, regional cold and altitude.
func (g *Generator) IceFactor(x, z, h float64) float64 {
	latitude := noise.Clamp01((math.Abs(z) - latitudeCold) / latitudeSpan)
	cold := noise.SmoothRange(0.2, 0.7, g.cold.OctaveNoise2D(x/500, z/500, 2, 2.0, 0.5))
	elev := noise.SmoothRange(36, 64, h)
	return noise.Clamp01(latitude*0.7 + cold*0.45 + elev*0.5 - 0.3)
}
