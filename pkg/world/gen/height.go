package gen

import (
	"math"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

const (
	mountainEaseStart = 54.0
	terraceStart      = 38.0
	terraceStep       = 4.0 // divides MountainCeiling

	calderaCell = 220.0
)

// Height returns the integer surface height at (x, z).
func (g *Generator) Height(x, z float64) int {
	return g.heightFromMix(g.classifier.Weights(x, z), x, z)
}

// HeightRaw returns the unrounded surface height at (x, z): the weighted
// profile heights rescaled by verticality, carved by rivers and ravines.
func (g *Generator) HeightRaw(x, z float64) float64 {
	return g.rawFromMix(g.classifier.Weights(x, z), x, z)
}

func (g *Generator) heightFromMix(m biome.Mix, x, z float64) int {
	return int(math.Round(g.rawFromMix(m, x, z)))
}

func (g *Generator) rawFromMix(m biome.Mix, x, z float64) float64 {
	var h, vert float64
	for _, e := range m {
		h += e.Weight * g.HeightForProfile(e.Biome.Profile, x, z)
		vert += e.Weight * e.Biome.Verticality
	}

	// Steeper biomes amplify relief around the water line.
	scale := 0.85 + 0.3*vert
	h = WaterLevel + (h-WaterLevel)*scale

	h = g.carve(h, x, z)
	h += g.jitter.Noise2D(x/3.3, z/3.3) * 0.35

	if !noise.Finite(h) {
		return WaterLevel
	}
	return h
}

// HeightForProfile evaluates a single profile's height function. Unknown
// profiles use the plains function.
func (g *Generator) HeightForProfile(p biome.Profile, x, z float64) float64 {
	var h float64
	switch p {
	case biome.ProfileDesert:
		h = g.desertHeight(x, z)
	case biome.ProfileSwamp:
		h = g.swampHeight(x, z)
	case biome.ProfileMountains:
		h = g.mountainHeight(x, z)
	case biome.ProfileVolcanic:
		h = g.volcanicHeight(x, z)
	case biome.ProfileForest:
		h = g.forestHeight(x, z)
	case biome.ProfileGlacier:
		h = g.glacierHeight(x, z)
	case biome.ProfileRuins:
		h = g.ruinsHeight(x, z)
	default:
		h = g.plainsHeight(x, z)
	}
	if !noise.Finite(h) {
		return WaterLevel
	}
	return h
}

// baseNoise is the shared macro roll in [-1, 1].
func (g *Generator) baseNoise(x, z float64) float64 {
	return g.macro.OctaveNoise2D(x/180, z/180, 4, 2.0, 0.5)
}

func (g *Generator) base(x, z float64) float64 {
	return g.baseNoise(x, z)*7 + 15
}

func (g *Generator) rolling(x, z float64) float64 {
	return g.detail.OctaveNoise2D(x/70, z/70, 3, 2.0, 0.5)
}

func (g *Generator) microNoise(x, z float64) float64 {
	return g.micro.OctaveNoise2D(x/14, z/14, 2, 2.0, 0.5)
}

func (g *Generator) desertHeight(x, z float64) float64 {
	h := g.base(x, z)*0.7 + 4

	// Dune crests run across a slowly rotating axis.
	angle := g.duneAxis.Noise2D(x/700, z/700) * math.Pi
	u := x*math.Cos(angle) + z*math.Sin(angle)
	crest := 0.5 + 0.5*math.Sin(u/7+g.dune.Noise2D(x/60, z/60)*2)
	strength := 0.6 + 0.4*(0.5+0.5*g.dune.Noise2D(x/150+40, z/150-40))
	h += crest * crest * 3.5 * strength

	mesa := noise.SmoothRange(0.18, 0.32, g.mesa.OctaveNoise2D(x/150, z/150, 3, 2.0, 0.5))
	h = noise.Lerp(h, 27+g.microNoise(x, z), mesa)

	lake := noise.SmoothRange(0.3, 0.45, g.lake.OctaveNoise2D(x/200, z/200, 2, 2.0, 0.5))
	return noise.Lerp(h, WaterLevel-3, lake)
}

func (g *Generator) swampHeight(x, z float64) float64 {
	h := g.base(x, z)*0.3 + 6.5
	h -= noise.SmoothRange(0.05, 0.35, g.basin.OctaveNoise2D(x/90, z/90, 3, 2.0, 0.5)) * 3.5
	h += g.micro.Noise2D(x/6, z/6) * 0.8
	return h + g.rolling(x, z)*1.2
}

func (g *Generator) mountainHeight(x, z float64) float64 {
	return shapeMountain(
		g.baseNoise(x, z),
		g.ridge.Ridged2D(x/260, z/260, 2, 2.0, 0.5),
		g.ridge2.Ridged2D(x/95, z/95, 3, 2.1, 0.5),
		noise.SmoothRange(-0.2, 0.4, g.ridgeMix.Noise2D(x/180, z/180)),
		0.5+0.5*g.erosion.OctaveNoise2D(x/45, z/45, 3, 2.0, 0.5),
	)
}

// shapeMountain combines the mountain noise channels into a height that
// never exceeds MountainCeiling. base is in [-1, 1]; the other inputs are
// in [0, 1]. Out-of-range or non-finite inputs are clamped first.
func shapeMountain(base, backbone, secondary, mask, erosion float64) float64 {
	if !noise.Finite(base) {
		base = 0
	}
	base = noise.Clamp(base, -1, 1)
	backbone = noise.Clamp01(backbone)
	secondary = noise.Clamp01(secondary)
	mask = noise.Clamp01(mask)
	erosion = noise.Clamp01(erosion)

	ridges := noise.Lerp(backbone, math.Max(backbone, secondary), mask)
	h := 14 + base*6 + ridges*66 - erosion*7*mask
	h = softClamp(h, mountainEaseStart, MountainCeiling)

	if h > terraceStart {
		stepped := math.Round(h/terraceStep) * terraceStep
		h = 0.55*stepped + 0.45*h
	}
	return math.Min(h, MountainCeiling)
}

// softClamp passes h through below start and eases quadratically into
// ceiling above it, reaching the ceiling at twice the remaining span.
func softClamp(h, start, ceiling float64) float64 {
	if math.IsNaN(h) {
		return start
	}
	if h <= start {
		return h
	}
	span := ceiling - start
	k := math.Min((h-start)/(2*span), 1)
	return math.Min(start+span*(1-(1-k)*(1-k)), ceiling)
}

func (g *Generator) volcanicHeight(x, z float64) float64 {
	broken := g.detail.OctaveNoise2D(x/55, z/55, 5, 2.1, 0.55)
	h := g.base(x, z) + 3 + broken*7

	d, r := g.nearestCaldera(x, z)
	rim := g.ridge2.Ridged2D(x/30, z/30, 2, 2.0, 0.5)
	ring := noise.Clamp01(1 - math.Abs(d-r)/(r*0.55))
	h += ring * ring * (10 + 8*rim)
	h -= noise.SmoothRange(r*0.85, r*0.35, d) * 14
	return h
}

// nearestCaldera returns the distance to the closest caldera centre and
// that caldera's radius. Every caldera cell holds one jittered caldera.
func (g *Generator) nearestCaldera(x, z float64) (dist, radius float64) {
	cx := noise.FloorInt(x / calderaCell)
	cz := noise.FloorInt(z / calderaCell)
	dist = math.Inf(1)
	radius = 24
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			hv := noise.Hash32(g.caldera.Seed(), cx+dx, cz+dz)
			jx := float64(hv&0xffff) / 0xffff
			jz := float64(hv>>16) / 0xffff
			px := (float64(cx+dx) + 0.25 + 0.5*jx) * calderaCell
			pz := (float64(cz+dz) + 0.25 + 0.5*jz) * calderaCell
			if d := math.Hypot(x-px, z-pz); d < dist {
				dist = d
				radius = 18 + 16*g.caldera.Hash01(cz+dz, cx+dx)
			}
		}
	}
	return dist, radius
}

func (g *Generator) plainsHeight(x, z float64) float64 {
	return g.base(x, z) + g.rolling(x, z)*4 + g.microNoise(x, z)*0.8
}

func (g *Generator) forestHeight(x, z float64) float64 {
	h := g.base(x, z) + 1.5 + g.rolling(x, z)*5.5 + g.microNoise(x, z)
	creek := 1 - math.Abs(g.creek.OctaveNoise2D(x/160, z/160, 2, 2.0, 0.5))
	return h - noise.SmoothRange(0.9, 0.985, creek)*4
}

func (g *Generator) glacierHeight(x, z float64) float64 {
	return g.base(x, z) + 5 +
		g.ridge.Ridged2D(x/120, z/120, 3, 2.0, 0.5)*16 +
		g.rolling(x, z)*3 +
		g.microNoise(x, z)*0.6
}

func (g *Generator) ruinsHeight(x, z float64) float64 {
	h := g.base(x, z) + 1 + g.rolling(x, z)*3 + g.microNoise(x, z)*0.5
	steps := math.Floor((0.5 + 0.5*g.terrace.Noise2D(x/45, z/45)) * 4)
	return h + steps*1.5
}
