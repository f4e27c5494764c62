package biome

import (
	"cmp"
	"math"
	"slices"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

// Params tunes biome cell layout and border blending.
type Params struct {
	CellSize        float64 // world units per biome cell
	PointSpread     float64 // fraction of the cell the feature point may occupy
	ScoreJitter     float64 // amplitude of the per-cell tie-breaking jitter
	ScoreFloor      float64 // best score below this falls back to the default biome
	WarpFreq        float64 // domain warp frequency in cycles per world unit
	WarpAmp         float64 // domain warp amplitude in world units
	TransitionScale float64 // band width as a fraction of CellSize
	BandFloor       float64 // normalized distance treated as the exact border
	MinWeight       float64 // weight floor of the farther cell inside the band
	EdgeFade        float64 // outer fraction of the band where the floor fades to zero
	Climate         ClimateParams
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		CellSize:        96,
		PointSpread:     0.8,
		ScoreJitter:     0.04,
		ScoreFloor:      0.02,
		WarpFreq:        1.0 / 220,
		WarpAmp:         26,
		TransitionScale: 0.35,
		BandFloor:       0.04,
		MinWeight:       0.06,
		EdgeFade:        0.1,
		Climate:         DefaultClimateParams(),
	}
}

// Classifier assigns biomes to cells and blends them at borders.
type Classifier struct {
	reg     *Registry
	p       Params
	climate *ClimateField

	pointX, pointZ *noise.NoiseGenerator
	warpX, warpZ   *noise.NoiseGenerator
	overlay        *noise.NoiseGenerator
	rarity         []*noise.NoiseGenerator
	jitter         []*noise.NoiseGenerator
}

// NewClassifier creates a classifier over reg for a world seed.
func NewClassifier(seed uint32, reg *Registry, p Params) *Classifier {
	if p.CellSize <= 0 {
		p.CellSize = DefaultParams().CellSize
	}
	c := &Classifier{
		reg:     reg,
		p:       p,
		climate: NewClimateField(seed, p.Climate),
		pointX:  noise.New(seed + 400),
		pointZ:  noise.New(seed + 410),
		warpX:   noise.New(seed + 420),
		warpZ:   noise.New(seed + 430),
		overlay: noise.New(seed + 440),
	}
	for i := range reg.biomes {
		c.rarity = append(c.rarity, noise.New(seed+500+uint32(i)*31))
		c.jitter = append(c.jitter, noise.New(seed+700+uint32(i)*37))
	}
	return c
}

// Registry returns the registry the classifier draws from.
func (c *Classifier) Registry() *Registry {
	return c.reg
}

// Params returns the classifier tuning.
func (c *Classifier) Params() Params {
	return c.p
}

// Climate returns the climate of a biome cell.
func (c *Classifier) Climate(cellX, cellZ int) Climate {
	return c.climate.At(cellX, cellZ)
}

// ClassifyCell returns the biome of cell (cellX, cellZ). It never returns nil.
func (c *Classifier) ClassifyCell(cellX, cellZ int) *Biome {
	if ob, threshold := c.reg.Overlay(); ob != nil && c.overlay.Hash01(cellX, cellZ) > threshold {
		return ob
	}

	clim := c.climate.At(cellX, cellZ)
	var best *Biome
	bestScore := math.Inf(-1)
	for i, b := range c.reg.biomes {
		s := b.Score(clim, c.rarity[i].Hash01(cellX, cellZ))
		s += c.p.ScoreJitter * c.jitter[i].Hash(cellX, cellZ)
		if s > bestScore {
			best, bestScore = b, s
		}
	}
	if best == nil || bestScore < c.p.ScoreFloor || !noise.Finite(bestScore) {
		return c.reg.def
	}
	return best
}

// FeaturePoint returns the jittered world position of a cell's feature point.
func (c *Classifier) FeaturePoint(cellX, cellZ int) (x, z float64) {
	margin := (1 - c.p.PointSpread) / 2
	fx := margin + c.p.PointSpread*c.pointX.Hash01(cellX, cellZ)
	fz := margin + c.p.PointSpread*c.pointZ.Hash01(cellX, cellZ)
	return (float64(cellX) + fx) * c.p.CellSize, (float64(cellZ) + fz) * c.p.CellSize
}

// Warp applies the low-frequency domain warp used before cell lookup.
func (c *Classifier) Warp(x, z float64) (float64, float64) {
	if c.p.WarpAmp == 0 {
		return x, z
	}
	f := c.p.WarpFreq
	wx := x + c.p.WarpAmp*c.warpX.OctaveNoise2D(x*f, z*f, 2, 2.0, 0.5)
	wz := z + c.p.WarpAmp*c.warpZ.OctaveNoise2D(x*f+19.1, z*f-7.7, 2, 2.0, 0.5)
	return wx, wz
}

// CellSample is one candidate of a nearest-cell query.
type CellSample struct {
	CellX, CellZ int
	Distance     float64
	Biome        *Biome
}

// scanRadius covers every feature point that can fall within the nearest
// distance plus a transition band of the query.
const scanRadius = 2

type cellScan [(2*scanRadius + 1) * (2*scanRadius + 1)]CellSample

// scan warps (x, z) and returns the feature points of the surrounding cells
// ordered by distance. Biomes are not resolved.
func (c *Classifier) scan(x, z float64, out *cellScan) {
	wx, wz := c.Warp(x, z)
	cx := noise.FloorInt(wx / c.p.CellSize)
	cz := noise.FloorInt(wz / c.p.CellSize)

	i := 0
	for dz := -scanRadius; dz <= scanRadius; dz++ {
		for dx := -scanRadius; dx <= scanRadius; dx++ {
			px, pz := c.FeaturePoint(cx+dx, cz+dz)
			out[i] = CellSample{CellX: cx + dx, CellZ: cz + dz, Distance: math.Hypot(wx-px, wz-pz)}
			i++
		}
	}
	slices.SortFunc(out[:], func(a, b CellSample) int {
		if d := cmp.Compare(a.Distance, b.Distance); d != 0 {
			return d
		}
		if d := cmp.Compare(a.CellZ, b.CellZ); d != 0 {
			return d
		}
		return cmp.Compare(a.CellX, b.CellX)
	})
}

// NearestTwo returns the closest and second closest cells to (x, z) after
// warping.
func (c *Classifier) NearestTwo(x, z float64) [2]CellSample {
	var cells cellScan
	c.scan(x, z, &cells)
	best := [2]CellSample{cells[0], cells[1]}
	best[0].Biome = c.ClassifyCell(best[0].CellX, best[0].CellZ)
	best[1].Biome = c.ClassifyCell(best[1].CellX, best[1].CellZ)
	return best
}

// Weighted is one entry of a biome mix.
type Weighted struct {
	Biome  *Biome
	Weight float64
}

// Mix is a blend of distinct biomes, heaviest first, weights summing to 1.
type Mix []Weighted

// Weights returns the biome mix at world position (x, z). The biome of the
// nearest feature point dominates. Every other biome whose own nearest point
// lies within the transition band takes a share that grows towards the
// border; a lone rival gets exactly farWeight(t) of the mix.
func (c *Classifier) Weights(x, z float64) Mix {
	var cells cellScan
	c.scan(x, z, &cells)

	near := c.ClassifyCell(cells[0].CellX, cells[0].CellZ)
	mix := Mix{{Biome: near, Weight: 1}}
	band := c.p.CellSize * c.p.TransitionScale
	if band <= 0 {
		return mix
	}

	total := 1.0
	for _, s := range cells[1:] {
		t := (s.Distance - cells[0].Distance) / band
		if t >= 1 || !noise.Finite(t) {
			break
		}
		b := c.ClassifyCell(s.CellX, s.CellZ)
		if slices.ContainsFunc(mix, func(w Weighted) bool { return w.Biome == b }) {
			continue
		}
		f := c.farWeight(t)
		r := f / (1 - f)
		mix = append(mix, Weighted{Biome: b, Weight: r})
		total += r
	}
	if len(mix) > 1 {
		for i := range mix {
			mix[i].Weight /= total
		}
	}
	return mix
}

// farWeight is the share of a single rival biome at normalized border
// distance t in [0, 1): 0.5 on the border, easing to MinWeight and then
// fading to 0 over the last EdgeFade of the band.
func (c *Classifier) farWeight(t float64) float64 {
	var u float64
	if c.p.BandFloor < 1 {
		u = noise.Clamp01((t - c.p.BandFloor) / (1 - c.p.BandFloor))
	}
	far := 0.5 * (1 - noise.Smoothstep(u))
	if far < c.p.MinWeight {
		far = c.p.MinWeight
	}
	if far > 0.5 {
		far = 0.5
	}
	if fade := c.p.EdgeFade; fade > 0 && t > 1-fade {
		far *= noise.Smoothstep((1 - t) / fade)
	}
	return far
}

// Dominant returns the heaviest biome of the mix.
func (m Mix) Dominant() *Biome {
	if len(m) == 0 {
		return nil
	}
	return m[0].Biome
}

// Weight returns the weight of the biome with the given id.
func (m Mix) Weight(id string) float64 {
	var w float64
	for _, e := range m {
		if e.Biome.ID == id {
			w += e.Weight
		}
	}
	return w
}

// Sum returns the total weight.
func (m Mix) Sum() float64 {
	var s float64
	for _, e := range m {
		s += e.Weight
	}
	return s
}

// Blend returns a synthetic biome whose continuous attributes are the
// weighted average of the mix. Identity fields come from the dominant biome.
func (m Mix) Blend() Biome {
	if len(m) == 0 {
		return Biome{}
	}
	out := *m[0].Biome
	out.Color = mgl64.Vec3{}
	out.WaterColor = mgl64.Vec3{}
	out.Roughness, out.Verticality, out.Wetness = 0, 0, 0
	for _, e := range m {
		out.Color = out.Color.Add(e.Biome.Color.Mul(e.Weight))
		out.WaterColor = out.WaterColor.Add(e.Biome.WaterColor.Mul(e.Weight))
		out.Roughness += e.Biome.Roughness * e.Weight
		out.Verticality += e.Biome.Verticality * e.Weight
		out.Wetness += e.Biome.Wetness * e.Weight
	}
	return out
}

// Sorted returns a copy of the mix ordered by descending weight. Equal
// weights keep their mix order, so the dominant biome stays first.
func (m Mix) Sorted() Mix {
	out := append(Mix(nil), m...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}
