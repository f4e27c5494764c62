package noise

import "math"

// Value noise over a hashed integer lattice. Every function here is a pure
// function of its arguments and the generator seed.

const ridgeSharpness = 2.0

// NoiseGenerator produces deterministic hash-driven noise from a 32-bit seed.
// Independent channels are obtained by constructing generators from derived
// seeds, e.g. New(seed + 100).
type NoiseGenerator struct {
	seed uint32
}

// New creates a noise generator for the given seed.
func New(seed uint32) *NoiseGenerator {
	return &NoiseGenerator{seed: seed}
}

// Seed returns the generator seed.
func (ng *NoiseGenerator) Seed() uint32 {
	return ng.seed
}

// Hash returns a deterministic value in [-1, 1] for the lattice point (x, z).
func (ng *NoiseGenerator) Hash(x, z int) float64 {
	return float64(Hash32(ng.seed, x, z))/float64(math.MaxUint32)*2 - 1
}

// Hash01 returns a deterministic value in [0, 1] for the lattice point (x, z).
func (ng *NoiseGenerator) Hash01(x, z int) float64 {
	return float64(Hash32(ng.seed, x, z)) / float64(math.MaxUint32)
}

// Noise2D returns bilinear value noise at (x, z), smoothstep-weighted between
// the four surrounding lattice hashes. Output is in [-1, 1].
func (ng *NoiseGenerator) Noise2D(x, z float64) float64 {
	if !Finite(x) || !Finite(z) {
		return 0
	}

	x0 := math.Floor(x)
	z0 := math.Floor(z)
	ix := int(x0)
	iz := int(z0)

	u := Smoothstep(x - x0)
	v := Smoothstep(z - z0)

	a := ng.Hash(ix, iz)
	b := ng.Hash(ix+1, iz)
	c := ng.Hash(ix, iz+1)
	d := ng.Hash(ix+1, iz+1)

	return Lerp(Lerp(a, b, u), Lerp(c, d, u), v)
}

// OctaveNoise2D layers octaves of value noise (fractal Brownian motion).
// Each octave multiplies frequency by lacunarity and amplitude by gain; the
// sum is normalized by the total amplitude so the result stays in [-1, 1].
func (ng *NoiseGenerator) OctaveNoise2D(x, z float64, octaves int, lacunarity, gain float64) float64 {
	var total, maxVal float64
	frequency := 1.0
	amplitude := 1.0

	for i := range octaves {
		// Offset each octave so they do not all share the lattice origin.
		off := float64(i) * 17.31
		total += ng.Noise2D(x*frequency+off, z*frequency-off) * amplitude
		maxVal += amplitude
		amplitude *= gain
		frequency *= lacunarity
	}
	if maxVal == 0 {
		return 0
	}
	return guard(total / maxVal)
}

// Ridged2D accumulates octaves like OctaveNoise2D but folds every sample
// through (1-|n|)^2, producing sharp crests. Output is in [0, 1].
func (ng *NoiseGenerator) Ridged2D(x, z float64, octaves int, lacunarity, gain float64) float64 {
	var total, maxVal float64
	frequency := 1.0
	amplitude := 1.0

	for i := range octaves {
		off := float64(i) * 23.17
		n := ng.Noise2D(x*frequency+off, z*frequency+off)
		r := math.Pow(1-math.Abs(n), ridgeSharpness)
		total += r * amplitude
		maxVal += amplitude
		amplitude *= gain
		frequency *= lacunarity
	}
	if maxVal == 0 {
		return 0
	}
	return Clamp01(guard(total / maxVal))
}

func guard(v float64) float64 {
	if !Finite(v) {
		return 0
	}
	return v
}
