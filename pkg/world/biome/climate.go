package biome

import "github.com/OCharnyshevich/voxel-planet/pkg/world/noise"

// ClimateParams tunes the climate field. Frequencies are in cycles per biome
// cell; the bias terms are a slower regional signal blended into each axis.
type ClimateParams struct {
	TempFreq   float64
	MoistFreq  float64
	ElevFreq   float64
	BiasFreq   float64
	BiasWeight float64
	WarpFreq   float64
	WarpAmp    float64
	Contrast   float64
}

// DefaultClimateParams returns the reference tuning.
func DefaultClimateParams() ClimateParams {
	return ClimateParams{
		TempFreq:   0.17,
		MoistFreq:  0.23,
		ElevFreq:   0.19,
		BiasFreq:   0.045,
		BiasWeight: 0.35,
		WarpFreq:   0.11,
		WarpAmp:    1.6,
		Contrast:   1.7,
	}
}

// ClimateField samples temperature, moisture and elevation per biome cell.
type ClimateField struct {
	p ClimateParams

	temp, moist, elev             *noise.NoiseGenerator
	tempBias, moistBias, elevBias *noise.NoiseGenerator
	warpX, warpZ                  *noise.NoiseGenerator
}

// NewClimateField creates a climate field for a world seed.
func NewClimateField(seed uint32, p ClimateParams) *ClimateField {
	return &ClimateField{
		p:         p,
		temp:      noise.New(seed + 100),
		moist:     noise.New(seed + 200),
		elev:      noise.New(seed + 300),
		tempBias:  noise.New(seed + 110),
		moistBias: noise.New(seed + 210),
		elevBias:  noise.New(seed + 310),
		warpX:     noise.New(seed + 120),
		warpZ:     noise.New(seed + 130),
	}
}

// At returns the climate of biome cell (cellX, cellZ).
func (c *ClimateField) At(cellX, cellZ int) Climate {
	x := float64(cellX)
	z := float64(cellZ)

	wx := x + c.p.WarpAmp*c.warpX.Noise2D(x*c.p.WarpFreq, z*c.p.WarpFreq)
	wz := z + c.p.WarpAmp*c.warpZ.Noise2D(x*c.p.WarpFreq+31.7, z*c.p.WarpFreq-11.3)

	return Climate{
		Temp:  c.axis(c.temp, c.tempBias, wx, wz, x, z, c.p.TempFreq),
		Moist: c.axis(c.moist, c.moistBias, wx, wz, x, z, c.p.MoistFreq),
		Elev:  c.axis(c.elev, c.elevBias, wx, wz, x, z, c.p.ElevFreq),
	}
}

func (c *ClimateField) axis(fast, bias *noise.NoiseGenerator, wx, wz, x, z, freq float64) float64 {
	n := fast.OctaveNoise2D(wx*freq, wz*freq, 3, 2.0, 0.5)
	v := 0.5 + 0.5*noise.Clamp(n*c.p.Contrast, -1, 1)

	b := bias.Noise2D(x*c.p.BiasFreq, z*c.p.BiasFreq)
	bv := 0.5 + 0.5*noise.Clamp(b*c.p.Contrast, -1, 1)

	return noise.Clamp01(noise.Lerp(v, bv, c.p.BiasWeight))
}
