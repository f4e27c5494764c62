package biome

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Profile selects the height function used for a biome.
type Profile string

const (
	ProfileDesert    Profile = "desert"
	ProfileSwamp     Profile = "swamp"
	ProfileMountains Profile = "mountains"
	ProfileVolcanic  Profile = "volcanic"
	ProfilePlains    Profile = "plains"
	ProfileForest    Profile = "forest"
	ProfileGlacier   Profile = "glacier"
	ProfileRuins     Profile = "ruins"
)

// Profiles lists every known profile.
var Profiles = []Profile{
	ProfileDesert, ProfileSwamp, ProfileMountains, ProfileVolcanic,
	ProfilePlains, ProfileForest, ProfileGlacier, ProfileRuins,
}

// Valid reports whether p is a known profile.
func (p Profile) Valid() bool {
	for _, q := range Profiles {
		if p == q {
			return true
		}
	}
	return false
}

// Envelope is a soft preference window on one climate axis.
type Envelope struct {
	Center    float64
	Width     float64
	Sharpness float64
}

// ClimatePreference holds the optional per-axis envelopes of a biome. A nil
// axis does not constrain the score.
type ClimatePreference struct {
	Temperature *Envelope
	Moisture    *Envelope
	Elevation   *Envelope
}

// Rarity makes a biome rare even where its climate fits: when the per-cell
// rarity roll is at or below Threshold the score is multiplied by Penalty.
type Rarity struct {
	Threshold float64
	Penalty   float64
}

// Climate is the sampled climate of one biome cell, each axis in [0, 1].
type Climate struct {
	Temp  float64
	Moist float64
	Elev  float64
}

// Biome is an immutable registry record.
type Biome struct {
	ID          string
	Name        string
	Profile     Profile
	Color       mgl64.Vec3
	WaterColor  mgl64.Vec3
	Roughness   float64
	Verticality float64
	Wetness     float64
	Surface     string
	Subsurface  string
	Climate     ClimatePreference
	Rarity      *Rarity
	Structures  StructureWeights

	index int
}

// Index returns the position of the biome in its registry.
func (b *Biome) Index() int {
	return b.index
}

// ScoreNear is a tent membership function: 1 at center, falling linearly to
// 0 at center±width, raised to sharpness.
func ScoreNear(value, center, width, sharpness float64) float64 {
	if width <= 0 {
		return 0
	}
	s := 1 - math.Abs(value-center)/width
	if s <= 0 {
		return 0
	}
	if sharpness <= 0 {
		sharpness = 1
	}
	return math.Pow(s, sharpness)
}

func (e *Envelope) score(v float64) float64 {
	if e == nil {
		return 1
	}
	return ScoreNear(v, e.Center, e.Width, e.Sharpness)
}

// Score rates how well climate c suits the biome. rarityRoll is a per-cell
// roll in [0, 1] consulted only when the biome has a rarity gate.
func (b *Biome) Score(c Climate, rarityRoll float64) float64 {
	s := b.Climate.Temperature.score(c.Temp) *
		b.Climate.Moisture.score(c.Moist) *
		b.Climate.Elevation.score(c.Elev)
	if b.Rarity != nil && rarityRoll <= b.Rarity.Threshold {
		s *= b.Rarity.Penalty
	}
	return s
}

// StructureKind names a point-of-interest type.
type StructureKind string

const (
	StructureRuin           StructureKind = "ruin"
	StructureSpire          StructureKind = "spire"
	StructureCrystal        StructureKind = "crystal"
	StructureCrystalCluster StructureKind = "crystal_cluster"
	StructureMonolith       StructureKind = "monolith"
	StructureIceFormation   StructureKind = "ice_formation"
)

// WeightedKinds is the canonical iteration order for weighted selection.
var WeightedKinds = []StructureKind{
	StructureRuin, StructureSpire, StructureCrystal, StructureCrystalCluster, StructureMonolith,
}

// StructureWeights maps structure kinds to relative spawn weights. Weights
// are not probabilities and need not sum to 1.
type StructureWeights map[StructureKind]float64

// Total returns the sum of positive weights.
func (w StructureWeights) Total() float64 {
	var t float64
	for _, k := range WeightedKinds {
		if v := w[k]; v > 0 {
			t += v
		}
	}
	return t
}

// Select walks the cumulative weights in canonical order and returns the
// kind whose bucket contains roll, where roll is in [0, Total()). Rolls at
// or past the end select the last weighted kind. ok is false only when no
// kind has a positive weight.
func (w StructureWeights) Select(roll float64) (StructureKind, bool) {
	var acc float64
	var last StructureKind
	found := false
	for _, k := range WeightedKinds {
		v := w[k]
		if v <= 0 {
			continue
		}
		acc += v
		last = k
		found = true
		if roll < acc {
			return k, true
		}
	}
	return last, found
}
