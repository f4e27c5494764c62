package biome

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func testClassifier(seed uint32) *Classifier {
	return NewClassifier(seed, DefaultRegistry(), DefaultParams())
}

func TestClimateInRange(t *testing.T) {
	f := NewClimateField(7, DefaultClimateParams())
	for cz := -40; cz <= 40; cz += 3 {
		for cx := -40; cx <= 40; cx += 3 {
			c := f.At(cx, cz)
			for _, v := range []float64{c.Temp, c.Moist, c.Elev} {
				if v < 0 || v > 1 || math.IsNaN(v) {
					t.Fatalf("At(%d, %d) = %+v, axis out of [0,1]", cx, cz, c)
				}
			}
		}
	}
}

func TestClimateVaries(t *testing.T) {
	f := NewClimateField(7, DefaultClimateParams())
	minT, maxT := 1.0, 0.0
	for cz := -30; cz <= 30; cz++ {
		for cx := -30; cx <= 30; cx++ {
			v := f.At(cx, cz).Temp
			minT = math.Min(minT, v)
			maxT = math.Max(maxT, v)
		}
	}
	if maxT-minT < 0.4 {
		t.Errorf("temperature spans [%v, %v], want a spread of at least 0.4", minT, maxT)
	}
}

func TestClassifyCellNeverNil(t *testing.T) {
	c := testClassifier(42)
	seen := map[string]bool{}
	for cz := -60; cz <= 60; cz++ {
		for cx := -60; cx <= 60; cx++ {
			b := c.ClassifyCell(cx, cz)
			if b == nil {
				t.Fatalf("ClassifyCell(%d, %d) = nil", cx, cz)
			}
			seen[b.ID] = true
		}
	}
	if len(seen) < 5 {
		t.Errorf("only %d distinct biomes over 121x121 cells: %v", len(seen), seen)
	}
}

func TestClassifyCellFallsBackToDefault(t *testing.T) {
	// A biome that can never score keeps every cell on the default.
	biomes := []Biome{
		{ID: "base", Profile: ProfilePlains},
		{ID: "never", Profile: ProfileDesert, Climate: ClimatePreference{
			Temperature: &Envelope{Center: 5, Width: 0.1},
		}},
	}
	reg, err := NewRegistry(biomes, "base", Overlay{})
	if err != nil {
		t.Fatal(err)
	}
	p := DefaultParams()
	p.ScoreFloor = 2 // above any achievable score
	c := NewClassifier(1, reg, p)
	for cx := -10; cx <= 10; cx++ {
		if got := c.ClassifyCell(cx, 3).ID; got != "base" {
			t.Fatalf("ClassifyCell(%d, 3) = %q, want default", cx, got)
		}
	}
}

func TestClassifyCellOverlay(t *testing.T) {
	biomes := []Biome{
		{ID: "base", Profile: ProfilePlains},
		{ID: "ruins", Profile: ProfileRuins, Rarity: &Rarity{Threshold: 1, Penalty: 0}},
	}

	always, err := NewRegistry(biomes, "base", Overlay{BiomeID: "ruins", Threshold: 0})
	if err != nil {
		t.Fatal(err)
	}
	never, err := NewRegistry(biomes, "base", Overlay{BiomeID: "ruins", Threshold: 1})
	if err != nil {
		t.Fatal(err)
	}

	ca := NewClassifier(9, always, DefaultParams())
	cn := NewClassifier(9, never, DefaultParams())
	overlaid := 0
	for cx := -20; cx <= 20; cx++ {
		if ca.ClassifyCell(cx, -4).ID == "ruins" {
			overlaid++
		}
		if got := cn.ClassifyCell(cx, -4).ID; got != "base" {
			t.Errorf("threshold 1: ClassifyCell(%d, -4) = %q, want base", cx, got)
		}
	}
	// Hash01 is 0 only for a single hash value.
	if overlaid < 40 {
		t.Errorf("threshold 0: %d/41 cells overlaid, want all but a freak zero roll", overlaid)
	}
}

func TestFeaturePointInsideCell(t *testing.T) {
	c := testClassifier(3)
	size := c.Params().CellSize
	for cz := -15; cz <= 15; cz++ {
		for cx := -15; cx <= 15; cx++ {
			px, pz := c.FeaturePoint(cx, cz)
			if px < float64(cx)*size || px >= float64(cx+1)*size ||
				pz < float64(cz)*size || pz >= float64(cz+1)*size {
				t.Fatalf("FeaturePoint(%d, %d) = (%v, %v) outside the cell", cx, cz, px, pz)
			}
		}
	}
}

func TestNearestTwoOrdered(t *testing.T) {
	c := testClassifier(11)
	for z := -500.0; z <= 500; z += 37.3 {
		for x := -500.0; x <= 500; x += 41.9 {
			n := c.NearestTwo(x, z)
			if n[0].Distance > n[1].Distance {
				t.Fatalf("NearestTwo(%v, %v) distances out of order: %v > %v", x, z, n[0].Distance, n[1].Distance)
			}
			if n[0].CellX == n[1].CellX && n[0].CellZ == n[1].CellZ {
				t.Fatalf("NearestTwo(%v, %v) returned the same cell twice", x, z)
			}
			if n[0].Biome == nil || n[1].Biome == nil {
				t.Fatalf("NearestTwo(%v, %v) returned a nil biome", x, z)
			}
		}
	}
}

func TestWeightsNormalized(t *testing.T) {
	for _, seed := range []uint32{0, 1, 42, 0xdeadbeef} {
		c := testClassifier(seed)
		blended := 0
		for z := -800.0; z <= 800; z += 7.7 {
			for x := -800.0; x <= 800; x += 9.1 {
				m := c.Weights(x, z)
				if len(m) < 1 || len(m) > c.Registry().Len() {
					t.Fatalf("seed %d: Weights(%v, %v) has %d entries", seed, x, z, len(m))
				}
				seen := map[string]bool{}
				for _, e := range m {
					if e.Weight <= 0 || e.Weight > 1 {
						t.Fatalf("seed %d: Weights(%v, %v) weight %v out of (0,1]", seed, x, z, e.Weight)
					}
					if seen[e.Biome.ID] {
						t.Fatalf("seed %d: Weights(%v, %v) lists %s twice", seed, x, z, e.Biome.ID)
					}
					seen[e.Biome.ID] = true
					if e.Weight > m[0].Weight {
						t.Fatalf("seed %d: Weights(%v, %v) not heaviest first", seed, x, z)
					}
				}
				if s := m.Sum(); math.Abs(s-1) > 1e-9 {
					t.Fatalf("seed %d: Weights(%v, %v) sum = %v", seed, x, z, s)
				}
				if len(m) > 1 {
					blended++
					if m[0].Weight < 1/float64(len(m)) {
						t.Fatalf("seed %d: dominant weight %v below an even split", seed, m[0].Weight)
					}
				}
			}
		}
		if blended == 0 {
			t.Errorf("seed %d: no blended positions found", seed)
		}
	}
}

func TestFarWeight(t *testing.T) {
	c := testClassifier(1)
	p := c.Params()
	if got := c.farWeight(0); got != 0.5 {
		t.Errorf("farWeight(0) = %v, want 0.5", got)
	}
	prev := 0.5
	for i := 1; i < 1000; i++ {
		tt := float64(i) / 1000
		w := c.farWeight(tt)
		if w > prev {
			t.Fatalf("farWeight(%v) = %v rises above %v", tt, w, prev)
		}
		if tt <= 1-p.EdgeFade && w < p.MinWeight {
			t.Fatalf("farWeight(%v) = %v below the floor inside the band", tt, w)
		}
		prev = w
	}
	if w := c.farWeight(0.99999); w > 1e-6 {
		t.Errorf("farWeight at the band edge = %v, want about 0", w)
	}
}

func TestWeightsDeterministic(t *testing.T) {
	a := testClassifier(2024)
	b := testClassifier(2024)
	for i := range 500 {
		x := float64(i*13%997) - 500.25
		z := float64(i*29%991) - 480.5
		ma, mb := a.Weights(x, z), b.Weights(x, z)
		if len(ma) != len(mb) {
			t.Fatalf("Weights(%v, %v) lengths differ: %d vs %d", x, z, len(ma), len(mb))
		}
		for j := range ma {
			if ma[j].Biome.ID != mb[j].Biome.ID || ma[j].Weight != mb[j].Weight {
				t.Fatalf("Weights(%v, %v) differ: %+v vs %+v", x, z, ma[j], mb[j])
			}
		}
		if ma.Blend().Color != mb.Blend().Color {
			t.Fatalf("Blend(%v, %v) differs", x, z)
		}
	}
}

// borderPair finds two horizontally adjacent cells with different biomes
// whose feature points are each other's nearest rivals along the whole
// segment joining them.
func borderPair(t *testing.T, c *Classifier) (ax, az, bx, bz float64, idA, idB string) {
	t.Helper()
	for cz := -40; cz <= 40; cz++ {
		for cx := -40; cx <= 40; cx++ {
			a, b := c.ClassifyCell(cx, cz), c.ClassifyCell(cx+1, cz)
			if a == b {
				continue
			}
			ax, az = c.FeaturePoint(cx, cz)
			bx, bz = c.FeaturePoint(cx+1, cz)
			clean := true
			for i := 0; i <= 400 && clean; i++ {
				s := float64(i) / 400
				n := c.NearestTwo(ax+(bx-ax)*s, az+(bz-az)*s)
				ids := map[[2]int]bool{{n[0].CellX, n[0].CellZ}: true, {n[1].CellX, n[1].CellZ}: true}
				clean = ids[[2]int{cx, cz}] && ids[[2]int{cx + 1, cz}]
			}
			if clean {
				return ax, az, bx, bz, a.ID, b.ID
			}
		}
	}
	t.Fatal("no clean biome border found")
	return
}

// maxColorDelta is the largest per-channel color difference between any two
// biomes of the registry.
func maxColorDelta(r *Registry) float64 {
	var out float64
	for _, a := range r.All() {
		for _, b := range r.All() {
			for i := range 3 {
				out = math.Max(out, math.Abs(a.Color[i]-b.Color[i]))
			}
		}
	}
	return out
}

func TestBorderSmoothness(t *testing.T) {
	p := DefaultParams()
	p.WarpAmp = 0
	c := NewClassifier(77, DefaultRegistry(), p)

	ax, az, bx, bz, idA, idB := borderPair(t, c)
	limit := (p.MinWeight+0.05)*maxColorDelta(c.Registry()) + 1e-9

	const steps = 400
	changes := 0
	prevDominant := ""
	var prev [3]float64
	for i := 0; i <= steps; i++ {
		s := float64(i) / steps
		m := c.Weights(ax+(bx-ax)*s, az+(bz-az)*s)
		dom := m.Dominant().ID
		if dom != idA && dom != idB {
			t.Fatalf("step %d: dominant %q is neither %q nor %q", i, dom, idA, idB)
		}
		col := m.Blend().Color
		if i > 0 {
			if dom != prevDominant {
				changes++
			}
			for ch := range 3 {
				if d := math.Abs(col[ch] - prev[ch]); d > limit {
					t.Fatalf("step %d: color channel %d jumped %v, limit %v", i, ch, d, limit)
				}
			}
		}
		prevDominant = dom
		prev = [3]float64{col[0], col[1], col[2]}
	}
	if changes != 1 {
		t.Errorf("dominant biome changed %d times between %s and %s, want exactly 1", changes, idA, idB)
	}
}

// Lines run through arbitrary cell layouts with the default warp, including
// junctions of three or more biomes.
func TestWeightsContinuousAlongLines(t *testing.T) {
	c := testClassifier(77)
	p := c.Params()
	colorLimit := p.MinWeight * maxColorDelta(c.Registry())

	const (
		span = 2400.0
		step = 0.25
	)
	type line struct{ x0, z0, dx, dz float64 }
	var lines []line
	for k := range 6 {
		off := -span/2 + float64(k)*span/5
		lines = append(lines, line{-span / 2, off, 1, 0}, line{off, -span / 2, 0, 1})
	}

	for _, l := range lines {
		var prev Mix
		var prevColor [3]float64
		for i := 0; i <= int(span/step); i++ {
			x, z := l.x0+l.dx*float64(i)*step, l.z0+l.dz*float64(i)*step
			m := c.Weights(x, z)
			col := m.Blend().Color
			if prev != nil {
				for _, b := range c.Registry().All() {
					if d := math.Abs(m.Weight(b.ID) - prev.Weight(b.ID)); d > p.MinWeight {
						t.Fatalf("(%v, %v): %s weight jumped by %v\n  before %v\n  after  %v", x, z, b.ID, d, mixString(prev), mixString(m))
					}
				}
				for ch := range 3 {
					if d := math.Abs(col[ch] - prevColor[ch]); d > colorLimit {
						t.Fatalf("(%v, %v): color channel %d jumped by %v, limit %v", x, z, ch, d, colorLimit)
					}
				}
			}
			prev = m
			prevColor = [3]float64{col[0], col[1], col[2]}
		}
	}
}

func mixString(m Mix) string {
	var sb strings.Builder
	for _, e := range m {
		fmt.Fprintf(&sb, "%s=%.3f ", e.Biome.ID, e.Weight)
	}
	return sb.String()
}

func TestMixBlend(t *testing.T) {
	r := DefaultRegistry()
	a, _ := r.ByID("desert")
	b, _ := r.ByID("swamp")
	m := Mix{{Biome: a, Weight: 0.75}, {Biome: b, Weight: 0.25}}

	out := m.Blend()
	if out.ID != "desert" {
		t.Errorf("Blend().ID = %q, want dominant desert", out.ID)
	}
	want := a.Roughness*0.75 + b.Roughness*0.25
	if math.Abs(out.Roughness-want) > 1e-12 {
		t.Errorf("Blend().Roughness = %v, want %v", out.Roughness, want)
	}
	for i := range 3 {
		w := a.Color[i]*0.75 + b.Color[i]*0.25
		if math.Abs(out.Color[i]-w) > 1e-12 {
			t.Errorf("Blend().Color[%d] = %v, want %v", i, out.Color[i], w)
		}
	}
	if m.Weight("swamp") != 0.25 || m.Weight("forest") != 0 {
		t.Errorf("Weight() = %v/%v", m.Weight("swamp"), m.Weight("forest"))
	}
	if a.Roughness == out.Roughness && a.Roughness != b.Roughness {
		t.Error("Blend() modified nothing")
	}

	sorted := Mix{{Biome: b, Weight: 0.25}, {Biome: a, Weight: 0.75}}.Sorted()
	if sorted.Dominant() != a {
		t.Errorf("Sorted().Dominant() = %q, want desert", sorted.Dominant().ID)
	}
	if (Mix{}).Dominant() != nil {
		t.Error("empty Mix should have no dominant biome")
	}
}
