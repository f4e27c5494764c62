package gen

import "math"

var ruinStyles = []func(*shape){ruinRing, ruinPyramid, ruinTemple}

// ruinRing is a broken circular wall with pillars and scattered rubble.
func ruinRing(s *shape) {
	r := s.rng
	radius := r.Range(4, 6)
	rf := float64(radius)

	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			d := math.Hypot(float64(dx), float64(dz))
			if math.Abs(d-rf) >= 0.5 || r.Chance(0.2) {
				continue
			}
			typ := TypeBrick
			if r.Chance(0.3) {
				typ = TypeMossyBrick
			}
			s.column(dx, dz, 1, r.Range(1, 3), typ)
		}
	}

	pillars := r.Range(4, 6)
	tallest, tallestH := 0, 0
	for i := range pillars {
		a := float64(i) * 2 * math.Pi / float64(pillars)
		px := int(math.Round(math.Cos(a) * (rf - 2)))
		pz := int(math.Round(math.Sin(a) * (rf - 2)))
		h := r.Range(3, 6)
		s.column(px, pz, 1, h, TypePillar)
		if h > tallestH {
			tallest, tallestH = i, h
		}
	}
	a := float64(tallest) * 2 * math.Pi / float64(pillars)
	s.set(int(math.Round(math.Cos(a)*(rf-2))), tallestH+1, int(math.Round(math.Sin(a)*(rf-2))), TypeGold)

	for range r.Range(3, 7) {
		x := r.Range(-radius+2, radius-2)
		z := r.Range(-radius+2, radius-2)
		if !s.has(x, 1, z) {
			s.set(x, 1, z, TypeRubble)
		}
	}
}

// ruinPyramid is a stepped pyramid with a glowing capstone.
func ruinPyramid(s *shape) {
	r := s.rng
	levels := r.Range(3, 5)
	half := levels + r.Range(1, 2)

	for i := range levels {
		h := half - i
		for dz := -h; dz <= h; dz++ {
			for dx := -h; dx <= h; dx++ {
				edge := dx == -h || dx == h || dz == -h || dz == h
				typ := TypeBrick
				if edge && r.Chance(0.25) {
					typ = TypeMossyBrick
				}
				s.set(dx, i+1, dz, typ)
			}
		}
	}
	top := levels + 1
	s.set(0, top, 0, TypeGold)
	s.set(0, top+1, 0, TypeGlow)
}

// ruinTemple is a rectangular walled enclosure with corner pillars, a
// doorway and an altar.
func ruinTemple(s *shape) {
	r := s.rng
	w := r.Range(4, 6)
	d := r.Range(5, 8)
	wallH := r.Range(3, 4)

	for dz := -d; dz <= d; dz++ {
		for dx := -w; dx <= w; dx++ {
			if dx != -w && dx != w && dz != -d && dz != d {
				continue
			}
			if dz == -d && dx >= -1 && dx <= 1 {
				continue // doorway
			}
			for y := 1; y <= wallH; y++ {
				if y > 1 && r.Chance(0.15) {
					break
				}
				typ := TypeBrick
				if y == 1 && r.Chance(0.35) {
					typ = TypeMossyBrick
				}
				s.set(dx, y, dz, typ)
			}
		}
	}

	for _, c := range [][2]int{{-w, -d}, {w, -d}, {-w, d}, {w, d}} {
		s.column(c[0], c[1], 1, wallH+1, TypePillar)
	}

	s.set(0, 1, d-2, TypePillar)
	s.set(0, 2, d-2, TypeGold)
	s.set(0, 3, d-2, TypeGlow)
}
