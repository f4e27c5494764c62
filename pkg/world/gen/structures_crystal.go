package gen

import "math"

var crystalStyles = []func(*shape){crystalRadial, crystalColumn, crystalGrotto}

// crystalRadial is a core column with spikes leaning outwards.
func crystalRadial(s *shape) {
	r := s.rng
	s.column(0, 0, 1, s.n(r.Range(5, 8)), TypeCrystalCore)

	spikes := r.Range(5, 8)
	for i := range spikes {
		a := float64(i)*2*math.Pi/float64(spikes) + r.Float()*0.4
		length := s.n(r.Range(3, 6))
		typ := TypeCrystal
		if i%2 == 1 {
			typ = TypeCrystal2
		}
		for t := 1; t <= length; t++ {
			x := int(math.Round(math.Cos(a) * float64(t) * 0.6))
			z := int(math.Round(math.Sin(a) * float64(t) * 0.6))
			s.set(x, t, z, typ)
		}
	}
}

// crystalColumn is a plus-shaped prism ending in a single tip.
func crystalColumn(s *shape) {
	r := s.rng
	height := s.n(r.Range(6, 10))
	for y := 1; y <= height; y++ {
		s.set(0, y, 0, TypeCrystalCore)
		if y <= height-2 {
			for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				s.set(d[0], y, d[1], TypeCrystal2)
			}
		}
	}
	s.set(0, height+1, 0, TypeCrystal)
}

// crystalGrotto is a ring of stalagmites around a glowing pool.
func crystalGrotto(s *shape) {
	r := s.rng
	radius := float64(s.n(4))
	count := r.Range(4, 7)
	for i := range count {
		a := float64(i)*2*math.Pi/float64(count) + r.Float()*0.5
		x := int(math.Round(math.Cos(a) * radius))
		z := int(math.Round(math.Sin(a) * radius))
		h := s.n(r.Range(2, 5))
		for y := 1; y <= h; y++ {
			s.set(x, y, z, TypeCrystal)
			if y == 1 && h > 2 {
				s.set(x+1, y, z, TypeCrystal2)
				s.set(x, y, z+1, TypeCrystal2)
			}
		}
	}
	s.set(0, 1, 0, TypeGlow)
}
