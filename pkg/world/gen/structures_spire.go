package gen

var spireStyles = []func(*shape){spireTapered, spireTech, spireObelisk}

// spireTapered is a round tower narrowing to a glowing tip.
func spireTapered(s *shape) {
	r := s.rng
	height := s.n(r.Range(10, 16))
	r0 := float64(r.Range(2, 3))

	for y := 1; y <= height; y++ {
		rad := r0 * (1 - float64(y)/float64(height+1))
		typ := TypeSpireStone
		if y%4 == 0 && rad >= 1 {
			typ = TypeGlow
		}
		s.disc(0, y, 0, rad, typ)
	}
	s.set(0, height+1, 0, TypeGlow)
}

// spireTech is a metal core with alternating fins and glow strips.
func spireTech(s *shape) {
	r := s.rng
	height := s.n(r.Range(12, 20))

	s.column(0, 0, 1, height, TypeSpireMetal)
	finEvery := r.Range(2, 4)
	for y := 1; y <= height; y++ {
		switch {
		case y%finEvery == 0:
			for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				s.set(d[0], y, d[1], TypeSpireMetal)
			}
		case y%5 == 0:
			for _, d := range [][2]int{{1, 1}, {-1, -1}, {1, -1}, {-1, 1}} {
				s.set(d[0], y, d[1], TypeGlow)
			}
		}
	}
	s.set(0, height+1, 0, TypeCrystalCore)
}

// spireObelisk is a square plinth carrying a dark shaft with a gilded tip.
func spireObelisk(s *shape) {
	r := s.rng
	plinth := r.Range(1, 2)
	for y := 1; y <= plinth; y++ {
		for dz := -1; dz <= 1; dz++ {
			for dx := -1; dx <= 1; dx++ {
				s.set(dx, y, dz, TypeSpireStone)
			}
		}
	}
	shaft := s.n(r.Range(7, 11))
	s.column(0, 0, plinth+1, shaft, TypeObelisk)
	s.set(0, plinth+shaft+1, 0, TypeGold)
}
