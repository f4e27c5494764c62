package gen

import "math"

var iceStyles = []func(*shape){iceSheet, iceSpikes, iceArch}

// iceSheet is a flat elliptical sheet with scattered bumps.
func iceSheet(s *shape) {
	r := s.rng
	a := float64(r.Range(4, 7))
	b := float64(r.Range(3, 6))
	ai, bi := int(a), int(b)
	for dz := -bi; dz <= bi; dz++ {
		for dx := -ai; dx <= ai; dx++ {
			fx, fz := float64(dx)/a, float64(dz)/b
			if fx*fx+fz*fz > 1 {
				continue
			}
			s.set(dx, 1, dz, TypePackedIce)
			if r.Chance(0.3) {
				s.set(dx, 2, dz, TypeIce)
			}
		}
	}
}

// iceSpikes is a field of tall ice spires on icy footings.
func iceSpikes(s *shape) {
	r := s.rng
	s.column(0, 0, 1, r.Range(5, 8), TypeIceSpire)
	for range r.Range(3, 6) {
		x := r.Range(-4, 4)
		z := r.Range(-4, 4)
		s.set(x, 1, z, TypeIce)
		s.column(x, z, 2, r.Range(2, 7), TypeIceSpire)
	}
}

// iceArch is a thick arch of packed ice with a core at its crown.
func iceArch(s *shape) {
	r := s.rng
	span := r.Range(3, 5)
	height := r.Range(4, 6)
	sf := float64(span)

	for dz := -1; dz <= 1; dz++ {
		s.column(-span, dz, 1, height, TypePackedIce)
		s.column(span, dz, 1, height, TypePackedIce)
		for dx := -span; dx <= span; dx++ {
			bend := int(math.Round(-float64(dx*dx) / (sf * sf) * 1.5))
			top := height + 2 + bend
			s.set(dx, top, dz, TypeIce)
			s.set(dx, top-1, dz, TypePackedIce)
		}
	}
	s.set(0, height+2, 0, TypeIceCore)
}
