package gen

import (
	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

const (
	clusterSize     = 6    // side of a vegetation patch cell
	clusterCoverage = 0.3  // fraction of patch cells that carry props
	propDensity     = 0.05 // per-column chance inside a patch, before wetness
	icyProps        = 0.7  // ice factor above which glacier props are used
)

// VegetationAt returns the ambient prop rooted at (x, z), or nil. Props are
// placed per column and clustered into patches.
func (g *Generator) VegetationAt(x, z, h int) []Block {
	if h <= WaterLevel+1 {
		return nil
	}
	if g.cluster.Hash01(noise.FloorDiv(x, clusterSize), noise.FloorDiv(z, clusterSize)) < 1-clusterCoverage {
		return nil
	}
	fx, fz := float64(x), float64(z)
	b := g.BiomeAt(fx, fz)
	if g.scatter.Hash01(x, z) >= propDensity*(0.5+b.Wetness) {
		return nil
	}
	if g.RiverFactor(fx, fz) > 0.25 || g.RavineFactor(fx, fz) > 0.2 {
		return nil
	}

	profile := b.Profile
	if g.IceFactor(fx, fz, float64(h)) > icyProps {
		profile = biome.ProfileGlacier
	}
	s := newShape(noise.NewRNG(g.seed, x, z, saltVegetation), 1)
	buildProp(s, profile)
	return s.result()
}

func buildProp(s *shape, p biome.Profile) {
	r := s.rng
	switch p {
	case biome.ProfileForest:
		if r.Chance(0.7) {
			alienTree(s)
		} else {
			shrub(s)
		}
	case biome.ProfilePlains:
		if r.Chance(0.35) {
			alienTree(s)
		} else {
			shrub(s)
		}
	case biome.ProfileSwamp:
		if r.Chance(0.5) {
			mushroom(s)
		} else {
			s.column(0, 0, 1, r.Range(1, 2), TypeGlowFungus)
		}
	case biome.ProfileMountains, biome.ProfileVolcanic:
		typ := TypeCrystal
		if r.Chance(0.5) {
			typ = TypeCrystal2
		}
		s.column(0, 0, 1, r.Range(1, 3), typ)
	case biome.ProfileGlacier:
		if r.Chance(0.6) {
			s.column(0, 0, 1, r.Range(2, 5), TypeIceSpire)
		} else {
			s.set(0, 1, 0, TypeIceCore)
			s.set(0, 2, 0, TypeIce)
		}
	default:
		if r.Chance(0.8) {
			shrub(s)
		} else {
			s.column(0, 0, 1, r.Range(2, 4), TypeMonolith)
		}
	}
}

func alienTree(s *shape) {
	r := s.rng
	trunk := r.Range(3, 5)
	s.column(0, 0, 1, trunk, TypeTrunk)
	radius := r.Range(1, 2)
	for dy := 0; dy <= radius; dy++ {
		rad := radius - dy
		for dz := -rad; dz <= rad; dz++ {
			for dx := -rad; dx <= rad; dx++ {
				if rad == 2 && abs(dx) == 2 && abs(dz) == 2 {
					continue
				}
				s.set(dx, trunk+1+dy, dz, TypeLeaf)
			}
		}
	}
}

func shrub(s *shape) {
	s.column(0, 0, 1, s.rng.Range(1, 2), TypeShrub)
}

func mushroom(s *shape) {
	r := s.rng
	stem := r.Range(2, 4)
	s.column(0, 0, 1, stem, TypeStem)
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			s.set(dx, stem+1, dz, TypeCap)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
