package gen

import (
	"math"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

const (
	// StructureCellSize is the side of the coarse placement grid. Each cell
	// has exactly one anchor column that may host a structure.
	StructureCellSize = 48

	anchorMargin     = 6
	structureChance  = 0.35
	spawnBoostRadius = 256.0
	spawnBoostChance = 0.9
	iceThreshold     = 0.6
	iceGateChance    = 0.5

	saltStructure  = 0x5f3759df
	saltVegetation = 0x2545f491
)

// Block is one voxel of a structure or prop. X and Z are offsets from the
// anchor column; Y is relative to its surface voxel, so Y=1 is the first
// layer above ground.
type Block struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Z    int    `json:"z"`
	Type string `json:"type"`
}

// Anchor returns the anchor column of structure cell (cellX, cellZ).
func (g *Generator) Anchor(cellX, cellZ int) (x, z int) {
	span := StructureCellSize - 2*anchorMargin
	ox := min(int(g.anchorX.Hash01(cellX, cellZ)*float64(span)), span-1)
	oz := min(int(g.anchorZ.Hash01(cellX, cellZ)*float64(span)), span-1)
	return cellX*StructureCellSize + anchorMargin + ox, cellZ*StructureCellSize + anchorMargin + oz
}

// IsAnchor reports whether (x, z) is the anchor column of its cell.
func (g *Generator) IsAnchor(x, z int) bool {
	ax, az := g.Anchor(noise.FloorDiv(x, StructureCellSize), noise.FloorDiv(z, StructureCellSize))
	return ax == x && az == z
}

// StructureKindAt decides which structure, if any, is rooted at column
// (x, z) with surface height h.
func (g *Generator) StructureKindAt(x, z, h int) (biome.StructureKind, bool) {
	if h <= WaterLevel+1 || !g.IsAnchor(x, z) {
		return "", false
	}
	fx, fz := float64(x), float64(z)
	if g.RiverFactor(fx, fz) > 0.3 || g.RavineFactor(fx, fz) > 0.2 {
		return "", false
	}

	cx, cz := noise.FloorDiv(x, StructureCellSize), noise.FloorDiv(z, StructureCellSize)
	chance := structureChance
	if d := math.Hypot(fx, fz); d < spawnBoostRadius {
		chance = noise.Lerp(spawnBoostChance, structureChance, d/spawnBoostRadius)
	}
	if g.spawn.Hash01(cx, cz) >= chance {
		return "", false
	}

	if g.IceFactor(fx, fz, float64(h)) > iceThreshold && g.iceGate.Hash01(cx, cz) < iceGateChance {
		return biome.StructureIceFormation, true
	}

	weights := g.BiomeAt(fx, fz).Structures
	total := weights.Total()
	if total <= 0 {
		return "", false
	}
	return weights.Select(g.pick.Hash01(cx, cz) * total)
}

// StructureAt returns the blocks of the structure rooted at (x, z), or nil.
// Only a cell's anchor column ever hosts a structure.
func (g *Generator) StructureAt(x, z, h int) []Block {
	kind, ok := g.StructureKindAt(x, z, h)
	if !ok {
		return nil
	}
	return buildStructure(kind, noise.NewRNG(g.seed, x, z, saltStructure))
}

// TreeAt returns the structure or ambient prop rooted at (x, z), or nil.
func (g *Generator) TreeAt(x, z, h int) []Block {
	if blocks := g.StructureAt(x, z, h); blocks != nil {
		return blocks
	}
	return g.VegetationAt(x, z, h)
}

// buildStructure expands a structure kind into blocks using one of its
// styles, all drawn from r.
func buildStructure(kind biome.StructureKind, r *noise.RNG) []Block {
	var style func(*shape)
	scale := 1.0
	switch kind {
	case biome.StructureRuin:
		style = ruinStyles[r.Intn(len(ruinStyles))]
	case biome.StructureSpire:
		style = spireStyles[r.Intn(len(spireStyles))]
	case biome.StructureMonolith:
		style = spireObelisk
	case biome.StructureCrystal:
		style = crystalStyles[r.Intn(len(crystalStyles))]
		scale = 0.6
	case biome.StructureCrystalCluster:
		style = crystalStyles[r.Intn(len(crystalStyles))]
	case biome.StructureIceFormation:
		style = iceStyles[r.Intn(len(iceStyles))]
	default:
		return nil
	}
	s := newShape(r, scale)
	style(s)
	return s.result()
}

// shape accumulates blocks for one builder. Later writes to the same
// position replace earlier ones.
type shape struct {
	rng    *noise.RNG
	scale  float64
	blocks []Block
	index  map[[3]int]int
}

func newShape(r *noise.RNG, scale float64) *shape {
	return &shape{rng: r, scale: scale, index: make(map[[3]int]int)}
}

func (s *shape) set(x, y, z int, typ string) {
	if y < 1 {
		return
	}
	k := [3]int{x, y, z}
	if i, ok := s.index[k]; ok {
		s.blocks[i].Type = typ
		return
	}
	s.index[k] = len(s.blocks)
	s.blocks = append(s.blocks, Block{X: x, Y: y, Z: z, Type: typ})
}

func (s *shape) has(x, y, z int) bool {
	_, ok := s.index[[3]int{x, y, z}]
	return ok
}

// disc fills a horizontal disc of radius r at height y.
func (s *shape) disc(cx, y, cz int, r float64, typ string) {
	ri := int(math.Ceil(r))
	for dz := -ri; dz <= ri; dz++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dz*dz) <= r*r+0.25 {
				s.set(cx+dx, y, cz+dz, typ)
			}
		}
	}
}

func (s *shape) column(x, z, y0, height int, typ string) {
	for y := y0; y < y0+height; y++ {
		s.set(x, y, z, typ)
	}
}

// n scales a size by the shape scale, never below 1.
func (s *shape) n(v int) int {
	return max(int(math.Round(float64(v)*s.scale)), 1)
}

func (s *shape) result() []Block {
	return s.blocks
}
