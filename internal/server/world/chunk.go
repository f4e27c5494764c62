package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/gen"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

// ChunkPos is a chunk coordinate on the horizontal grid.
type ChunkPos struct {
	X, Z int
}

// ChunkPosAt returns the chunk containing world column (x, z).
func ChunkPosAt(x, z float64, size int) ChunkPos {
	return ChunkPos{
		X: noise.FloorDiv(noise.FloorInt(x), size),
		Z: noise.FloorDiv(noise.FloorInt(z), size),
	}
}

// Block is a structure or prop voxel in world coordinates.
type Block struct {
	X, Y, Z int
	Type    string
}

// Chunk is a size×size block of columns. Column slices are indexed by
// z*Size + x with x and z local to the chunk.
type Chunk struct {
	Pos         ChunkPos
	Size        int
	Heights     []int16
	Colors      [][3]uint8
	WaterColors [][3]uint8
	Biomes      []string
	Surface     []uint8 // material ids
	Water       []bool
	Blocks      []Block // rooted at columns of this chunk
}

// Origin returns the world coordinate of the chunk's first column.
func (c *Chunk) Origin() (x, z int) {
	return c.Pos.X * c.Size, c.Pos.Z * c.Size
}

// Index returns the column index of local (lx, lz).
func (c *Chunk) Index(lx, lz int) int {
	return lz*c.Size + lx
}

// BuildChunk evaluates every column of the chunk at pos once through g.
// Structures and props are owned by the chunk holding their root column,
// even when their blocks spill into neighbouring chunks.
func BuildChunk(g *gen.Generator, pos ChunkPos, size int) *Chunk {
	n := size * size
	c := &Chunk{
		Pos:         pos,
		Size:        size,
		Heights:     make([]int16, n),
		Colors:      make([][3]uint8, n),
		WaterColors: make([][3]uint8, n),
		Biomes:      make([]string, n),
		Surface:     make([]uint8, n),
		Water:       make([]bool, n),
	}
	ox, oz := c.Origin()
	for lz := range size {
		for lx := range size {
			col := g.Column(ox+lx, oz+lz)
			i := c.Index(lx, lz)
			c.Heights[i] = int16(col.Height)
			c.Colors[i] = rgb(col.Color)
			c.WaterColors[i] = rgb(col.WaterColor)
			c.Biomes[i] = col.Biome.ID
			c.Surface[i] = uint8(col.Surface.ID)
			c.Water[i] = col.Water

			for _, b := range g.TreeAt(col.X, col.Z, col.Height) {
				c.Blocks = append(c.Blocks, Block{
					X:    col.X + b.X,
					Y:    col.Height + b.Y,
					Z:    col.Z + b.Z,
					Type: b.Type,
				})
			}
		}
	}
	return c
}

func rgb(v mgl64.Vec3) [3]uint8 {
	var out [3]uint8
	for i := range out {
		out[i] = uint8(math.Round(noise.Clamp01(v[i]) * 255))
	}
	return out
}
