package world

import (
	"reflect"
	"strings"
	"testing"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/gen"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

func TestChunkPosAt(t *testing.T) {
	tests := []struct {
		x, z float64
		want ChunkPos
	}{
		{0, 0, ChunkPos{0, 0}},
		{31.9, 31.9, ChunkPos{0, 0}},
		{32, 0, ChunkPos{1, 0}},
		{-0.5, -1, ChunkPos{-1, -1}},
		{-32, -33, ChunkPos{-1, -2}},
	}
	for _, tt := range tests {
		if got := ChunkPosAt(tt.x, tt.z, 32); got != tt.want {
			t.Errorf("ChunkPosAt(%v,%v) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
}

func TestBuildChunkMatchesGenerator(t *testing.T) {
	g := gen.New(7)
	c := BuildChunk(g, ChunkPos{1, -2}, 8)

	ox, oz := c.Origin()
	if ox != 8 || oz != -16 {
		t.Fatalf("Origin() = (%d,%d), want (8,-16)", ox, oz)
	}
	for lz := range c.Size {
		for lx := range c.Size {
			i := c.Index(lx, lz)
			col := g.Column(ox+lx, oz+lz)
			if int(c.Heights[i]) != col.Height {
				t.Fatalf("height at (%d,%d) = %d, want %d", lx, lz, c.Heights[i], col.Height)
			}
			if c.Biomes[i] != col.Biome.ID {
				t.Fatalf("biome at (%d,%d) = %s, want %s", lx, lz, c.Biomes[i], col.Biome.ID)
			}
			if int(c.Surface[i]) != col.Surface.ID {
				t.Fatalf("surface at (%d,%d) = %d, want %d", lx, lz, c.Surface[i], col.Surface.ID)
			}
			if c.Water[i] != (col.Height < gen.WaterLevel) {
				t.Fatalf("water flag at (%d,%d) = %v for height %d", lx, lz, c.Water[i], col.Height)
			}
		}
	}
}

// structureChunk finds a chunk near spawn whose columns root a structure.
func structureChunk(t *testing.T, g *gen.Generator, size int) (ChunkPos, [3]int) {
	t.Helper()
	for cz := -5; cz <= 4; cz++ {
		for cx := -5; cx <= 4; cx++ {
			x, z := g.Anchor(cx, cz)
			h := g.Height(float64(x), float64(z))
			if g.StructureAt(x, z, h) != nil {
				return ChunkPos{noise.FloorDiv(x, size), noise.FloorDiv(z, size)}, [3]int{x, z, h}
			}
		}
	}
	t.Fatal("no structure near spawn")
	return ChunkPos{}, [3]int{}
}

func TestBuildChunkOwnsRootedBlocks(t *testing.T) {
	g := gen.New(3)
	const size = 16
	pos, anchor := structureChunk(t, g, size)

	c := BuildChunk(g, pos, size)
	ox, oz := c.Origin()
	want := 0
	for lz := range size {
		for lx := range size {
			want += len(g.TreeAt(ox+lx, oz+lz, int(c.Heights[c.Index(lx, lz)])))
		}
	}
	if len(c.Blocks) != want {
		t.Fatalf("chunk %v holds %d blocks, its columns root %d", pos, len(c.Blocks), want)
	}

	have := make(map[Block]bool, len(c.Blocks))
	for _, b := range c.Blocks {
		have[b] = true
	}
	for _, b := range g.StructureAt(anchor[0], anchor[1], anchor[2]) {
		wb := Block{X: anchor[0] + b.X, Y: anchor[2] + b.Y, Z: anchor[1] + b.Z, Type: b.Type}
		if !have[wb] {
			t.Fatalf("structure block %+v missing from anchor chunk %v", wb, pos)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := gen.New(3)
	pos, _ := structureChunk(t, g, 16)
	c := BuildChunk(g, pos, 16)
	if len(c.Blocks) == 0 {
		t.Fatal("test chunk has no blocks")
	}

	data, err := EncodeChunk(c)
	if err != nil {
		t.Fatalf("EncodeChunk: %v", err)
	}
	got, err := DecodeChunk(data)
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Fatalf("decoded chunk differs:\n got %+v\nwant %+v", got.Pos, c.Pos)
	}
}

func TestCodecLevels(t *testing.T) {
	c := BuildChunk(gen.New(11), ChunkPos{-3, 2}, 12)
	for level := 1; level <= 4; level++ {
		codec, err := NewCodec(level)
		if err != nil {
			t.Fatalf("NewCodec(%d): %v", level, err)
		}
		data, err := codec.Encode(c)
		if err != nil {
			t.Fatalf("level %d: Encode: %v", level, err)
		}
		got, err := codec.Decode(data)
		if err != nil {
			t.Fatalf("level %d: Decode: %v", level, err)
		}
		if !reflect.DeepEqual(got.Heights, c.Heights) || !reflect.DeepEqual(got.Biomes, c.Biomes) {
			t.Fatalf("level %d: round trip lost column data", level)
		}
		codec.Close()
	}
}

func TestEncodeRejectsMismatchedChunk(t *testing.T) {
	c := BuildChunk(gen.New(1), ChunkPos{}, 4)
	c.Heights = c.Heights[:3]
	if _, err := EncodeChunk(c); err == nil {
		t.Error("EncodeChunk accepted truncated heights")
	}
	if _, err := EncodeChunk(&Chunk{}); err == nil {
		t.Error("EncodeChunk accepted a zero-size chunk")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeChunk([]byte("not zstd")); err == nil {
		t.Error("DecodeChunk accepted uncompressed input")
	}

	codec := sharedCodec()
	if _, err := DecodeChunk(codec.enc.EncodeAll([]byte("XXXXpayload"), nil)); err == nil ||
		!strings.Contains(err.Error(), "magic") {
		t.Errorf("bad magic error = %v", err)
	}

	data, err := EncodeChunk(BuildChunk(gen.New(1), ChunkPos{}, 4))
	if err != nil {
		t.Fatal(err)
	}
	raw, err := codec.dec.DecodeAll(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, cut := range []int{2, 10, 40, len(raw) - 1} {
		if _, err := DecodeChunk(codec.enc.EncodeAll(raw[:cut], nil)); err == nil {
			t.Errorf("DecodeChunk accepted a payload truncated to %d bytes", cut)
		}
	}
}
