package world

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var chunkMagic = [4]byte{'V', 'P', 'C', '1'}

// maxDecodedChunk caps the decompressed size of a single chunk payload.
const maxDecodedChunk = 64 << 20

var errShortPayload = errors.New("chunk payload truncated")

// Codec serializes chunks into the zstd-compressed binary wire format. A
// Codec is safe for concurrent use.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec creates a codec compressing at the given zstd speed level
// (1 fastest to 4 best compression).
func NewCodec(level int) (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevel(level)), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxDecodedChunk))
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// Close releases the codec's compression state.
func (c *Codec) Close() {
	_ = c.enc.Close()
	c.dec.Close()
}

var (
	defaultCodecOnce sync.Once
	defaultCodec     *Codec
)

func sharedCodec() *Codec {
	defaultCodecOnce.Do(func() {
		c, err := NewCodec(int(zstd.SpeedFastest))
		if err != nil {
			panic(err)
		}
		defaultCodec = c
	})
	return defaultCodec
}

// EncodeChunk serializes c with the shared fastest-level codec.
func EncodeChunk(c *Chunk) ([]byte, error) {
	return sharedCodec().Encode(c)
}

// DecodeChunk reverses EncodeChunk.
func DecodeChunk(data []byte) (*Chunk, error) {
	return sharedCodec().Decode(data)
}

// Encode writes the chunk as a little-endian payload and compresses it:
//
//	magic "VPC1"
//	int32 chunk x, int32 chunk z, uint16 size
//	size² × int16 heights
//	size² × RGB surface colors, size² × RGB water colors
//	size² × uint8 surface material ids, size² × uint8 water flags
//	uint8 biome count, biome ids (uint8 length + bytes), size² × uint8 indices
//	uint8 block type count, type names, uint32 block count,
//	blocks as int32 x, int16 y, int32 z, uint8 type index
func (c *Codec) Encode(ch *Chunk) ([]byte, error) {
	n := ch.Size * ch.Size
	if ch.Size <= 0 || ch.Size > math.MaxUint16 {
		return nil, fmt.Errorf("encode chunk %v: invalid size %d", ch.Pos, ch.Size)
	}
	if len(ch.Heights) != n || len(ch.Colors) != n || len(ch.WaterColors) != n ||
		len(ch.Biomes) != n || len(ch.Surface) != n || len(ch.Water) != n {
		return nil, fmt.Errorf("encode chunk %v: column data does not match size %d", ch.Pos, ch.Size)
	}

	biomes, biomeIdx, err := palette(ch.Biomes)
	if err != nil {
		return nil, fmt.Errorf("encode chunk %v biomes: %w", ch.Pos, err)
	}
	types := make([]string, len(ch.Blocks))
	for i, b := range ch.Blocks {
		types[i] = b.Type
	}
	blockTypes, blockIdx, err := palette(types)
	if err != nil {
		return nil, fmt.Errorf("encode chunk %v blocks: %w", ch.Pos, err)
	}

	buf := make([]byte, 0, 14+n*10+len(ch.Blocks)*11)
	buf = append(buf, chunkMagic[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(ch.Pos.X)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(ch.Pos.Z)))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(ch.Size))
	for _, h := range ch.Heights {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(h))
	}
	for _, rgb := range ch.Colors {
		buf = append(buf, rgb[:]...)
	}
	for _, rgb := range ch.WaterColors {
		buf = append(buf, rgb[:]...)
	}
	buf = append(buf, ch.Surface...)
	for _, w := range ch.Water {
		if w {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	buf = appendStrings(buf, biomes)
	buf = append(buf, biomeIdx...)
	buf = appendStrings(buf, blockTypes)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ch.Blocks)))
	for i, b := range ch.Blocks {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(b.X)))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(b.Y)))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(b.Z)))
		buf = append(buf, blockIdx[i])
	}

	return c.enc.EncodeAll(buf, nil), nil
}

// Decode decompresses and parses a payload produced by Encode.
func (c *Codec) Decode(data []byte) (*Chunk, error) {
	raw, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress chunk: %w", err)
	}

	r := &reader{buf: raw}
	var magic [4]byte
	copy(magic[:], r.bytes(4))
	if r.err == nil && magic != chunkMagic {
		return nil, fmt.Errorf("decode chunk: bad magic %q", magic[:])
	}

	ch := &Chunk{}
	ch.Pos.X = int(int32(r.u32()))
	ch.Pos.Z = int(int32(r.u32()))
	ch.Size = int(r.u16())
	if r.err != nil {
		return nil, fmt.Errorf("decode chunk header: %w", r.err)
	}
	if ch.Size == 0 {
		return nil, errors.New("decode chunk: zero size")
	}
	n := ch.Size * ch.Size
	if n*10 > len(raw) {
		return nil, fmt.Errorf("decode chunk %v: %w", ch.Pos, errShortPayload)
	}

	ch.Heights = make([]int16, n)
	for i := range ch.Heights {
		ch.Heights[i] = int16(r.u16())
	}
	ch.Colors = r.rgb(n)
	ch.WaterColors = r.rgb(n)
	ch.Surface = append([]uint8(nil), r.bytes(n)...)
	ch.Water = make([]bool, n)
	for i, v := range r.bytes(n) {
		ch.Water[i] = v != 0
	}

	biomes := r.strings()
	ch.Biomes = make([]string, n)
	for i, idx := range r.bytes(n) {
		if int(idx) >= len(biomes) {
			return nil, fmt.Errorf("decode chunk %v: biome index %d out of range", ch.Pos, idx)
		}
		ch.Biomes[i] = biomes[idx]
	}

	types := r.strings()
	count := int(r.u32())
	if r.err != nil {
		return nil, fmt.Errorf("decode chunk %v: %w", ch.Pos, r.err)
	}
	if count*11 > len(raw)-r.off {
		return nil, fmt.Errorf("decode chunk %v blocks: %w", ch.Pos, errShortPayload)
	}
	ch.Blocks = make([]Block, 0, count)
	for range count {
		b := Block{X: int(int32(r.u32())), Y: int(int16(r.u16())), Z: int(int32(r.u32()))}
		idx := r.u8()
		if r.err != nil {
			break
		}
		if int(idx) >= len(types) {
			return nil, fmt.Errorf("decode chunk %v: block type index %d out of range", ch.Pos, idx)
		}
		b.Type = types[idx]
		ch.Blocks = append(ch.Blocks, b)
	}
	if r.err != nil {
		return nil, fmt.Errorf("decode chunk %v: %w", ch.Pos, r.err)
	}
	if len(ch.Blocks) == 0 {
		ch.Blocks = nil
	}
	return ch, nil
}

// palette maps values to a table of distinct entries in first-seen order and
// a per-value index into it.
func palette(values []string) ([]string, []uint8, error) {
	var table []string
	seen := make(map[string]uint8)
	idx := make([]uint8, len(values))
	for i, v := range values {
		j, ok := seen[v]
		if !ok {
			if len(table) == math.MaxUint8 {
				return nil, nil, fmt.Errorf("more than %d distinct entries", math.MaxUint8)
			}
			if len(v) > math.MaxUint8 {
				return nil, nil, fmt.Errorf("entry %q too long", v)
			}
			j = uint8(len(table))
			seen[v] = j
			table = append(table, v)
		}
		idx[i] = j
	}
	return table, idx, nil
}

// appendStrings writes a uint8 count followed by length-prefixed strings.
func appendStrings(buf []byte, s []string) []byte {
	buf = append(buf, uint8(len(s)))
	for _, v := range s {
		buf = append(buf, uint8(len(v)))
		buf = append(buf, v...)
	}
	return buf
}

type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.buf) {
		r.err = errShortPayload
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.bytes(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) rgb(n int) [][3]uint8 {
	b := r.bytes(3 * n)
	if b == nil {
		return nil
	}
	out := make([][3]uint8, n)
	for i := range out {
		copy(out[i][:], b[3*i:])
	}
	return out
}

func (r *reader) strings() []string {
	n := int(r.u8())
	out := make([]string, 0, n)
	for range n {
		l := int(r.u8())
		b := r.bytes(l)
		if r.err != nil {
			return nil
		}
		out = append(out, string(b))
	}
	return out
}
