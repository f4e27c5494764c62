package noise

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Hash32 mixes two lattice coordinates and a seed into a well-distributed
// 32-bit value. All arithmetic is uint32 so products wrap instead of losing
// low-order bits; a float-based multiply here degrades into a near-constant
// hash for large seeds.
func Hash32(seed uint32, x, z int) uint32 {
	h := seed*0x9e3779b1 ^ uint32(x)*0x85ebca77 ^ uint32(z)*0xc2b2ae3d
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

// ParseSeed turns a seed string into the numeric world seed. Decimal and
// 0x-prefixed hex strings are used directly (truncated to 32 bits); any other
// string is hashed with FNV-1a.
func ParseSeed(s string) uint32 {
	t := strings.TrimSpace(s)
	if t != "" {
		if v, err := strconv.ParseInt(t, 0, 64); err == nil {
			return uint32(v)
		}
		if v, err := strconv.ParseUint(t, 0, 64); err == nil {
			return uint32(v)
		}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// RNG is a deterministic sequence generator seeded from a lattice position.
// Structure builders draw all their shape decisions from one RNG so a given
// anchor always reproduces the same blocks.
type RNG struct {
	state int64
}

// NewRNG seeds an RNG from (seed, x, z, salt).
func NewRNG(seed uint32, x, z int, salt uint32) *RNG {
	h := Hash32(seed^salt*0x27d4eb2d, x, z)
	s := int64(h)<<32 | int64(Hash32(h, z, x))
	return &RNG{state: s}
}

func (r *RNG) next() int64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Float returns a value in [0, 1).
func (r *RNG) Float() float64 {
	return float64(uint64(r.next())>>11) / (1 << 53)
}

// Intn returns a value in [0, n). n <= 0 yields 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(uint64(r.next())>>33) % n
	if v < 0 {
		v = -v
	}
	return v
}

// Range returns an integer in [lo, hi].
func (r *RNG) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Chance reports whether a roll in [0, 1) falls below p.
func (r *RNG) Chance(p float64) bool {
	return r.Float() < p
}
