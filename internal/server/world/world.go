package world

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/gen"
)

// unloadMargin is the number of chunks past the view distance a chunk may
// drift before it is evicted.
const unloadMargin = 2

// Options controls residency of a World.
type Options struct {
	ChunkSize       int
	ViewDistance    int // circular load radius in chunks
	PlateRadius     int // bounded square plate in chunks, 0 = infinite streaming
	ChunksPerUpdate int
	Workers         int
}

// Diff is the residency change produced by one Update.
type Diff struct {
	Loaded   []*Chunk
	Unloaded []ChunkPos
}

// Empty reports whether the diff carries no change.
func (d Diff) Empty() bool {
	return len(d.Loaded) == 0 && len(d.Unloaded) == 0
}

// World tracks the chunks resident around one camera. Chunks are built from
// a shared immutable generator; the World itself only owns residency.
type World struct {
	gen  *gen.Generator
	opts Options
	log  *slog.Logger

	updateMu sync.Mutex

	mu       sync.RWMutex
	chunks   map[ChunkPos]*Chunk
	center   ChunkPos
	settled  bool // center known and every wanted chunk resident
	hasFocus bool
}

// NewWorld creates an empty World over g.
func NewWorld(g *gen.Generator, opts Options, log *slog.Logger) *World {
	if opts.ChunksPerUpdate < 1 {
		opts.ChunksPerUpdate = 1
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &World{
		gen:    g,
		opts:   opts,
		log:    log,
		chunks: make(map[ChunkPos]*Chunk),
	}
}

// Generator returns the world's generator.
func (w *World) Generator() *gen.Generator {
	return w.gen
}

// ChunkSize returns the side of a chunk in columns.
func (w *World) ChunkSize() int {
	return w.opts.ChunkSize
}

// Chunk returns a resident chunk.
func (w *World) Chunk(pos ChunkPos) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[pos]
	return c, ok
}

// Len returns the number of resident chunks.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// Resident returns the positions of all resident chunks, sorted.
func (w *World) Resident() []ChunkPos {
	w.mu.RLock()
	out := make([]ChunkPos, 0, len(w.chunks))
	for pos := range w.chunks {
		out = append(out, pos)
	}
	w.mu.RUnlock()
	slices.SortFunc(out, comparePos)
	return out
}

// Update moves the camera to world position (camX, camZ). When the camera
// stays in the same chunk and residency is complete, nothing happens.
// Otherwise missing chunks are loaded nearest-first, at most
// ChunksPerUpdate of them, and chunks beyond the unload distance are evicted.
func (w *World) Update(ctx context.Context, camX, camZ float64) (Diff, error) {
	w.updateMu.Lock()
	defer w.updateMu.Unlock()

	center := ChunkPosAt(camX, camZ, w.opts.ChunkSize)

	w.mu.RLock()
	unchanged := w.hasFocus && w.settled && center == w.center
	w.mu.RUnlock()
	if unchanged {
		return Diff{}, nil
	}

	missing := w.missing(center)
	batch := missing[:min(len(missing), w.opts.ChunksPerUpdate)]

	start := time.Now()
	built, err := w.build(ctx, batch)
	if err != nil {
		return Diff{}, err
	}
	if len(built) > 0 {
		w.log.Debug("chunks built",
			"count", len(built),
			"remaining", len(missing)-len(built),
			"duration", time.Since(start),
		)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range built {
		w.chunks[c.Pos] = c
	}
	w.center = center
	w.hasFocus = true
	w.settled = len(missing) == len(built)

	return Diff{Loaded: built, Unloaded: w.evict(center)}, nil
}

// Wanted returns the positions that should be resident for a camera in
// chunk center, nearest first.
func (w *World) Wanted(center ChunkPos) []ChunkPos {
	var out []ChunkPos
	if r := w.opts.PlateRadius; r > 0 {
		for z := -r; z <= r; z++ {
			for x := -r; x <= r; x++ {
				out = append(out, ChunkPos{x, z})
			}
		}
	} else {
		r := w.opts.ViewDistance
		for z := center.Z - r; z <= center.Z+r; z++ {
			for x := center.X - r; x <= center.X+r; x++ {
				p := ChunkPos{x, z}
				if dist2(p, center) <= r*r {
					out = append(out, p)
				}
			}
		}
	}
	slices.SortFunc(out, func(a, b ChunkPos) int {
		if c := cmp.Compare(dist2(a, center), dist2(b, center)); c != 0 {
			return c
		}
		return comparePos(a, b)
	})
	return out
}

func (w *World) missing(center ChunkPos) []ChunkPos {
	wanted := w.Wanted(center)
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := wanted[:0]
	for _, p := range wanted {
		if _, ok := w.chunks[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// build generates the chunks at positions in parallel, preserving order.
func (w *World) build(ctx context.Context, positions []ChunkPos) ([]*Chunk, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	out := make([]*Chunk, len(positions))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.opts.Workers)
	for i, pos := range positions {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = BuildChunk(w.gen, pos, w.opts.ChunkSize)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("build chunks: %w", err)
	}
	return out, nil
}

// evict drops chunks past the unload distance. Plate chunks are never
// evicted. Caller holds w.mu.
func (w *World) evict(center ChunkPos) []ChunkPos {
	var out []ChunkPos
	limit := w.opts.ViewDistance + unloadMargin
	for p := range w.chunks {
		if r := w.opts.PlateRadius; r > 0 {
			if abs(p.X) <= r && abs(p.Z) <= r {
				continue
			}
		} else if dist2(p, center) <= limit*limit {
			continue
		}
		delete(w.chunks, p)
		out = append(out, p)
	}
	slices.SortFunc(out, comparePos)
	return out
}

func dist2(a, b ChunkPos) int {
	dx, dz := a.X-b.X, a.Z-b.Z
	return dx*dx + dz*dz
}

func comparePos(a, b ChunkPos) int {
	if c := cmp.Compare(a.Z, b.Z); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
