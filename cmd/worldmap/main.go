package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/gen"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/noise"
)

func main() {
	var (
		seed   = flag.String("seed", "planet", "world seed")
		biomes = flag.String("biomes", "", "biome registry YAML (default: built-in)")
		cx     = flag.Int("x", 0, "center column x")
		cz     = flag.Int("z", 0, "center column z")
		size   = flag.Int("size", 512, "image side in pixels")
		step   = flag.Int("step", 1, "columns per pixel")
		out    = flag.String("o", "map.png", "output PNG path")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *size < 1 || *step < 1 {
		fmt.Fprintln(os.Stderr, "error: -size and -step must be positive")
		os.Exit(1)
	}

	opts := []gen.Option{}
	if *biomes != "" {
		reg, err := biome.Load(*biomes)
		if err != nil {
			log.Error("load biome registry", "error", err)
			os.Exit(1)
		}
		opts = append(opts, gen.WithRegistry(reg))
	}
	g := gen.NewFromString(*seed, opts...)

	start := time.Now()
	half := *size * *step / 2
	img := render(g, *cx-half, *cz-half, *size, *step)
	if err := writePNG(*out, img); err != nil {
		log.Error("write map", "error", err)
		os.Exit(1)
	}
	log.Info("map written",
		"path", *out,
		"seed", g.Seed(),
		"size", *size,
		"step", *step,
		"duration", time.Since(start),
	)
}

// render draws a size×size top-down view whose top-left pixel is column
// (x0, z0). Columns below the water line take the water color.
func render(g *gen.Generator, x0, z0, size, step int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for py := range size {
		eg.Go(func() error {
			for px := range size {
				col := g.Column(x0+px*step, z0+py*step)
				c := col.Color
				if col.Water {
					c = col.WaterColor
				}
				img.SetRGBA(px, py, toRGBA(c))
			}
			return nil
		})
	}
	_ = eg.Wait()
	return img
}

func toRGBA(c mgl64.Vec3) color.RGBA {
	ch := func(v float64) uint8 {
		return uint8(math.Round(noise.Clamp01(v) * 255))
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: 255}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
