package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCharnyshevich/voxel-planet/internal/server"
	"github.com/OCharnyshevich/voxel-planet/internal/server/config"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "path to a YAML config file")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flag.StringVar(&cfg.Seed, "seed", cfg.Seed, "world seed (number or any string)")
	flag.StringVar(&cfg.BiomesFile, "biomes", cfg.BiomesFile, "biome registry YAML (default: built-in)")
	flag.IntVar(&cfg.ViewDistance, "view-distance", cfg.ViewDistance, "streaming radius in chunks")
	flag.IntVar(&cfg.PlateRadius, "plate-radius", cfg.PlateRadius, "bounded plate radius in chunks (0 = infinite)")
	flag.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "chunk side in columns")
	flag.IntVar(&cfg.ChunksPerUpdate, "chunks-per-update", cfg.ChunksPerUpdate, "chunks built per camera update")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel chunk builders per session")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.IntVar(&cfg.CompressionLevel, "compression-level", cfg.CompressionLevel, "zstd level 1-4")
	flag.Func("allowed-origins", "comma-separated browser origins allowed on /ws (* for any)", func(s string) error {
		cfg.AllowedOrigins = config.ParseOrigins(s)
		return nil
	})
	flag.Parse()

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Error("create server", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
