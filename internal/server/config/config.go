package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	Port             int    `yaml:"port"`
	Seed             string `yaml:"seed"`
	BiomesFile       string `yaml:"biomes_file"`   // empty = embedded default registry
	ViewDistance     int    `yaml:"view_distance"` // chunk radius
	PlateRadius      int    `yaml:"plate_radius"`  // bounded plate in chunks (0 = infinite)
	ChunkSize        int    `yaml:"chunk_size"`
	ChunksPerUpdate  int    `yaml:"chunks_per_update"`
	Workers          int    `yaml:"workers"`
	LogLevel         string `yaml:"log_level"`
	CompressionLevel int    `yaml:"compression_level"` // zstd level, 1 (fastest) to 4 (best)

	// AllowedOrigins lists browser origins (scheme://host[:port]) that may
	// open the stream. Empty admits same-host pages only; "*" admits any.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:             8080,
		Seed:             "planet",
		ViewDistance:     6,
		ChunkSize:        32,
		ChunksPerUpdate:  8,
		Workers:          4,
		LogLevel:         "info",
		CompressionLevel: 1,
	}
}

// Load reads a YAML config file. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["port"] {
		cfg.Port = fromFile.Port
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["biomes"] {
		cfg.BiomesFile = fromFile.BiomesFile
	}
	if !explicitFlags["view-distance"] {
		cfg.ViewDistance = fromFile.ViewDistance
	}
	if !explicitFlags["plate-radius"] {
		cfg.PlateRadius = fromFile.PlateRadius
	}
	if !explicitFlags["chunk-size"] {
		cfg.ChunkSize = fromFile.ChunkSize
	}
	if !explicitFlags["chunks-per-update"] {
		cfg.ChunksPerUpdate = fromFile.ChunksPerUpdate
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
	if !explicitFlags["compression-level"] {
		cfg.CompressionLevel = fromFile.CompressionLevel
	}
	if !explicitFlags["allowed-origins"] {
		cfg.AllowedOrigins = fromFile.AllowedOrigins
	}
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.ViewDistance < 1 {
		errs = append(errs, fmt.Errorf("view_distance must be at least 1, got %d", c.ViewDistance))
	}
	if c.PlateRadius < 0 {
		errs = append(errs, fmt.Errorf("plate_radius must not be negative, got %d", c.PlateRadius))
	}
	if c.ChunkSize < 4 || c.ChunkSize > 256 {
		errs = append(errs, fmt.Errorf("chunk_size must be within [4, 256], got %d", c.ChunkSize))
	}
	if c.ChunksPerUpdate < 1 {
		errs = append(errs, fmt.Errorf("chunks_per_update must be at least 1, got %d", c.ChunksPerUpdate))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.CompressionLevel < 1 || c.CompressionLevel > 4 {
		errs = append(errs, fmt.Errorf("compression_level must be within [1, 4], got %d", c.CompressionLevel))
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			continue
		}
		if u, err := url.Parse(o); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("allowed_origins: %q is not scheme://host[:port]", o))
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseOrigins splits a comma-separated origin list, dropping blanks.
func ParseOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
}
