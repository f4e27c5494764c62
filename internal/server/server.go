package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/OCharnyshevich/voxel-planet/internal/server/config"
	"github.com/OCharnyshevich/voxel-planet/internal/server/stream"
	"github.com/OCharnyshevich/voxel-planet/internal/server/world"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/gen"
)

const shutdownTimeout = 5 * time.Second

// Server serves the chunk stream and the query API over HTTP.
type Server struct {
	cfg *config.Config
	log *slog.Logger
	gen *gen.Generator
	hub *stream.Hub
}

// New creates a Server with the given config and logger. The biome
// registry is read from cfg.BiomesFile, or the embedded default is used.
func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	reg := biome.DefaultRegistry()
	if cfg.BiomesFile != "" {
		var err error
		if reg, err = biome.Load(cfg.BiomesFile); err != nil {
			return nil, err
		}
		log.Info("biome registry loaded", "path", cfg.BiomesFile, "biomes", reg.Len())
	}

	g := gen.NewFromString(cfg.Seed, gen.WithRegistry(reg))
	hub, err := stream.NewHub(g, stream.Options{
		World: world.Options{
			ChunkSize:       cfg.ChunkSize,
			ViewDistance:    cfg.ViewDistance,
			PlateRadius:     cfg.PlateRadius,
			ChunksPerUpdate: cfg.ChunksPerUpdate,
			Workers:         cfg.Workers,
		},
		CompressionLevel: cfg.CompressionLevel,
		AllowedOrigins:   cfg.AllowedOrigins,
	}, log)
	if err != nil {
		return nil, err
	}

	return &Server{cfg: cfg, log: log, gen: g, hub: hub}, nil
}

// Generator returns the shared world generator.
func (s *Server) Generator() *gen.Generator {
	return s.gen
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("GET /api/column", s.handleColumn)
	mux.HandleFunc("GET /api/palette", s.handlePalette)
	mux.HandleFunc("GET /api/biomes", s.handleBiomes)
	return mux
}

// Start begins listening for connections and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve handles requests on listener until the context is cancelled, then
// closes every stream session and shuts the HTTP server down.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("server started",
		"addr", listener.Addr().String(),
		"seed", s.cfg.Seed,
		"numericSeed", s.gen.Seed(),
		"chunkSize", s.cfg.ChunkSize,
		"viewDistance", s.cfg.ViewDistance,
		"plateRadius", s.cfg.PlateRadius,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
