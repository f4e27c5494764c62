package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/voxel-planet/internal/server/stream"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/gen"
)

// ColumnReport describes one world column.
type ColumnReport struct {
	X          int           `json:"x"`
	Z          int           `json:"z"`
	Height     int           `json:"height"`
	Biome      string        `json:"biome"`
	Weights    []BiomeWeight `json:"weights"`
	Color      mgl64.Vec3    `json:"color"`
	WaterColor mgl64.Vec3    `json:"water_color"`
	Surface    string        `json:"surface"`
	Water      bool          `json:"water"`
	River      float64       `json:"river"`
	Ravine     float64       `json:"ravine"`
	Ice        float64       `json:"ice"`
	Blocks     []gen.Block   `json:"blocks"`
}

// BiomeWeight is one entry of a column's biome mix.
type BiomeWeight struct {
	Biome  string  `json:"biome"`
	Weight float64 `json:"weight"`
}

type apiError struct {
	Error string `json:"error"`
}

// Column builds the report for column (x, z).
func Column(g *gen.Generator, x, z int) ColumnReport {
	col := g.Column(x, z)
	fx, fz := float64(x), float64(z)

	mix := g.BiomeMixAt(fx, fz).Weights.Sorted()
	weights := make([]BiomeWeight, len(mix))
	for i, w := range mix {
		weights[i] = BiomeWeight{Biome: w.Biome.ID, Weight: w.Weight}
	}
	return ColumnReport{
		X:          x,
		Z:          z,
		Height:     col.Height,
		Biome:      col.Biome.ID,
		Weights:    weights,
		Color:      col.Color,
		WaterColor: col.WaterColor,
		Surface:    col.Surface.Name,
		Water:      col.Water,
		River:      g.RiverFactor(fx, fz),
		Ravine:     g.RavineFactor(fx, fz),
		Ice:        g.IceFactor(fx, fz, float64(col.Height)),
		Blocks:     g.TreeAt(x, z, col.Height),
	}
}

func (s *Server) handleColumn(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	z, errZ := strconv.Atoi(r.URL.Query().Get("z"))
	if errX != nil || errZ != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "x and z must be integers"})
		return
	}
	writeJSON(w, http.StatusOK, Column(s.gen, x, z))
}

func (s *Server) handlePalette(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.TreeColors())
}

func (s *Server) handleBiomes(w http.ResponseWriter, _ *http.Request) {
	reg := s.gen.Registry()
	resp := struct {
		Default string             `json:"default"`
		Biomes  []stream.BiomeInfo `json:"biomes"`
	}{
		Default: reg.Default().ID,
		Biomes:  stream.Biomes(reg),
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
