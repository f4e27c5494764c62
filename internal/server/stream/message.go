package stream

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/voxel-planet/internal/server/world"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
)

// Message types on the text channel.
const (
	TypeWelcome = "welcome"
	TypeCamera  = "camera"
	TypeUnload  = "unload"
)

// Welcome is the first message of every session.
type Welcome struct {
	Type         string                `json:"type"`
	Session      string                `json:"session"`
	Seed         uint32                `json:"seed"`
	ChunkSize    int                   `json:"chunk_size"`
	WaterLevel   int                   `json:"water_level"`
	ViewDistance int                   `json:"view_distance"`
	PlateRadius  int                   `json:"plate_radius"`
	TreeColors   map[string]mgl64.Vec3 `json:"tree_colors"`
	Biomes       []BiomeInfo           `json:"biomes"`
}

// BiomeInfo summarizes one registry entry for clients.
type BiomeInfo struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Profile    string     `json:"profile"`
	Color      mgl64.Vec3 `json:"color"`
	WaterColor mgl64.Vec3 `json:"water_color"`
}

// Biomes lists the registry in registry order.
func Biomes(reg *biome.Registry) []BiomeInfo {
	all := reg.All()
	out := make([]BiomeInfo, len(all))
	for i, b := range all {
		out[i] = BiomeInfo{
			ID:         b.ID,
			Name:       b.Name,
			Profile:    string(b.Profile),
			Color:      b.Color,
			WaterColor: b.WaterColor,
		}
	}
	return out
}

// Unload tells the client to drop chunks.
type Unload struct {
	Type   string   `json:"type"`
	Chunks [][2]int `json:"chunks"`
}

func newUnload(positions []world.ChunkPos) Unload {
	u := Unload{Type: TypeUnload, Chunks: make([][2]int, len(positions))}
	for i, p := range positions {
		u.Chunks[i] = [2]int{p.X, p.Z}
	}
	return u
}

// ClientMessage is any message sent by the client.
type ClientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Z    float64 `json:"z"`
}
