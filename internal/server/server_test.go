package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/OCharnyshevich/voxel-planet/internal/server/config"
	"github.com/OCharnyshevich/voxel-planet/internal/server/stream"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = "api-test"
	cfg.ChunkSize = 8
	cfg.ViewDistance = 1
	s, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.hub.Close()
		ts.Close()
	})
	return s, ts
}

func getJSON(t *testing.T, url string, want int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, want)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("GET %s: content type %q", url, ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("GET %s: decode: %v", url, err)
	}
}

func TestColumnEndpoint(t *testing.T) {
	s, ts := newTestServer(t)

	var got ColumnReport
	getJSON(t, ts.URL+"/api/column?x=12&z=-40", http.StatusOK, &got)

	g := s.Generator()
	if want := g.Height(12, -40); got.Height != want {
		t.Errorf("height = %d, want %d", got.Height, want)
	}
	if want := g.BiomeAt(12, -40).ID; got.Biome != want {
		t.Errorf("biome = %s, want %s", got.Biome, want)
	}
	if len(got.Weights) == 0 || got.Weights[0].Biome != got.Biome {
		t.Errorf("weights %+v do not lead with the dominant biome %s", got.Weights, got.Biome)
	}
	var sum float64
	for _, w := range got.Weights {
		sum += w.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %f", sum)
	}
	if got.Surface == "" {
		t.Error("surface material missing")
	}
	for _, f := range []float64{got.River, got.Ravine, got.Ice} {
		if f < 0 || f > 1 {
			t.Errorf("factor %f out of [0,1]", f)
		}
	}
}

func TestColumnEndpointRejectsBadInput(t *testing.T) {
	_, ts := newTestServer(t)
	for _, q := range []string{"", "?x=1", "?x=a&z=2", "?x=1.5&z=2"} {
		var e apiError
		getJSON(t, ts.URL+"/api/column"+q, http.StatusBadRequest, &e)
		if e.Error == "" {
			t.Errorf("query %q: empty error message", q)
		}
	}
}

func TestPaletteAndBiomes(t *testing.T) {
	s, ts := newTestServer(t)

	var palette map[string][3]float64
	getJSON(t, ts.URL+"/api/palette", http.StatusOK, &palette)
	if len(palette) != len(s.Generator().TreeColors()) {
		t.Errorf("palette has %d entries, want %d", len(palette), len(s.Generator().TreeColors()))
	}

	var biomes struct {
		Default string             `json:"default"`
		Biomes  []stream.BiomeInfo `json:"biomes"`
	}
	getJSON(t, ts.URL+"/api/biomes", http.StatusOK, &biomes)
	reg := biome.DefaultRegistry()
	if biomes.Default != reg.Default().ID || len(biomes.Biomes) != reg.Len() {
		t.Errorf("biomes = %s/%d, want %s/%d", biomes.Default, len(biomes.Biomes), reg.Default().ID, reg.Len())
	}
}

func TestNewLoadsBiomesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biomes.yaml")
	doc := `
default: flat
biomes:
  - id: flat
    profile: plains
    color: "#55aa33"
    climate:
      temperature: { center: 0.5, width: 1 }
      moisture: { center: 0.5, width: 1 }
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.BiomesFile = path
	s, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.hub.Close()
	if id := s.Generator().BiomeAt(100, 100).ID; id != "flat" {
		t.Errorf("BiomeAt = %s, want flat", id)
	}

	cfg.BiomesFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := New(cfg, testLogger()); err == nil {
		t.Error("New with a missing biomes file succeeded")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ChunkSize = 8
	cfg.ViewDistance = 1
	s, err := New(cfg, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "ws://" + ln.Addr().String() + "/ws"
	var conn *websocket.Conn
	for range 50 {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, data, err := conn.ReadMessage(); err != nil || !strings.Contains(string(data), `"welcome"`) {
		t.Fatalf("first frame = %s, %v", data, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("stream session survived shutdown")
	}
}
