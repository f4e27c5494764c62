package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/voxel-planet/internal/server/world"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/gen"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	maxMessageSize = 4 * 1024
	outQueue       = 64

	// maxCoord bounds camera coordinates so chunk math stays in int range.
	maxCoord = 1 << 30
)

type frame struct {
	binary bool
	data   []byte
}

// Session is one connected client with its own chunk residency.
type Session struct {
	ID uuid.UUID

	hub    *Hub
	conn   *websocket.Conn
	log    *slog.Logger
	world  *world.World
	out    chan frame
	camera chan [2]float64
}

func newSession(h *Hub, conn *websocket.Conn) *Session {
	id := uuid.New()
	log := h.log.With("session", id)
	return &Session{
		ID:     id,
		hub:    h,
		conn:   conn,
		log:    log,
		world:  world.NewWorld(h.gen, h.opts.World, log),
		out:    make(chan frame, outQueue),
		camera: make(chan [2]float64, 1),
	}
}

// World returns the session's residency.
func (s *Session) World() *world.World {
	return s.world
}

// run drives the session until the connection fails or ctx is done.
func (s *Session) run(parent context.Context) error {
	if err := s.queueJSON(s.welcome()); err != nil {
		s.conn.Close()
		return err
	}

	eg, ctx := errgroup.WithContext(parent)
	eg.Go(func() error {
		<-ctx.Done()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
		return s.conn.Close()
	})
	eg.Go(func() error { return s.writeLoop(ctx) })
	eg.Go(func() error { return s.pump(ctx) })
	eg.Go(func() error { return s.readLoop() })

	err := eg.Wait()
	if parent.Err() != nil {
		return parent.Err()
	}
	return err
}

func (s *Session) welcome() Welcome {
	g := s.hub.gen
	opts := s.hub.opts.World
	return Welcome{
		Type:         TypeWelcome,
		Session:      s.ID.String(),
		Seed:         g.Seed(),
		ChunkSize:    opts.ChunkSize,
		WaterLevel:   gen.WaterLevel,
		ViewDistance: opts.ViewDistance,
		PlateRadius:  opts.PlateRadius,
		TreeColors:   g.TreeColors(),
		Biomes:       Biomes(g.Registry()),
	}
}

func (s *Session) readLoop() error {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		typ, data, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		if typ != websocket.TextMessage {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug("bad client message", "error", err)
			continue
		}
		switch msg.Type {
		case TypeCamera:
			if !validCoord(msg.X) || !validCoord(msg.Z) {
				s.log.Debug("camera out of range", "x", msg.X, "z", msg.Z)
				continue
			}
			s.setCamera(msg.X, msg.Z)
		default:
			s.log.Debug("unknown client message", "type", msg.Type)
		}
	}
}

func validCoord(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) < maxCoord
}

// setCamera replaces any camera position not yet picked up by pump.
func (s *Session) setCamera(x, z float64) {
	select {
	case <-s.camera:
	default:
	}
	s.camera <- [2]float64{x, z}
}

// pump applies camera moves to the residency and queues the resulting
// frames. It keeps updating while residency is incomplete.
func (s *Session) pump(ctx context.Context) error {
	var cam [2]float64
	pending := false
	for {
		if pending {
			select {
			case cam = <-s.camera:
			default:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cam = <-s.camera:
			}
		}

		diff, err := s.world.Update(ctx, cam[0], cam[1])
		if err != nil {
			return err
		}
		if err := s.sendDiff(ctx, diff); err != nil {
			return err
		}
		pending = !diff.Empty()
	}
}

func (s *Session) sendDiff(ctx context.Context, diff world.Diff) error {
	if len(diff.Unloaded) > 0 {
		data, err := json.Marshal(newUnload(diff.Unloaded))
		if err != nil {
			return fmt.Errorf("encode unload: %w", err)
		}
		if err := s.send(ctx, frame{data: data}); err != nil {
			return err
		}
	}
	for _, c := range diff.Loaded {
		data, err := s.hub.codec.Encode(c)
		if err != nil {
			return err
		}
		if err := s.send(ctx, frame{binary: true, data: data}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) send(ctx context.Context, f frame) error {
	select {
	case s.out <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) queueJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %T: %w", v, err)
	}
	s.out <- frame{data: data}
	return nil
}

func (s *Session) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-s.out:
			typ := websocket.TextMessage
			if f.binary {
				typ = websocket.BinaryMessage
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(typ, f.data); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("write ping: %w", err)
			}
		}
	}
}
