package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/OCharnyshevich/voxel-planet/internal/server/world"
	"github.com/OCharnyshevich/voxel-planet/pkg/world/gen"
)

// ErrHubClosed is returned for connections arriving after Close.
var ErrHubClosed = errors.New("stream hub closed")

// Options configures every session of a Hub.
type Options struct {
	World            world.Options
	CompressionLevel int
	// AllowedOrigins are the browser origins admitted besides the serving
	// host itself. "*" admits any origin.
	AllowedOrigins []string
}

// Hub upgrades stream connections and tracks the live sessions. All
// sessions share one generator; each owns its own chunk residency.
type Hub struct {
	gen      *gen.Generator
	opts     Options
	codec    *world.Codec
	log      *slog.Logger
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	closed   bool
}

// NewHub creates a Hub streaming chunks of g.
func NewHub(g *gen.Generator, opts Options, log *slog.Logger) (*Hub, error) {
	codec, err := world.NewCodec(opts.CompressionLevel)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		gen:   g,
		opts:  opts,
		codec: codec,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[uuid.UUID]*Session),
	}, nil
}

// ServeHTTP upgrades the request and runs the session until the client
// disconnects or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade", "remote", r.RemoteAddr, "error", err)
		return
	}

	s := newSession(h, conn)
	if err := h.add(s); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}
	defer h.remove(s)

	h.log.Info("session opened", "session", s.ID, "remote", r.RemoteAddr)
	err = s.run(h.ctx)
	h.log.Info("session closed",
		"session", s.ID,
		"chunks", s.world.Len(),
		"reason", closeReason(err),
	)
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Session returns a live session by id.
func (h *Hub) Session(id uuid.UUID) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Close ends every session and waits for them to finish.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	h.cancel()
	h.wg.Wait()
	h.codec.Close()
}

func (h *Hub) add(s *Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	h.sessions[s.ID] = s
	h.wg.Add(1)
	return nil
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
	h.wg.Done()
}

// originChecker admits requests without an Origin header (non-browser
// clients) and pages served from the requested host. Other origins must be
// listed.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.ToLower(strings.TrimSuffix(o, "/"))] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set["*"] || set[strings.ToLower(origin)] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

func closeReason(err error) string {
	switch {
	case err == nil:
		return "done"
	case errors.Is(err, context.Canceled):
		return "shutdown"
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		return "client closed"
	}
	return fmt.Sprint(err)
}
