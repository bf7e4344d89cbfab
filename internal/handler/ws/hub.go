// Package ws streams snapshots to browsers over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"FinDash/internal/domain/models"
	xlogger "FinDash/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type SnapshotSource interface {
	Snapshot() models.Snapshot
}

type Config struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

// Message is the frame sent to clients.
type Message struct {
	Type     string              `json:"type"` // "snapshot"
	Snapshot models.Snapshot     `json:"snapshot"`
	Outcome  models.CycleOutcome `json:"outcome,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub fans settled snapshots out to every connected client. A client whose buffer is
// full is disconnected rather than allowed to slow the others.
type Hub struct {
	log      *xlogger.Logger
	cfg      Config
	snaps    SnapshotSource
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub(log *xlogger.Logger, snaps SnapshotSource, cfg Config) *Hub {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 8
	}
	return &Hub{
		log:   log.With(xlogger.String("component", "ws")),
		cfg:   cfg,
		snaps: snaps,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/snapshot", h.Serve)
}

// Name and OnSettled make the hub a snapshot sink.
func (h *Hub) Name() string { return "websocket" }

func (h *Hub) OnSettled(_ context.Context, snap models.Snapshot, report models.CycleReport) error {
	b, err := json.Marshal(Message{Type: "snapshot", Snapshot: snap, Outcome: report.Outcome})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	dropped := 0
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			delete(h.clients, c)
			c.close()
			dropped++
		}
	}
	if dropped > 0 {
		h.log.Warn("dropped slow websocket clients", xlogger.Int("count", dropped))
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and blocks until the client goes away.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.Debug("websocket upgrade failed", xlogger.Error(err))
		return nil
	}

	cl := &client{conn: conn, send: make(chan []byte, h.cfg.SendBuffer)}
	first, err := json.Marshal(Message{Type: "snapshot", Snapshot: h.snaps.Snapshot()})
	if err != nil {
		_ = conn.Close()
		return err
	}
	cl.send <- first

	if !h.register(cl) {
		_ = conn.Close()
		return nil
	}
	go h.writePump(cl)
	h.readPump(cl)
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// readPump discards client frames and keeps the read deadline alive on pongs.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	wait := 2 * h.cfg.PingInterval
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(wait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read error", xlogger.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errors.New("hub already closed")
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	return nil
}
