// Package stream broadcasts scene snapshots to browser clients over WebSocket.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/scene"
	"github.com/lixenwraith/synapse/status"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1024
	sendBuffer     = 8
	broadcastQueue = 4
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to every connected client
// Slow clients drop frames instead of stalling the scene
type Hub struct {
	session  string
	log      *zap.Logger
	upgrader websocket.Upgrader
	gauge    *atomic.Int64

	mu      sync.RWMutex
	clients map[*client]struct{}
	hello   Hello

	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup

	seq     atomic.Uint64
	dropped atomic.Int64

	// OnInput receives client clicks and pointer moves, called from connection goroutines
	OnInput func(scene.Input)
}

// NewHub starts the hub loop; an empty session gets a fresh id
func NewHub(session string, reg *status.Registry, log *zap.Logger) *Hub {
	if session == "" {
		session = uuid.NewString()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	h := &Hub{
		session: session,
		log:     log,
		gauge:   reg.Counters.Get(status.KeyClients),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte, broadcastQueue),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
	h.hello = Hello{Type: TypeHello, Session: h.session}

	h.wg.Add(1)
	go h.run()
	return h
}

// Session returns the id stamped on every message
func (h *Hub) Session() string {
	return h.session
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns the number of frames discarded for full queues
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Publish queues a snapshot for broadcast without blocking
// Usable as the scene sink
func (h *Hub) Publish(snap scene.Snapshot) {
	h.mu.Lock()
	h.hello.Width, h.hello.Height = snap.Width, snap.Height
	h.hello.Particles = len(snap.Particles)
	h.mu.Unlock()

	data, err := json.Marshal(NewFrame(h.session, h.seq.Add(1), snap))
	if err != nil {
		h.log.Error("frame encode failed", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.gauge.Store(int64(n))
			h.log.Info("stream client connected", zap.String("remote", c.conn.RemoteAddr().String()), zap.Int("clients", n))

		case c := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[c]
			if ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			if ok {
				h.gauge.Store(int64(n))
				h.log.Info("stream client left", zap.String("remote", c.conn.RemoteAddr().String()), zap.Int("clients", n))
			}

		case data := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					h.dropped.Add(1)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ServeHTTP upgrades the request and attaches the connection to the hub
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	hello := h.hello
	h.mu.RUnlock()
	data, err := json.Marshal(hello)
	if err != nil {
		conn.Close()
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	c.send <- data

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.leave(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.leave(c)
				return
			}
		case <-h.done:
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		}
	}
}

func (h *Hub) readPump(c *client) {
	defer h.leave(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("stream client read failed", zap.Error(err))
			}
			return
		}
		h.dispatch(msg)
	}
}

func (h *Hub) dispatch(msg Message) {
	if h.OnInput == nil {
		return
	}
	pos := r2.Vec{X: msg.X, Y: msg.Y}
	switch msg.Type {
	case TypeClick:
		h.OnInput(scene.Input{Kind: scene.InputClick, Pos: pos})
	case TypeMove:
		h.OnInput(scene.Input{Kind: scene.InputMove, Pos: pos})
	}
}

// Close stops the hub and disconnects every client
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		h.mu.Lock()
		for c := range h.clients {
			c.conn.Close()
			delete(h.clients, c)
		}
		h.mu.Unlock()
		h.gauge.Store(0)
	})
	return nil
}
