package server

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/litescript/ls-backdrop/internal/logging"
	"github.com/litescript/ls-backdrop/internal/sim"
	"github.com/litescript/ls-backdrop/internal/state"
)

// Message types on the wire.
const (
	MsgTypeFrame   = "frame"
	MsgTypeWelcome = "welcome"
)

// FrameMsg carries one frame to a client, msgpack encoded.
type FrameMsg struct {
	Type  string    `msgpack:"type"`
	Frame sim.Frame `msgpack:"frame"`
}

// WelcomeMsg is the first message a client receives.
type WelcomeMsg struct {
	Type     string    `msgpack:"type"`
	ClientID uint64    `msgpack:"id"`
	Theme    sim.Theme `msgpack:"theme"`
	Size     sim.Size  `msgpack:"size"`
}

// sendBuffer is the per-client outbound queue length.
const sendBuffer = 16

// client is one WebSocket connection.
type client struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to connected clients. A client whose queue is full
// misses frames rather than stalling the others.
type Hub struct {
	mu      sync.Mutex
	clients map[uint64]*client
	nextID  uint64
	closed  bool
	logger  *logging.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		clients: make(map[uint64]*client),
		logger:  logger,
	}
}

// add registers conn and returns its client, or nil when the hub is shut.
func (h *Hub) add(conn *websocket.Conn) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.nextID++
	c := &client{id: h.nextID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.clients[c.id] = c
	return c
}

// remove unregisters a client and closes its queue. Safe to call twice.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues data for every client.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("client %d queue full, frame dropped", c.id)
		}
	}
}

// sendTo queues data for one client.
func (h *Hub) sendTo(c *client, data []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Run encodes every frame published by mgr once and broadcasts it until
// ctx is done, then disconnects all clients.
func (h *Hub) Run(ctx context.Context, mgr *state.Manager) {
	frames, cancel := mgr.Subscribe(0)
	defer cancel()
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if h.Clients() == 0 {
				continue
			}
			data, err := msgpack.Marshal(FrameMsg{Type: MsgTypeFrame, Frame: f})
			if err != nil {
				h.logger.Error("encode frame %d: %v", f.Tick, err)
				continue
			}
			h.Broadcast(data)
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}
