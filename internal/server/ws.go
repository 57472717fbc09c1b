package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	maxMessage = 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// InputMsg is a client event. Type selects which fields apply:
// "pointer" uses X, Y and Hover; "resize" uses W and H; "leave" uses none.
type InputMsg struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Hover bool    `json:"hover"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// handleWebSocket upgrades the connection and starts its pumps.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade: %v", err)
		return
	}

	cl := s.hub.add(conn)
	if cl == nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	s.logger.Info("client %d connected from %s", cl.id, c.ClientIP())

	welcome, err := msgpack.Marshal(WelcomeMsg{
		Type:     MsgTypeWelcome,
		ClientID: cl.id,
		Theme:    s.cfg.Theme,
		Size:     s.state.Snapshot().Frame.Size,
	})
	if err == nil {
		s.hub.sendTo(cl, welcome)
	}

	go s.readPump(cl)
	go s.writePump(cl)
}

// readPump applies client input to the engine inbox until the connection
// fails or closes.
func (s *Server) readPump(cl *client) {
	defer func() {
		s.hub.remove(cl)
		s.releasePointer(cl.id)
		cl.conn.Close()
		s.logger.Info("client %d disconnected", cl.id)
	}()

	cl.conn.SetReadLimit(maxMessage)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("client %d: %v", cl.id, err)
			}
			return
		}

		var in InputMsg
		if err := json.Unmarshal(data, &in); err != nil {
			s.logger.Debug("client %d: bad input: %v", cl.id, err)
			continue
		}
		s.applyInput(cl.id, in)
	}
}

// applyInput posts one event from client id to the inbox. Clients share
// the engine, so the latest event from any client wins.
func (s *Server) applyInput(id uint64, in InputMsg) bool {
	inbox := s.engine.Inbox()
	switch in.Type {
	case "pointer":
		s.pointerOwner.Store(id)
		inbox.PostPointer(in.X, in.Y, in.Hover)
	case "resize":
		if in.W <= 0 || in.H <= 0 || in.W > maxSurface || in.H > maxSurface {
			return false
		}
		inbox.PostSize(in.W, in.H)
	case "leave":
		s.pointerOwner.Store(0)
		inbox.ClearPointer()
	default:
		return false
	}
	return true
}

// releasePointer clears the pointer when client id posted the latest one.
func (s *Server) releasePointer(id uint64) {
	if s.pointerOwner.CompareAndSwap(id, 0) {
		s.engine.Inbox().ClearPointer()
	}
}

// writePump drains the client queue onto the connection and keeps it
// alive with pings.
func (s *Server) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				s.logger.Debug("client %d write: %v", cl.id, err)
				return
			}

		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
