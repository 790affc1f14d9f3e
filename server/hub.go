// WebSocket hub: tracks connected snapshot subscribers and fans frames out
// to them. Control messages (start/pause/reset) are accepted on the same
// socket.

package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type wsHub struct {
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	register  chan *websocket.Conn
	remove    chan *websocket.Conn
	broadcast chan []byte
	count     atomic.Int64
}

func newHub() *wsHub {
	hub := &wsHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		register:  make(chan *websocket.Conn),
		remove:    make(chan *websocket.Conn),
		broadcast: make(chan []byte, 16),
	}
	go hub.run()
	return hub
}

func (h *wsHub) run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
			h.count.Store(int64(len(h.clients)))
		case conn := <-h.remove:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.count.Store(int64(len(h.clients)))
		case msg := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					logrus.Warnf("dropping websocket client: %v", err)
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// clientCount returns the number of connected subscribers.
func (h *wsHub) clientCount() int {
	return int(h.count.Load())
}

// wsControlMessage is the inbound message shape on the snapshot socket.
type wsControlMessage struct {
	Type string `json:"type"` // "start", "pause", or "reset"
}

// handleWebSocket upgrades the connection, sends the current snapshot
// immediately, and then reads control messages until the client goes away.
// Broadcast frames arrive via the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("websocket upgrade failed: %v", err)
		return
	}

	// First frame before registration so a new client never waits a full
	// broadcast interval for its initial state.
	if data, err := json.Marshal(s.line.Snapshot()); err == nil {
		conn.WriteMessage(websocket.TextMessage, data)
	}
	s.hub.register <- conn

	go func() {
		defer func() { s.hub.remove <- conn }()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Warnf("websocket read: %v", err)
				}
				return
			}
			var msg wsControlMessage
			if err := json.Unmarshal(message, &msg); err != nil {
				logrus.Debugf("ignoring malformed websocket message: %v", err)
				continue
			}
			switch msg.Type {
			case "start":
				s.line.Start()
			case "pause":
				s.line.Pause()
			case "reset":
				s.line.Reset()
			default:
				logrus.Debugf("ignoring unknown websocket command %q", msg.Type)
			}
		}
	}()
}
