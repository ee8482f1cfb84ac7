package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
)

const writeWait = 5 * time.Second

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans challenge events out to connected websocket clients.
type Hub struct {
	log *logrus.Entry

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub(log *logrus.Entry) *Hub {
	return &Hub{
		log:   log.WithField("component", "ws"),
		conns: make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[conn] = true
	h.log.WithField("clients", len(h.conns)).Info("client connected")
}

func (h *Hub) RemoveConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
		h.log.WithField("clients", len(h.conns)).Info("client disconnected")
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast writes message to every client. Clients that fail a write
// are dropped. Writes are serialized under the hub lock since a
// websocket connection allows one writer at a time.
func (h *Hub) Broadcast(message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.WithError(err).Error("marshal message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithError(err).Debug("write failed, dropping client")
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// OnChallengeEvent implements gatekeeper.Listener.
func (h *Hub) OnChallengeEvent(_ context.Context, ev gatekeeper.Event) {
	h.Broadcast(WSMessage{Type: "challenge_" + string(ev.Kind), Data: ev})
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.conns, conn)
	}
}
