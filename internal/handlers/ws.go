package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/savf/gatekeeper-bot/internal/ws"
)

type WSHandler struct {
	hub *ws.Hub
	log *logrus.Entry
}

func NewWSHandler(hub *ws.Hub, log *logrus.Entry) *WSHandler {
	return &WSHandler{hub: hub, log: log}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      Live challenge events
// @Description  Connect via WebSocket to receive challenge lifecycle events as they happen
// @Tags         websocket
// @Security     BearerAuth
// @Router       /ws/events [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.hub.AddConnection(conn)
	defer h.hub.RemoveConnection(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
