package handlers

import (
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"stock-chat/internal/websocket"
)

type WSHandler struct {
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
}

func NewWSHandler(hub *websocket.Hub, upgrader gorilla.Upgrader) *WSHandler {
	return &WSHandler{hub: hub, upgrader: upgrader}
}

// HandleWebSocket upgrades the request and hands the connection to the
// hub. Identity arrives later over the socket via the authenticate event.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	websocket.ServeWS(h.hub, h.upgrader, c.Writer, c.Request)
}
