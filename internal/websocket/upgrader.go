package websocket

import (
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
)

// NewUpgrader builds an upgrader that accepts the configured origins. Any
// localhost variation is allowed so local development keeps working.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}

			return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
		},
	}
}

// ServeWS upgrades an HTTP request, registers the connection with the hub,
// and starts the read/write pumps.
func ServeWS(hub *Hub, upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := NewClient(hub, conn)
	slog.Info("New WebSocket connection established", "clientID", client.id)

	select {
	case hub.register <- client:
	case <-time.After(5 * time.Second):
		slog.Error("Timeout sending registration request", "clientID", client.id)
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
