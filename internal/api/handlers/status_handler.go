package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock-chat/internal/chat"
)

// StatusHandler serves the read-only query surface: server status,
// connected users, and channel history. Everything is computed from the
// stores' current state; nothing here mutates.
type StatusHandler struct {
	registry  *chat.Registry
	directory *chat.Directory
	history   *chat.History
	startedAt time.Time
}

func NewStatusHandler(registry *chat.Registry, directory *chat.Directory, history *chat.History) *StatusHandler {
	return &StatusHandler{
		registry:  registry,
		directory: directory,
		history:   history,
		startedAt: time.Now(),
	}
}

type StatusResponse struct {
	Status         string   `json:"status"`
	ConnectedUsers int      `json:"connectedUsers"`
	Channels       []string `json:"channels"`
	Uptime         float64  `json:"uptime"`
}

func (h *StatusHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:         "online",
		ConnectedUsers: h.registry.Count(),
		Channels:       h.directory.Channels(),
		Uptime:         time.Since(h.startedAt).Seconds(),
	})
}

func (h *StatusHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Identities())
}

func (h *StatusHandler) GetChannelMessages(c *gin.Context) {
	channel := c.Param("channel")
	c.JSON(http.StatusOK, h.history.Snapshot(channel))
}
