package routes

import (
	"github.com/gin-gonic/gin"

	"stock-chat/internal/api/handlers"
	"stock-chat/internal/api/middleware"
	"stock-chat/internal/chat"
	"stock-chat/internal/config"
	"stock-chat/internal/websocket"
)

type Router struct {
	engine        *gin.Engine
	wsHandler     *handlers.WSHandler
	statusHandler *handlers.StatusHandler
}

func NewRouter(
	hub *websocket.Hub,
	registry *chat.Registry,
	directory *chat.Directory,
	history *chat.History,
	cfg *config.Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(cfg.AllowedOrigins))
	engine.Use(middleware.LogAPI())

	upgrader := websocket.NewUpgrader(cfg.AllowedOrigins)

	return &Router{
		engine:        engine,
		wsHandler:     handlers.NewWSHandler(hub, upgrader),
		statusHandler: handlers.NewStatusHandler(registry, directory, history),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// WebSocket endpoint
	r.engine.GET("/ws", r.wsHandler.HandleWebSocket)

	// Read-only query surface
	api := r.engine.Group("/api")
	{
		api.GET("/status", r.statusHandler.GetStatus)
		api.GET("/users", r.statusHandler.ListUsers)
		api.GET("/channels/:channel/messages", r.statusHandler.GetChannelMessages)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
