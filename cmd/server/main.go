package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stock-chat/internal/api/routes"
	"stock-chat/internal/chat"
	"stock-chat/internal/config"
	"stock-chat/internal/websocket"
)

func main() {
	// Optional .env file, the way the inventory deployment ships one
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting chat server")

	// In-memory stores; everything is lost on restart by design
	registry := chat.NewRegistry()
	directory := chat.NewDirectory(chat.DefaultChannels...)
	history := chat.NewHistory(chat.HistoryLimit, chat.DefaultChannels...)

	// Initialize WebSocket hub
	hub := websocket.NewHub(registry, directory, history, cfg.JWT.Secret)
	go hub.Run()

	// Initialize router with all dependencies
	router := routes.NewRouter(hub, registry, directory, history, cfg)
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		slog.Info("Available channels", "channels", strings.Join(chat.DefaultChannels, ", "))
		slog.Info("CORS enabled", "origins", strings.Join(cfg.AllowedOrigins, ", "))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop WebSocket hub
	hub.Stop()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
