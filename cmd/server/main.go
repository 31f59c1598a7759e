package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/patch-meta/internal/api"
	"github.com/dom/patch-meta/internal/app"
	"github.com/dom/patch-meta/internal/config"
	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/websocket"
)

// eventReplaySize is how many recent events a new UI subscriber can replay.
const eventReplaySize = 200

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(eventReplaySize)
	go hub.Run()

	// Initialize store, remote clients and services
	a, err := app.New(cfg, events.LogSink{}, hub)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer a.Close()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	app.CheckStats(baseCtx, cfg)

	// Initialize router
	router := api.NewRouter(baseCtx, a.Services, hub, a.Metrics)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancelBase()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	log.Println("Server stopped")
}
