package api

import (
	"context"
	"net/http"

	"github.com/dom/patch-meta/internal/api/handlers"
	"github.com/dom/patch-meta/internal/api/middleware"
	"github.com/dom/patch-meta/internal/metrics"
	"github.com/dom/patch-meta/internal/service"
	"github.com/dom/patch-meta/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP surface. Background work started by handlers
// runs under ctx.
func NewRouter(ctx context.Context, services *service.Services, hub *websocket.Hub, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", m.Handler())

	authHandler := handlers.NewAuthHandler(services.Auth)
	patchHandler := handlers.NewPatchHandler(services.Patch)
	tierHandler := handlers.NewTierHandler(services.Patch)
	historyHandler := handlers.NewHistoryHandler(services.Patch)
	championHandler := handlers.NewChampionHandler(services.Champion)
	adminHandler := handlers.NewAdminHandler(ctx, services.Patch)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", authHandler.Token)

		r.Route("/patches", func(r chi.Router) {
			r.Get("/", patchHandler.List)
			r.Get("/latest", patchHandler.Latest)
			r.Get("/{version}", patchHandler.Get)
			r.Get("/{version}/analysis", patchHandler.Analysis)
		})

		r.Get("/tier-list", tierHandler.List)
		r.Get("/history/{kind}/{name}", historyHandler.Get)
		r.Get("/items-runes/changed", historyHandler.ChangedItemsRunes)

		r.Route("/champions", func(r chi.Router) {
			r.Get("/", championHandler.GetAll)
			r.Get("/{id}", championHandler.Get)
			r.With(middleware.Auth(services.Auth)).Post("/sync", championHandler.Sync)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Post("/backfill", adminHandler.Backfill)
			r.Delete("/patches", adminHandler.ClearPatches)
		})

		// Event stream
		r.Get("/events", wsHandler.Handle)
	})

	return r
}
