package handlers

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/dom/patch-meta/internal/api/middleware"
	"github.com/dom/patch-meta/internal/service"
)

type AdminHandler struct {
	patchService *service.PatchService
	baseCtx      context.Context
	backfilling  atomic.Bool
}

// NewAdminHandler runs background work under baseCtx, so cancelling it
// stops a running backfill.
func NewAdminHandler(baseCtx context.Context, patchService *service.PatchService) *AdminHandler {
	return &AdminHandler{patchService: patchService, baseCtx: baseCtx}
}

type BackfillResponse struct {
	Status string `json:"status"`
}

// Backfill starts a history sync in the background. Only one sync runs at a time.
func (h *AdminHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	if !h.backfilling.CompareAndSwap(false, true) {
		http.Error(w, "Backfill already running", http.StatusConflict)
		return
	}

	subject, _ := middleware.GetSubject(r.Context())
	log.Printf("backfill started by %s", subject)

	go func() {
		defer h.backfilling.Store(false)
		summary, err := h.patchService.SyncHistory(h.baseCtx)
		if err != nil {
			log.Printf("ERROR [admin.Backfill]: %v", err)
			return
		}
		log.Printf("backfill finished: checked=%d fetched=%d failed=%d",
			summary.Checked, summary.Fetched, summary.Failed)
	}()

	writeJSON(w, http.StatusAccepted, BackfillResponse{Status: "started"})
}

func (h *AdminHandler) ClearPatches(w http.ResponseWriter, r *http.Request) {
	if err := h.patchService.Clear(r.Context()); err != nil {
		writeError(w, "admin.ClearPatches", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
