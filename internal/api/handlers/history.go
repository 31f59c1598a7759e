package handlers

import (
	"net/http"

	"github.com/dom/patch-meta/internal/analysis"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/service"
	"github.com/go-chi/chi/v5"
)

type HistoryHandler struct {
	patchService *service.PatchService
}

func NewHistoryHandler(patchService *service.PatchService) *HistoryHandler {
	return &HistoryHandler{patchService: patchService}
}

type HistoryResponse struct {
	Kind    analysis.HistoryKind  `json:"kind"`
	Name    string                `json:"name"`
	Entries []domain.HistoryEntry `json:"entries"`
}

type ChangedTitlesResponse struct {
	Titles []string `json:"titles"`
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := analysis.ParseHistoryKind(chi.URLParam(r, "kind"))
	if !ok {
		http.Error(w, "Unknown history kind", http.StatusBadRequest)
		return
	}
	name := chi.URLParam(r, "name")
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	entries, err := h.patchService.History(r.Context(), kind, name)
	if err != nil {
		writeError(w, "history.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Kind: kind, Name: name, Entries: entries})
}

func (h *HistoryHandler) ChangedItemsRunes(w http.ResponseWriter, r *http.Request) {
	titles, err := h.patchService.ChangedItemsRunesTitles(r.Context())
	if err != nil {
		writeError(w, "history.ChangedItemsRunes", err)
		return
	}
	writeJSON(w, http.StatusOK, ChangedTitlesResponse{Titles: titles})
}
