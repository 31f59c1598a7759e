package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/patch-meta/internal/analysis"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/service"
)

type TierHandler struct {
	patchService *service.PatchService
}

func NewTierHandler(patchService *service.PatchService) *TierHandler {
	return &TierHandler{patchService: patchService}
}

type TierListResponse struct {
	Entries []domain.TierEntry `json:"entries"`
}

// List serves the ranked tier list. Optional query parameters: category
// keeps entries of one category, limit caps the number of entries.
func (h *TierHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.patchService.TierList(r.Context())
	if err != nil {
		writeError(w, "tier.List", err)
		return
	}

	entries = analysis.FilterEntries(entries, domain.PatchCategory(r.URL.Query().Get("category")), limit)
	writeJSON(w, http.StatusOK, TierListResponse{Entries: entries})
}
