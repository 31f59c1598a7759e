package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/scraper"
	"github.com/dom/patch-meta/internal/service"
	"github.com/go-chi/chi/v5"
)

type PatchHandler struct {
	patchService *service.PatchService
}

func NewPatchHandler(patchService *service.PatchService) *PatchHandler {
	return &PatchHandler{patchService: patchService}
}

type PatchListResponse struct {
	Patches []string `json:"patches"`
}

type AnalysisResponse struct {
	Version string                    `json:"version"`
	Diffs   []domain.MetaAnalysisDiff `json:"diffs"`
}

func (h *PatchHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PatchListResponse{Patches: h.patchService.AvailablePatches(r.Context())})
}

func (h *PatchHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.patchService.LatestPatch(r.Context())
	if err != nil {
		writeError(w, "patch.Latest", err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *PatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	version, ok := versionParam(w, r)
	if !ok {
		return
	}

	snapshot, err := h.patchService.GetPatch(r.Context(), version, forceParam(r))
	if err != nil {
		writeError(w, "patch.Get version="+version, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *PatchHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	version, ok := versionParam(w, r)
	if !ok {
		return
	}

	diffs, err := h.patchService.AnalyzePatch(r.Context(), version, forceParam(r))
	if err != nil {
		writeError(w, "patch.Analysis version="+version, err)
		return
	}
	writeJSON(w, http.StatusOK, AnalysisResponse{Version: version, Diffs: diffs})
}

func versionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	version := chi.URLParam(r, "version")
	if !scraper.ValidVersion(version) {
		http.Error(w, "Invalid patch version", http.StatusBadRequest)
		return "", false
	}
	return version, true
}

func forceParam(r *http.Request) bool {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	return force
}
