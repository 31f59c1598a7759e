package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/service"
	"github.com/go-chi/chi/v5"
)

type ChampionHandler struct {
	championService *service.ChampionService
}

func NewChampionHandler(championService *service.ChampionService) *ChampionHandler {
	return &ChampionHandler{championService: championService}
}

type ChampionResponse struct {
	ID       string   `json:"id"`
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	NameEn   string   `json:"nameEn"`
	Title    string   `json:"title"`
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
}

type ChampionsResponse struct {
	Champions []ChampionResponse `json:"champions"`
	Version   string             `json:"version"`
}

type SyncResponse struct {
	Synced  int    `json:"synced"`
	Version string `json:"version"`
}

func toChampionResponse(c *domain.Champion) ChampionResponse {
	tags := []string{}
	if len(c.Tags) > 0 {
		if err := json.Unmarshal(c.Tags, &tags); err != nil {
			log.Printf("ERROR [champion.tags] championID=%s: %v", c.ID, err)
		}
	}
	return ChampionResponse{
		ID:       c.ID,
		Key:      c.Key,
		Name:     c.Name,
		NameEn:   c.NameEn,
		Title:    c.Title,
		ImageURL: c.ImageURL,
		Tags:     tags,
	}
}

func (h *ChampionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	champions, err := h.championService.GetAllChampions(r.Context())
	if err != nil {
		log.Printf("ERROR [champion.GetAll]: %v", err)
		http.Error(w, "Failed to get champions", http.StatusInternalServerError)
		return
	}

	version, err := h.championService.GetLatestVersion(r.Context())
	if err != nil {
		log.Printf("ERROR [champion.GetAll] version: %v", err)
	}

	resp := ChampionsResponse{
		Champions: make([]ChampionResponse, len(champions)),
		Version:   version,
	}
	for i, c := range champions {
		resp.Champions[i] = toChampionResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ChampionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	champion, err := h.championService.GetChampion(r.Context(), id)
	if err != nil {
		writeError(w, "champion.Get championID="+id, err)
		return
	}

	writeJSON(w, http.StatusOK, toChampionResponse(champion))
}

func (h *ChampionHandler) Sync(w http.ResponseWriter, r *http.Request) {
	count, version, err := h.championService.SyncFromDataDragon(r.Context())
	if err != nil {
		writeError(w, "champion.Sync", err)
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Synced:  count,
		Version: version,
	})
}
