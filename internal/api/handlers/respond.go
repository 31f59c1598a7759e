package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/patch-meta/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError logs err under op and answers with the status its kind maps to.
func writeError(w http.ResponseWriter, op string, err error) {
	log.Printf("ERROR [%s]: %v", op, err)

	var netErr *domain.NetworkError
	switch {
	case errors.Is(err, domain.ErrPatchNotFound):
		http.Error(w, "Patch not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrChampionNotFound):
		http.Error(w, "Champion not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidVersion):
		http.Error(w, "Invalid patch version", http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrAuthDisabled):
		http.Error(w, "Admin login is not configured", http.StatusUnauthorized)
	case errors.As(err, &netErr):
		http.Error(w, "Upstream request failed", http.StatusBadGateway)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
