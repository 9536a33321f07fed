package content

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/prepmock/backend/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type addMaterialRequest struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

type addMaterialResponse struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
}

func (h *Handler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	var req addMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "category is required"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "content is required"})
		return
	}

	id, err := h.store.AddMaterial(r.Context(), req.Category, req.Content)
	if err != nil {
		log.Printf("[content] AddMaterial error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save material"})
		return
	}

	writeJSON(w, http.StatusCreated, addMaterialResponse{ID: id, Category: req.Category})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
