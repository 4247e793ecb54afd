package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kmorrow11/arstory/internal/storage"
)

type ExperienceHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewExperienceHandler(log *slog.Logger, storage storage.Storage) *ExperienceHandler {
	return &ExperienceHandler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP handles experience definition requests
// Routes:
// GET /v1/experiences        - List available experiences (name -> filename)
// GET /v1/experiences/{file} - Read one experience definition
func (h *ExperienceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/experiences"), "/")
	if filename == "" {
		h.handleList(w, r)
		return
	}
	h.handleGet(w, r, filename)
}

func (h *ExperienceHandler) handleList(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.storage.ListExperiences(r.Context())
	if err != nil {
		h.log.Error("Failed to list experiences", "error", err)
		http.Error(w, "Failed to list experiences", http.StatusInternalServerError)
		return
	}

	data, err := json.Marshal(experiences)
	if err != nil {
		h.log.Error("Failed to marshal experience list", "error", err)
		http.Error(w, "Failed to process experience list", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *ExperienceHandler) handleGet(w http.ResponseWriter, r *http.Request, filename string) {
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	exp, err := h.storage.GetExperience(r.Context(), filename)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Experience not found", http.StatusNotFound)
			return
		}
		h.log.Error("Failed to get experience", "error", err, "filename", filename)
		http.Error(w, "Failed to retrieve experience", http.StatusInternalServerError)
		return
	}

	data, err := json.Marshal(exp)
	if err != nil {
		h.log.Error("Failed to marshal experience", "error", err, "filename", filename)
		http.Error(w, "Failed to process experience", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
