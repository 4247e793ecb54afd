package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kmorrow11/arstory/internal/storage"
)

// MarkerStatus reports whether a marker's NFT file triplet is complete
// on disk. The tracker needs all three files to recognize a marker.
type MarkerStatus struct {
	ID       string   `json:"id"`
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing,omitempty"`
}

type MarkersHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewMarkersHandler(log *slog.Logger, storage storage.Storage) *MarkersHandler {
	return &MarkersHandler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP handles GET /v1/markers
func (h *MarkersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sets, err := h.storage.ListMarkerSets(r.Context())
	if err != nil {
		h.log.Error("Failed to list marker sets", "error", err)
		http.Error(w, "Failed to list marker sets", http.StatusInternalServerError)
		return
	}

	statuses := make([]MarkerStatus, 0, len(sets))
	for _, set := range sets {
		statuses = append(statuses, MarkerStatus{
			ID:       set.ID,
			Complete: set.Complete(),
			Missing:  set.Missing(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(statuses); err != nil {
		h.log.Error("Failed to encode marker list", "error", err)
	}
}
