package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kmorrow11/arstory/internal/services/events"
	"github.com/kmorrow11/arstory/internal/storage"
	"github.com/kmorrow11/arstory/pkg/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SessionHandler struct {
	storage     storage.Storage
	broadcaster *events.Broadcaster
	logger      *slog.Logger
}

// NewSessionHandler creates a session handler. The broadcaster is
// optional; without it, applied events are not pushed to SSE clients.
func NewSessionHandler(logger *slog.Logger, storage storage.Storage, broadcaster *events.Broadcaster) *SessionHandler {
	return &SessionHandler{
		storage:     storage,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// ServeHTTP handles HTTP requests for session operations
// Routes:
// POST /v1/session              - Create new session
// GET /v1/session/{id}          - Read session by ID
// DELETE /v1/session/{id}       - Delete session by ID
// POST /v1/session/{id}/events  - Apply a tracker event synchronously
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/session"), "/")
	parts := []string{}
	if path != "" {
		parts = strings.Split(path, "/")
	}

	var sessionID uuid.UUID
	var err error
	if len(parts) >= 1 {
		sessionID, err = uuid.Parse(parts[0])
		if err != nil {
			h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
			return
		}
	}

	switch {
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.handleCreate(w, r)

	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleRead(w, r, sessionID)

	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, sessionID)

	case len(parts) == 2 && parts[1] == "events" && r.Method == http.MethodPost:
		h.handleApplyEvent(w, r, sessionID)

	default:
		h.logger.Warn("Method not allowed for session endpoint", "method", r.Method, "path", r.URL.Path)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported: POST /v1/session, GET /v1/session/{id}, DELETE /v1/session/{id}, POST /v1/session/{id}/events")
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

// CreateSessionRequest defines the request body for creating a new session
type CreateSessionRequest struct {
	Experience string `json:"experience"` // Required: experience filename
}

// normalizeID converts a string to lowercase snake_case for consistent IDs.
// It handles spaces, hyphens and dots.
func normalizeID(s string) string {
	if s == "" {
		return ""
	}

	var out strings.Builder
	prevUnderscore := false
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			r = r + ('a' - 'A')
		}
		switch {
		case r == '.':
			out.WriteRune('.')
			prevUnderscore = false

		case r == ' ' || r == '-' || r == '_':
			if !prevUnderscore && i > 0 {
				out.WriteRune('_')
				prevUnderscore = true
			}

		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			out.WriteRune(r)
			prevUnderscore = false

		default:
			// Ignore other characters
		}
	}
	return out.String()
}

// ensureJSONExtension adds .json extension if not present
func ensureJSONExtension(s string) string {
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, ".json") {
		return s + ".json"
	}
	return s
}

// Normalize normalizes the experience filename to lowercase snake_case
// with a .json extension.
func (req *CreateSessionRequest) Normalize() {
	req.Experience = normalizeID(req.Experience)
	req.Experience = ensureJSONExtension(req.Experience)
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Creating new session")

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	req.Normalize()

	if req.Experience == "" {
		h.logger.Warn("Missing required field: experience")
		writeError(w, h.logger, http.StatusBadRequest, "experience field is required")
		return
	}

	// The experience must exist before a session can run it.
	if _, err := h.storage.GetExperience(r.Context(), req.Experience); err != nil {
		h.logger.Warn("Failed to load experience", "error", err, "experience", req.Experience)
		writeError(w, h.logger, http.StatusBadRequest, "Failed to load experience: "+err.Error())
		return
	}

	s := session.NewSession(req.Experience)

	if err := h.storage.SaveSession(r.Context(), s.ID, s); err != nil {
		h.logger.Error("Failed to save new session", "error", err, "id", s.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Debug("Session created successfully", "id", s.ID.String(), "experience", s.Experience)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(s); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	s, err := h.storage.LoadSession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "id", sessionID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}

	if s == nil {
		h.logger.Warn("Session not found", "id", sessionID.String())
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(s); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to delete session", "error", err, "id", sessionID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	h.logger.Debug("Session deleted successfully", "id", sessionID.String())
	w.WriteHeader(http.StatusNoContent)
}

// ApplyEventResponse is returned by the synchronous event endpoint.
// Effects is never null so clients can always range over it.
type ApplyEventResponse struct {
	Session *session.Session               `json:"session"`
	Effects []session.Effect               `json:"effects"`
	View    map[string]session.ElementView `json:"view"`
}

// handleApplyEvent runs one event through the reducer synchronously.
// Premature or out-of-order events are accepted and produce zero
// effects rather than an error.
func (h *SessionHandler) handleApplyEvent(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	var ev session.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.logger.Warn("Invalid JSON in event body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := ev.Validate(); err != nil {
		h.logger.Warn("Invalid event", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.storage.LoadSession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "id", sessionID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if s == nil {
		h.logger.Warn("Session not found", "id", sessionID.String())
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	exp, err := h.storage.GetExperience(r.Context(), s.Experience)
	if err != nil {
		h.logger.Error("Failed to load experience for session", "error", err, "experience", s.Experience)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load experience")
		return
	}

	next, effects := session.Apply(*s, exp, ev)

	if err := h.storage.SaveSession(r.Context(), next.ID, &next); err != nil {
		h.logger.Error("Failed to save session", "error", err, "id", next.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return
	}

	if h.broadcaster != nil {
		if err := h.broadcaster.PublishEffects(r.Context(), next.ID, effects); err != nil {
			h.logger.Error("Failed to publish effects", "error", err)
		}
		if err := h.broadcaster.PublishSessionUpdated(r.Context(), next.ID, next.Progress, next.EventCount); err != nil {
			h.logger.Error("Failed to publish session update", "error", err)
		}
	}

	if effects == nil {
		effects = []session.Effect{}
	}
	response := ApplyEventResponse{
		Session: &next,
		Effects: effects,
		View:    session.Render(&next, exp),
	}

	h.logger.Debug("Event applied",
		"id", next.ID.String(),
		"event_type", ev.Type,
		"progress", next.Progress.String(),
		"effects", len(effects))

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode event response", "error", err)
	}
}
