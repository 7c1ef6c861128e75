package handler

import (
	"log/slog"
	"net/http"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/auth"
	"github.com/dagem/foodbridge/internal/service"
)

// MatchHandler serves match proposal and the status workflow.
type MatchHandler struct {
	matching *service.MatchingService
	logger   *slog.Logger
}

func NewMatchHandler(matching *service.MatchingService, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{matching: matching, logger: logger}
}

type proposeRequest struct {
	DonationID string `json:"donationId"`
	RequestID  string `json:"requestId"`
	Message    string `json:"message"`
}

// HandlePropose creates a pending match against a donation or a request.
//
// POST /api/matches
func (h *MatchHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req proposeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	match, err := h.matching.Propose(r.Context(), userID, req.DonationID, req.RequestID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "match created successfully",
		"match":   match,
	})
}

type statusRequest struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleUpdateStatus advances a match through the state machine.
//
// PUT /api/matches/{id}/status
func (h *MatchHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "match id is required"))
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	match, err := h.matching.UpdateStatus(r.Context(), id, req.Status, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "match status updated successfully",
		"match":   match,
	})
}

// HandleMine lists the caller's matches with their item payloads.
//
// GET /api/matches/my?status=&page=&limit=
func (h *MatchHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	items, meta, err := h.matching.MyMatches(r.Context(), userID, r.URL.Query().Get("status"), pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"matches":    items,
		"pagination": meta,
	})
}
