package handler

import (
	"log/slog"
	"net/http"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/auth"
	"github.com/dagem/foodbridge/internal/service"
)

// ReviewHandler serves post-match reviews.
type ReviewHandler struct {
	reviews *service.ReviewService
	logger  *slog.Logger
}

func NewReviewHandler(reviews *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

type reviewRequest struct {
	MatchID string `json:"matchId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// HandleCreate records a review on a match the caller took part in.
//
// POST /api/reviews
func (h *ReviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MatchID == "" {
		writeError(w, apperror.ValidationFailed("matchId", "match id is required"))
		return
	}

	review, err := h.reviews.Create(r.Context(), userID, req.MatchID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "review submitted successfully",
		"review":  review,
	})
}

// HandleByMatch lists the reviews on a match.
//
// GET /api/matches/{id}/reviews
func (h *ReviewHandler) HandleByMatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "match id is required"))
		return
	}

	reviews, err := h.reviews.ByMatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reviews": reviews,
	})
}
