package handler

import (
	"log/slog"
	"net/http"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/auth"
	"github.com/dagem/foodbridge/internal/service"
)

// DashboardHandler serves the per-account dashboard summary.
type DashboardHandler struct {
	stats  *service.StatsService
	logger *slog.Logger
}

func NewDashboardHandler(stats *service.StatsService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{stats: stats, logger: logger}
}

// HandleStats returns the stats block shaped by the caller's account type.
//
// GET /api/dashboard/stats
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	stats, err := h.stats.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
