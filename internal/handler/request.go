package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/auth"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/service"
)

// RequestHandler serves the recipient side of the registry.
type RequestHandler struct {
	registry *service.RegistryService
	logger   *slog.Logger
}

func NewRequestHandler(registry *service.RegistryService, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{registry: registry, logger: logger}
}

type requestRequest struct {
	Title               string     `json:"title"`
	Category            string     `json:"category"`
	Description         string     `json:"description"`
	Quantity            flexNumber `json:"quantity"`
	Unit                string     `json:"unit"`
	Urgency             string     `json:"urgency"`
	DeliveryLocation    string     `json:"deliveryLocation"`
	DeliveryTime        *time.Time `json:"deliveryTime"`
	NeededBy            *time.Time `json:"neededBy"`
	SpecialRequirements string     `json:"specialRequirements"`
}

// HandleCreate publishes a donation request.
//
// POST /api/requests
func (h *RequestHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req requestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	request, err := h.registry.CreateRequest(r.Context(), userID, service.RequestInput{
		Title:               req.Title,
		Category:            req.Category,
		Description:         req.Description,
		Quantity:            req.Quantity.String(),
		Unit:                req.Unit,
		Urgency:             model.Urgency(req.Urgency),
		DeliveryLocation:    req.DeliveryLocation,
		DeliveryTime:        req.DeliveryTime,
		NeededBy:            req.NeededBy,
		SpecialRequirements: req.SpecialRequirements,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "request created successfully",
		"request": request,
	})
}

// HandleMine lists the caller's requests.
//
// GET /api/requests/my?status=&page=&limit=
func (h *RequestHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	items, meta, err := h.registry.MyRequests(r.Context(), userID, r.URL.Query().Get("status"), pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"requests":   items,
		"pagination": meta,
	})
}

// HandleBrowse lists active requests for donors to browse.
//
// GET /api/requests?category=&location=&urgency=&page=&limit=
func (h *RequestHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, meta, err := h.registry.BrowseRequests(
		r.Context(),
		q.Get("category"),
		q.Get("location"),
		model.Urgency(q.Get("urgency")),
		pageFromQuery(r),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"requests":   items,
		"pagination": meta,
	})
}
