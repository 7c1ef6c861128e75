package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/auth"
	"github.com/dagem/foodbridge/internal/service"
)

// DonationHandler serves the donor side of the registry.
type DonationHandler struct {
	registry *service.RegistryService
	logger   *slog.Logger
}

func NewDonationHandler(registry *service.RegistryService, logger *slog.Logger) *DonationHandler {
	return &DonationHandler{registry: registry, logger: logger}
}

type donationRequest struct {
	Title               string     `json:"title"`
	Category            string     `json:"category"`
	Description         string     `json:"description"`
	Quantity            flexNumber `json:"quantity"`
	Unit                string     `json:"unit"`
	PickupLocation      string     `json:"pickupLocation"`
	PickupTime          *time.Time `json:"pickupTime"`
	ExpiryDate          *time.Time `json:"expiryDate"`
	SpecialInstructions string     `json:"specialInstructions"`
}

// HandleCreate publishes a donation offer.
//
// POST /api/donations
func (h *DonationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req donationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	donation, err := h.registry.CreateDonation(r.Context(), userID, service.DonationInput{
		Title:               req.Title,
		Category:            req.Category,
		Description:         req.Description,
		Quantity:            req.Quantity.String(),
		Unit:                req.Unit,
		PickupLocation:      req.PickupLocation,
		PickupTime:          req.PickupTime,
		ExpiryDate:          req.ExpiryDate,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "donation created successfully",
		"donation": donation,
	})
}

// HandleMine lists the caller's donations.
//
// GET /api/donations/my?status=&page=&limit=
func (h *DonationHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	items, meta, err := h.registry.MyDonations(r.Context(), userID, r.URL.Query().Get("status"), pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"donations":  items,
		"pagination": meta,
	})
}

// HandleBrowse lists active donations for recipients to browse.
//
// GET /api/donations?category=&location=&page=&limit=
func (h *DonationHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, meta, err := h.registry.BrowseDonations(r.Context(), q.Get("category"), q.Get("location"), pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"donations":  items,
		"pagination": meta,
	})
}
