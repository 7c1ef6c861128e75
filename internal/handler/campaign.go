package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/auth"
	"github.com/dagem/foodbridge/internal/service"
)

// CampaignHandler serves fundraising campaigns, pledges, and the share QR
// code. baseURL is the public origin encoded into QR codes.
type CampaignHandler struct {
	campaigns *service.CampaignService
	baseURL   string
	logger    *slog.Logger
}

func NewCampaignHandler(campaigns *service.CampaignService, baseURL string, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

type campaignRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Goal           float64    `json:"goal"`
	Currency       string     `json:"currency"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	TargetLocation string     `json:"targetLocation"`
	ImageURL       string     `json:"imageUrl"`
}

// HandleCreate opens a campaign.
//
// POST /api/campaigns
func (h *CampaignHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req campaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	campaign, err := h.campaigns.Create(r.Context(), userID, service.CampaignInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Goal:           req.Goal,
		Currency:       req.Currency,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TargetLocation: req.TargetLocation,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "campaign created successfully",
		"campaign": campaign,
	})
}

// HandleList enumerates campaigns.
//
// GET /api/campaigns?category=&status=&page=&limit=
func (h *CampaignHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, meta, err := h.campaigns.List(r.Context(), q.Get("category"), q.Get("status"), pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"campaigns":  items,
		"pagination": meta,
	})
}

// HandleGet returns one campaign.
//
// GET /api/campaigns/{id}
func (h *CampaignHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "campaign id is required"))
		return
	}

	campaign, err := h.campaigns.CampaignByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"campaign": campaign,
	})
}

type pledgeRequest struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

// HandleDonate records a pledge against a campaign.
//
// POST /api/campaigns/{id}/donate
func (h *CampaignHandler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "campaign id is required"))
		return
	}

	var req pledgeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pledge, err := h.campaigns.Pledge(r.Context(), id, userID, req.Amount, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "donation recorded successfully",
		"donation": pledge,
	})
}

// HandleQR returns a PNG QR code pointing at the campaign's public page,
// for printing on flyers and posters.
//
// GET /api/campaigns/{id}/qr
func (h *CampaignHandler) HandleQR(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "campaign id is required"))
		return
	}

	// Verify the campaign exists so the QR never points at a dead page.
	campaign, err := h.campaigns.CampaignByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	shareURL := fmt.Sprintf("%s/campaigns/%s", h.baseURL, campaign.ID)
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		h.logger.Error("failed to encode campaign QR",
			slog.String("campaignID", id),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
