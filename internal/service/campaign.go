package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

// CampaignService runs fundraising campaigns and their pledge ledger.
type CampaignService struct {
	campaigns repository.CampaignRepository
	accounts  *AccountService
	logger    *slog.Logger
}

func NewCampaignService(
	campaigns repository.CampaignRepository,
	accounts *AccountService,
	logger *slog.Logger,
) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		accounts:  accounts,
		logger:    logger,
	}
}

// CampaignInput is the create-campaign form. Goal arrives in currency
// units and is stored as integer cents.
type CampaignInput struct {
	Title          string
	Description    string
	Category       string
	Goal           float64
	Currency       string
	StartDate      time.Time
	EndDate        *time.Time
	TargetLocation string
	ImageURL       string
}

// toCents converts a currency amount to integer cents, rounding half up.
// Amounts that are not finite or overflow int64 are rejected upstream.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Create opens a campaign. Only organizer accounts may run campaigns.
func (s *CampaignService) Create(ctx context.Context, organizerID string, in CampaignInput) (*model.Campaign, error) {
	caps, err := s.accounts.Capabilities(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	if !caps.IsOrganizer {
		return nil, apperror.Forbidden("only organizers can create campaigns")
	}

	fields := map[string]string{}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "description is required"
	}
	if in.Category == "" {
		fields["category"] = "category is required"
	}
	if math.IsNaN(in.Goal) || math.IsInf(in.Goal, 0) || in.Goal <= 0 {
		fields["goal"] = "goal must be greater than zero"
	}
	if in.StartDate.IsZero() {
		fields["startDate"] = "start date is required"
	}
	if in.EndDate != nil && !in.StartDate.IsZero() && in.EndDate.Before(in.StartDate) {
		fields["endDate"] = "end date must not be before the start date"
	}

	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "ETB"
	}

	campaign := &model.Campaign{
		OrganizerID:    organizerID,
		Title:          in.Title,
		Description:    strings.TrimSpace(in.Description),
		Category:       in.Category,
		GoalCents:      toCents(in.Goal),
		RaisedCents:    0,
		Currency:       currency,
		Status:         model.CampaignStatusActive,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		TargetLocation: strings.TrimSpace(in.TargetLocation),
		ImageURL:       strings.TrimSpace(in.ImageURL),
	}

	if err := s.campaigns.CreateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("creating campaign: %w", err)
	}

	s.logger.Info("campaign created",
		slog.String("id", campaign.ID),
		slog.String("organizerID", organizerID),
	)

	return campaign, nil
}

// CampaignByID returns one campaign with organizer names joined.
func (s *CampaignService) CampaignByID(ctx context.Context, id string) (*model.Campaign, error) {
	return s.campaigns.CampaignByID(ctx, id)
}

// List enumerates campaigns, newest first.
func (s *CampaignService) List(ctx context.Context, category, status string, page PageRequest) ([]model.Campaign, PageMeta, error) {
	var st model.CampaignStatus
	if status != "" && status != "all" {
		st = model.CampaignStatus(status)
		if !st.Valid() {
			return nil, PageMeta{}, apperror.ValidationFailed("status", "invalid status filter")
		}
	}

	limit, offset := page.normalize()
	filter := repository.CampaignFilter{Status: st, Category: category}

	items, total, err := s.campaigns.ListCampaigns(ctx, filter, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("listing campaigns: %w", err)
	}

	return items, pageMeta(page, limit, total), nil
}

// Pledge records a donation to a campaign. The pledge row and the raised
// total move in one transaction in the store, so concurrent pledges never
// lose an increment.
func (s *CampaignService) Pledge(ctx context.Context, campaignID, donorID string, amount float64, message string) (*model.CampaignDonation, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, apperror.ValidationFailed("amount", "amount must be greater than zero")
	}

	campaign, err := s.campaigns.CampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != model.CampaignStatusActive {
		return nil, apperror.Conflict("this campaign is no longer accepting donations")
	}

	pledge := &model.CampaignDonation{
		CampaignID:  campaignID,
		DonorID:     donorID,
		AmountCents: toCents(amount),
		Currency:    campaign.Currency,
		Message:     strings.TrimSpace(message),
		Status:      model.PledgeStatusCompleted,
	}

	if err := s.campaigns.CreatePledge(ctx, pledge); err != nil {
		return nil, err
	}

	s.logger.Info("pledge recorded",
		slog.String("campaignID", campaignID),
		slog.String("donorID", donorID),
		slog.Int64("amountCents", pledge.AmountCents),
	)

	return pledge, nil
}
