package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

// RegistryService publishes and enumerates donation offers and requests.
type RegistryService struct {
	donations repository.DonationRepository
	requests  repository.RequestRepository
	accounts  *AccountService
	logger    *slog.Logger
}

func NewRegistryService(
	donations repository.DonationRepository,
	requests repository.RequestRepository,
	accounts *AccountService,
	logger *slog.Logger,
) *RegistryService {
	return &RegistryService{
		donations: donations,
		requests:  requests,
		accounts:  accounts,
		logger:    logger,
	}
}

// DonationInput is the create-donation form. Quantity arrives as the raw
// string the caller sent; parsing and the NaN rejection happen here.
type DonationInput struct {
	Title               string
	Category            string
	Description         string
	Quantity            string
	Unit                string
	PickupLocation      string
	PickupTime          *time.Time
	ExpiryDate          *time.Time
	SpecialInstructions string
}

// RequestInput mirrors DonationInput for the delivery side.
type RequestInput struct {
	Title               string
	Category            string
	Description         string
	Quantity            string
	Unit                string
	Urgency             model.Urgency
	DeliveryLocation    string
	DeliveryTime        *time.Time
	NeededBy            *time.Time
	SpecialRequirements string
}

// parseQuantity converts the raw quantity to a float. Non-numeric input,
// NaN, infinities, and non-positive values are all validation errors and
// never reach the store.
func parseQuantity(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperror.ValidationFailed("quantity", "quantity is required")
	}
	q, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, apperror.ValidationFailed("quantity", "quantity must be a number")
	}
	if q <= 0 {
		return 0, apperror.ValidationFailed("quantity", "quantity must be greater than zero")
	}
	return q, nil
}

// CreateDonation publishes an offer. Only donor companies (restaurants,
// grocery stores) may donate; the entitlement comes from the caller's
// capability set, not an inline company join.
func (s *RegistryService) CreateDonation(ctx context.Context, ownerID string, in DonationInput) (*model.Donation, error) {
	caps, err := s.accounts.Capabilities(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !caps.IsDonorCompany {
		return nil, apperror.Forbidden("only donor companies can create donations")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.PickupLocation = strings.TrimSpace(in.PickupLocation)
	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if in.Category == "" {
		return nil, apperror.ValidationFailed("category", "category is required")
	}
	if in.Unit == "" {
		return nil, apperror.ValidationFailed("unit", "unit is required")
	}
	if in.PickupLocation == "" {
		return nil, apperror.ValidationFailed("pickupLocation", "pickup location is required")
	}

	quantity, err := parseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}

	donation := &model.Donation{
		DonorID:             ownerID,
		Title:               in.Title,
		Category:            in.Category,
		Description:         strings.TrimSpace(in.Description),
		Quantity:            quantity,
		Unit:                in.Unit,
		PickupLocation:      in.PickupLocation,
		PickupTime:          in.PickupTime,
		ExpiryDate:          in.ExpiryDate,
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
		Status:              model.ItemStatusActive,
	}

	if err := s.donations.CreateDonation(ctx, donation); err != nil {
		s.logger.Error("failed to create donation",
			slog.String("donorID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating donation: %w", err)
	}

	s.logger.Info("donation created",
		slog.String("id", donation.ID),
		slog.String("donorID", ownerID),
	)

	return donation, nil
}

// CreateRequest publishes a need. Any account may request; urgency
// defaults to normal.
func (s *RegistryService) CreateRequest(ctx context.Context, ownerID string, in RequestInput) (*model.DonationRequest, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.DeliveryLocation = strings.TrimSpace(in.DeliveryLocation)
	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if in.Category == "" {
		return nil, apperror.ValidationFailed("category", "category is required")
	}
	if in.Unit == "" {
		return nil, apperror.ValidationFailed("unit", "unit is required")
	}
	if in.DeliveryLocation == "" {
		return nil, apperror.ValidationFailed("deliveryLocation", "delivery location is required")
	}

	quantity, err := parseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}

	urgency := in.Urgency
	if urgency == "" {
		urgency = model.UrgencyNormal
	}
	if !urgency.Valid() {
		return nil, apperror.ValidationFailed("urgency", "urgency must be normal or high")
	}

	request := &model.DonationRequest{
		RequesterID:         ownerID,
		Title:               in.Title,
		Category:            in.Category,
		Description:         strings.TrimSpace(in.Description),
		Quantity:            quantity,
		Unit:                in.Unit,
		Urgency:             urgency,
		DeliveryLocation:    in.DeliveryLocation,
		DeliveryTime:        in.DeliveryTime,
		NeededBy:            in.NeededBy,
		SpecialRequirements: strings.TrimSpace(in.SpecialRequirements),
		Status:              model.ItemStatusActive,
	}

	if err := s.requests.CreateRequest(ctx, request); err != nil {
		s.logger.Error("failed to create request",
			slog.String("requesterID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating request: %w", err)
	}

	s.logger.Info("request created",
		slog.String("id", request.ID),
		slog.String("requesterID", ownerID),
	)

	return request, nil
}

// statusFilter validates an optional status query value. "all" and ""
// both mean no filter.
func statusFilter(raw string) (model.ItemStatus, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	status := model.ItemStatus(raw)
	if !status.Valid() {
		return "", apperror.ValidationFailed("status", "invalid status filter")
	}
	return status, nil
}

// MyDonations lists the caller's own donations.
func (s *RegistryService) MyDonations(ctx context.Context, ownerID, status string, page PageRequest) ([]model.Donation, PageMeta, error) {
	st, err := statusFilter(status)
	if err != nil {
		return nil, PageMeta{}, err
	}

	limit, offset := page.normalize()
	items, total, err := s.donations.DonationsByDonor(ctx, ownerID, st, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("listing donations: %w", err)
	}

	return items, pageMeta(page, limit, total), nil
}

// MyRequests lists the caller's own requests.
func (s *RegistryService) MyRequests(ctx context.Context, ownerID, status string, page PageRequest) ([]model.DonationRequest, PageMeta, error) {
	st, err := statusFilter(status)
	if err != nil {
		return nil, PageMeta{}, err
	}

	limit, offset := page.normalize()
	items, total, err := s.requests.RequestsByRequester(ctx, ownerID, st, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("listing requests: %w", err)
	}

	return items, pageMeta(page, limit, total), nil
}

// BrowseDonations lists active donations for recipients, with owner and
// company names joined for display.
func (s *RegistryService) BrowseDonations(ctx context.Context, category, location string, page PageRequest) ([]model.Donation, PageMeta, error) {
	limit, offset := page.normalize()
	filter := repository.ItemFilter{
		Status:   model.ItemStatusActive,
		Category: category,
		Location: location,
	}

	items, total, err := s.donations.BrowseDonations(ctx, filter, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("browsing donations: %w", err)
	}

	return items, pageMeta(page, limit, total), nil
}

// BrowseRequests lists active requests for donors.
func (s *RegistryService) BrowseRequests(ctx context.Context, category, location string, urgency model.Urgency, page PageRequest) ([]model.DonationRequest, PageMeta, error) {
	if urgency != "" && !urgency.Valid() {
		return nil, PageMeta{}, apperror.ValidationFailed("urgency", "urgency must be normal or high")
	}

	limit, offset := page.normalize()
	filter := repository.ItemFilter{
		Status:   model.ItemStatusActive,
		Category: category,
		Location: location,
		Urgency:  urgency,
	}

	items, total, err := s.requests.BrowseRequests(ctx, filter, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("browsing requests: %w", err)
	}

	return items, pageMeta(page, limit, total), nil
}
