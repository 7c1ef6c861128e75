// Package repository declares the persistence gateway interfaces. Services
// depend on these, never on the concrete SQLite implementation.
package repository

import (
	"context"

	"github.com/dagem/foodbridge/internal/model"
)

// ListOptions is limit/offset pagination. Callers compute
// offset = (page-1)*limit; list methods return the page plus the total
// count of matching rows so handlers can report pages = ceil(total/limit).
type ListOptions struct {
	Limit  int
	Offset int
}

// ItemFilter narrows donation/request listings. Zero values mean "no
// filter" for that dimension. Location is a case-insensitive substring
// match against the pickup/delivery location.
type ItemFilter struct {
	Status   model.ItemStatus
	Category string
	Location string
	Urgency  model.Urgency // requests only
}

// CampaignFilter narrows campaign listings.
type CampaignFilter struct {
	Status   model.CampaignStatus
	Category string
}

// UserRepository persists identities and their company records.
type UserRepository interface {
	// CreateUser inserts the user and, when company is non-nil, its company
	// row in the same transaction. A duplicate email surfaces as Conflict.
	CreateUser(ctx context.Context, user *model.User, company *model.Company) error
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	// CompanyByUserID returns NotFound when the user has no company record.
	CompanyByUserID(ctx context.Context, userID string) (*model.Company, error)
}

// DonationRepository persists donation offers.
type DonationRepository interface {
	CreateDonation(ctx context.Context, d *model.Donation) error
	DonationByID(ctx context.Context, id string) (*model.Donation, error)
	DonationsByDonor(ctx context.Context, donorID string, status model.ItemStatus, opts ListOptions) ([]model.Donation, int, error)
	// BrowseDonations left-joins the donor's display name and company name.
	BrowseDonations(ctx context.Context, filter ItemFilter, opts ListOptions) ([]model.Donation, int, error)
}

// RequestRepository persists donation requests.
type RequestRepository interface {
	CreateRequest(ctx context.Context, r *model.DonationRequest) error
	RequestByID(ctx context.Context, id string) (*model.DonationRequest, error)
	RequestsByRequester(ctx context.Context, requesterID string, status model.ItemStatus, opts ListOptions) ([]model.DonationRequest, int, error)
	BrowseRequests(ctx context.Context, filter ItemFilter, opts ListOptions) ([]model.DonationRequest, int, error)
}

// MatchRepository persists matches and drives their status atomically.
type MatchRepository interface {
	// CreateMatch inserts a pending match. The composite unique indexes on
	// (user_id, donation_id) and (user_id, request_id) are the authority on
	// duplicates: a constraint violation comes back as Conflict, so two
	// concurrent proposals for the same pair cannot both land.
	CreateMatch(ctx context.Context, m *model.Match) error
	// MatchByID returns the match with its donation or request joined.
	MatchByID(ctx context.Context, id string) (*model.Match, error)
	MatchExists(ctx context.Context, userID, donationID, requestID string) (bool, error)
	// UpdateMatchStatus reads the current status and applies the transition
	// inside one transaction. Illegal transitions return Conflict; a missing
	// match returns NotFound.
	UpdateMatchStatus(ctx context.Context, id string, next model.MatchStatus, message string) (*model.Match, error)
	MatchesByUser(ctx context.Context, userID string, status model.MatchStatus, opts ListOptions) ([]model.Match, int, error)
}

// ReviewRepository persists post-match feedback.
type ReviewRepository interface {
	// CreateReview inserts a review. The unique index on
	// (match_id, reviewer_id) turns duplicates into Conflict.
	CreateReview(ctx context.Context, r *model.Review) error
	ReviewsByMatch(ctx context.Context, matchID string) ([]model.Review, error)
}

// CampaignRepository persists campaigns and their pledges.
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, c *model.Campaign) error
	CampaignByID(ctx context.Context, id string) (*model.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter, opts ListOptions) ([]model.Campaign, int, error)
	// CreatePledge verifies the campaign exists, inserts the pledge, and
	// increments the campaign's raised_cents in one transaction.
	CreatePledge(ctx context.Context, p *model.CampaignDonation) error
}

// StatsRepository aggregates the dashboard counters.
type StatsRepository interface {
	DonorStats(ctx context.Context, userID string) (*model.DashboardStats, error)
	RecipientStats(ctx context.Context, userID string) (*model.DashboardStats, error)
	IndividualStats(ctx context.Context, userID string) (*model.DashboardStats, error)
}
