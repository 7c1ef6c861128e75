package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

// In-memory fakes for the repository interfaces. They mirror the store's
// observable behavior, including the Conflict errors the unique indexes
// produce, so services can be tested without a database.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	seq       int
	users     map[string]*model.User
	companies map[string]*model.Company
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     map[string]*model.User{},
		companies: map[string]*model.Company{},
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User, company *model.Company) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("an account with this email already exists")
		}
	}
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	if company != nil {
		company.ID = fmt.Sprintf("company-%d", f.seq)
		company.UserID = user.ID
		f.companies[user.ID] = company
	}
	return nil
}

func (f *fakeUserRepo) UserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeUserRepo) UserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) CompanyByUserID(_ context.Context, userID string) (*model.Company, error) {
	c, ok := f.companies[userID]
	if !ok {
		return nil, apperror.NotFound("company for user", userID)
	}
	return c, nil
}

type fakeDonationRepo struct {
	seq       int
	donations []*model.Donation
}

var _ repository.DonationRepository = (*fakeDonationRepo)(nil)

func (f *fakeDonationRepo) CreateDonation(_ context.Context, d *model.Donation) error {
	f.seq++
	d.ID = fmt.Sprintf("donation-%d", f.seq)
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	f.donations = append(f.donations, d)
	return nil
}

func (f *fakeDonationRepo) DonationByID(_ context.Context, id string) (*model.Donation, error) {
	for _, d := range f.donations {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, apperror.NotFound("donation", id)
}

func (f *fakeDonationRepo) DonationsByDonor(_ context.Context, donorID string, status model.ItemStatus, opts repository.ListOptions) ([]model.Donation, int, error) {
	var all []model.Donation
	for _, d := range f.donations {
		if d.DonorID != donorID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		all = append(all, *d)
	}
	return page(all, opts), len(all), nil
}

func (f *fakeDonationRepo) BrowseDonations(_ context.Context, filter repository.ItemFilter, opts repository.ListOptions) ([]model.Donation, int, error) {
	var all []model.Donation
	for _, d := range f.donations {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		all = append(all, *d)
	}
	return page(all, opts), len(all), nil
}

type fakeRequestRepo struct {
	seq      int
	requests []*model.DonationRequest
}

var _ repository.RequestRepository = (*fakeRequestRepo)(nil)

func (f *fakeRequestRepo) CreateRequest(_ context.Context, r *model.DonationRequest) error {
	f.seq++
	r.ID = fmt.Sprintf("request-%d", f.seq)
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.requests = append(f.requests, r)
	return nil
}

func (f *fakeRequestRepo) RequestByID(_ context.Context, id string) (*model.DonationRequest, error) {
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperror.NotFound("request", id)
}

func (f *fakeRequestRepo) RequestsByRequester(_ context.Context, requesterID string, status model.ItemStatus, opts repository.ListOptions) ([]model.DonationRequest, int, error) {
	var all []model.DonationRequest
	for _, r := range f.requests {
		if r.RequesterID != requesterID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		all = append(all, *r)
	}
	return page(all, opts), len(all), nil
}

func (f *fakeRequestRepo) BrowseRequests(_ context.Context, filter repository.ItemFilter, opts repository.ListOptions) ([]model.DonationRequest, int, error) {
	var all []model.DonationRequest
	for _, r := range f.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Urgency != "" && r.Urgency != filter.Urgency {
			continue
		}
		all = append(all, *r)
	}
	return page(all, opts), len(all), nil
}

type fakeMatchRepo struct {
	seq     int
	matches []*model.Match
}

var _ repository.MatchRepository = (*fakeMatchRepo)(nil)

func (f *fakeMatchRepo) CreateMatch(_ context.Context, m *model.Match) error {
	for _, existing := range f.matches {
		if existing.UserID != m.UserID {
			continue
		}
		if m.DonationID != "" && existing.DonationID == m.DonationID {
			return apperror.Conflict("a match already exists for this item")
		}
		if m.RequestID != "" && existing.RequestID == m.RequestID {
			return apperror.Conflict("a match already exists for this item")
		}
	}
	f.seq++
	m.ID = fmt.Sprintf("match-%d", f.seq)
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	f.matches = append(f.matches, m)
	return nil
}

func (f *fakeMatchRepo) MatchByID(_ context.Context, id string) (*model.Match, error) {
	for _, m := range f.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, apperror.NotFound("match", id)
}

func (f *fakeMatchRepo) MatchExists(_ context.Context, userID, donationID, requestID string) (bool, error) {
	for _, m := range f.matches {
		if m.UserID != userID {
			continue
		}
		if donationID != "" && m.DonationID == donationID {
			return true, nil
		}
		if requestID != "" && m.RequestID == requestID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMatchRepo) UpdateMatchStatus(ctx context.Context, id string, next model.MatchStatus, message string) (*model.Match, error) {
	m, err := f.MatchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.Status.CanTransitionTo(next) {
		return nil, apperror.Conflict(fmt.Sprintf("cannot move match from %s to %s", m.Status, next))
	}
	m.Status = next
	if message != "" {
		m.Message = message
	}
	m.UpdatedAt = time.Now()
	return m, nil
}

func (f *fakeMatchRepo) MatchesByUser(_ context.Context, userID string, status model.MatchStatus, opts repository.ListOptions) ([]model.Match, int, error) {
	var all []model.Match
	for _, m := range f.matches {
		if m.UserID != userID {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		all = append(all, *m)
	}
	return page(all, opts), len(all), nil
}

type fakeReviewRepo struct {
	seq     int
	reviews []*model.Review
}

var _ repository.ReviewRepository = (*fakeReviewRepo)(nil)

func (f *fakeReviewRepo) CreateReview(_ context.Context, r *model.Review) error {
	for _, existing := range f.reviews {
		if existing.MatchID == r.MatchID && existing.ReviewerID == r.ReviewerID {
			return apperror.Conflict("you have already reviewed this match")
		}
	}
	f.seq++
	r.ID = fmt.Sprintf("review-%d", f.seq)
	r.CreatedAt = time.Now()
	f.reviews = append(f.reviews, r)
	return nil
}

func (f *fakeReviewRepo) ReviewsByMatch(_ context.Context, matchID string) ([]model.Review, error) {
	var out []model.Review
	for _, r := range f.reviews {
		if r.MatchID == matchID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeCampaignRepo struct {
	seq       int
	campaigns []*model.Campaign
	pledges   []*model.CampaignDonation
}

var _ repository.CampaignRepository = (*fakeCampaignRepo)(nil)

func (f *fakeCampaignRepo) CreateCampaign(_ context.Context, c *model.Campaign) error {
	f.seq++
	c.ID = fmt.Sprintf("campaign-%d", f.seq)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.campaigns = append(f.campaigns, c)
	return nil
}

func (f *fakeCampaignRepo) CampaignByID(_ context.Context, id string) (*model.Campaign, error) {
	for _, c := range f.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperror.NotFound("campaign", id)
}

func (f *fakeCampaignRepo) ListCampaigns(_ context.Context, filter repository.CampaignFilter, opts repository.ListOptions) ([]model.Campaign, int, error) {
	var all []model.Campaign
	for _, c := range f.campaigns {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		all = append(all, *c)
	}
	return page(all, opts), len(all), nil
}

func (f *fakeCampaignRepo) CreatePledge(ctx context.Context, p *model.CampaignDonation) error {
	c, err := f.CampaignByID(ctx, p.CampaignID)
	if err != nil {
		return err
	}
	f.seq++
	p.ID = fmt.Sprintf("pledge-%d", f.seq)
	p.CreatedAt = time.Now()
	f.pledges = append(f.pledges, p)
	c.RaisedCents += p.AmountCents
	return nil
}

type fakeStatsRepo struct {
	donor      model.DashboardStats
	recipient  model.DashboardStats
	individual model.DashboardStats
}

var _ repository.StatsRepository = (*fakeStatsRepo)(nil)

func (f *fakeStatsRepo) DonorStats(context.Context, string) (*model.DashboardStats, error) {
	s := f.donor
	return &s, nil
}

func (f *fakeStatsRepo) RecipientStats(context.Context, string) (*model.DashboardStats, error) {
	s := f.recipient
	return &s, nil
}

func (f *fakeStatsRepo) IndividualStats(context.Context, string) (*model.DashboardStats, error) {
	s := f.individual
	return &s, nil
}

func page[T any](all []T, opts repository.ListOptions) []T {
	if opts.Offset >= len(all) {
		return nil
	}
	end := opts.Offset + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[opts.Offset:end]
}
