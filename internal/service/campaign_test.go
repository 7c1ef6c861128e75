package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
)

type campaignFixture struct {
	svc         *CampaignService
	campaigns   *fakeCampaignRepo
	organizerID string
	plainID     string
}

func newCampaignFixture(t *testing.T) *campaignFixture {
	t.Helper()

	users := newFakeUserRepo()
	accounts := newAccountService(t, users)

	organizer, err := accounts.Register(context.Background(), RegisterInput{
		Name:        "Relief Drive",
		Email:       "organizer@example.com",
		Password:    "password123",
		Kind:        model.UserKindOrganizer,
		CompanyName: "Relief Drive NGO",
		CompanyKind: model.CompanyKindOrganization,
	})
	if err != nil {
		t.Fatalf("registering organizer: %v", err)
	}
	plain := registerIndividual(t, accounts, "plain@example.com")

	campaigns := &fakeCampaignRepo{}
	return &campaignFixture{
		svc:         NewCampaignService(campaigns, accounts, testLogger()),
		campaigns:   campaigns,
		organizerID: organizer.User.ID,
		plainID:     plain.ID,
	}
}

func validCampaignInput() CampaignInput {
	return CampaignInput{
		Title:       "Meskel Food Drive",
		Description: "Staple food packages for 200 families.",
		Category:    "food_security",
		Goal:        1234.56,
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateCampaign(t *testing.T) {
	fx := newCampaignFixture(t)

	c, err := fx.svc.Create(context.Background(), fx.organizerID, validCampaignInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.GoalCents != 123456 {
		t.Errorf("goalCents = %d, want 123456", c.GoalCents)
	}
	if c.Currency != "ETB" {
		t.Errorf("currency = %q, want default ETB", c.Currency)
	}
	if c.Status != model.CampaignStatusActive {
		t.Errorf("status = %q, want active", c.Status)
	}
	if c.RaisedCents != 0 {
		t.Errorf("raisedCents = %d, want 0", c.RaisedCents)
	}
}

func TestCreateCampaign_NonOrganizerForbidden(t *testing.T) {
	fx := newCampaignFixture(t)

	_, err := fx.svc.Create(context.Background(), fx.plainID, validCampaignInput())
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Create() error = %v, want forbidden", err)
	}
}

func TestCreateCampaign_Validation(t *testing.T) {
	fx := newCampaignFixture(t)

	endsBeforeStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	in := CampaignInput{
		Goal:    math.NaN(),
		EndDate: &endsBeforeStart,
	}
	in.StartDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := fx.svc.Create(context.Background(), fx.organizerID, in)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Create() error = %v, want validation", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Create() error is not *apperror.AppError: %v", err)
	}
	for _, field := range []string{"title", "description", "category", "goal", "endDate"} {
		if appErr.Fields[field] == "" {
			t.Errorf("missing field error for %q", field)
		}
	}
}

func TestPledge(t *testing.T) {
	fx := newCampaignFixture(t)

	c, err := fx.svc.Create(context.Background(), fx.organizerID, validCampaignInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p, err := fx.svc.Pledge(context.Background(), c.ID, fx.plainID, 250.50, "happy to help")
	if err != nil {
		t.Fatalf("Pledge() error = %v", err)
	}
	if p.AmountCents != 25050 {
		t.Errorf("amountCents = %d, want 25050", p.AmountCents)
	}
	if p.Currency != "ETB" {
		t.Errorf("currency = %q, want campaign's ETB", p.Currency)
	}
	if p.Status != model.PledgeStatusCompleted {
		t.Errorf("status = %q, want completed", p.Status)
	}

	if _, err := fx.svc.Pledge(context.Background(), c.ID, fx.plainID, 100, ""); err != nil {
		t.Fatalf("second Pledge() error = %v", err)
	}

	got, err := fx.svc.CampaignByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("CampaignByID() error = %v", err)
	}
	if got.RaisedCents != 25050+10000 {
		t.Errorf("raisedCents = %d, want %d", got.RaisedCents, 25050+10000)
	}
}

func TestPledge_BadAmount(t *testing.T) {
	fx := newCampaignFixture(t)

	for _, amount := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		if _, err := fx.svc.Pledge(context.Background(), "campaign-1", fx.plainID, amount, ""); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Pledge(%v) error = %v, want validation", amount, err)
		}
	}
}

func TestPledge_MissingCampaign(t *testing.T) {
	fx := newCampaignFixture(t)

	if _, err := fx.svc.Pledge(context.Background(), "no-such-campaign", fx.plainID, 100, ""); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Pledge() error = %v, want not found", err)
	}
}

func TestPledge_ClosedCampaign(t *testing.T) {
	fx := newCampaignFixture(t)

	c, err := fx.svc.Create(context.Background(), fx.organizerID, validCampaignInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	fx.campaigns.campaigns[0].Status = model.CampaignStatusClosed

	if _, err := fx.svc.Pledge(context.Background(), c.ID, fx.plainID, 100, ""); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Pledge() error = %v, want conflict", err)
	}
}

func TestListCampaigns_StatusFilter(t *testing.T) {
	fx := newCampaignFixture(t)

	if _, err := fx.svc.Create(context.Background(), fx.organizerID, validCampaignInput()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	items, meta, err := fx.svc.List(context.Background(), "", "active", PageRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || meta.Total != 1 {
		t.Errorf("got %d items (total %d), want 1", len(items), meta.Total)
	}

	if _, _, err := fx.svc.List(context.Background(), "", "broken", PageRequest{}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("invalid filter: error = %v, want validation", err)
	}
}
