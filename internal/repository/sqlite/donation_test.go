package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

func TestCreateAndGetDonation(t *testing.T) {
	db := newTestDB(t)
	donor := createTestUser(t, db, "donor@example.com", model.UserKindDonorCompany, model.CompanyKindRestaurant)

	created := createTestDonation(t, db, donor.ID, "Day-old injera")

	got, err := db.DonationByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("DonationByID() error = %v", err)
	}
	if got.Title != "Day-old injera" {
		t.Errorf("title = %q, want %q", got.Title, "Day-old injera")
	}
	if got.Status != model.ItemStatusActive {
		t.Errorf("status = %q, want active", got.Status)
	}

	if _, err := db.DonationByID(context.Background(), "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DonationByID(missing) error = %v, want not found", err)
	}
}

func TestDonationsByDonor(t *testing.T) {
	db := newTestDB(t)
	donor := createTestUser(t, db, "donor@example.com", model.UserKindDonorCompany, model.CompanyKindRestaurant)
	other := createTestUser(t, db, "other@example.com", model.UserKindDonorCompany, model.CompanyKindGroceryStore)

	for i := 0; i < 15; i++ {
		createTestDonation(t, db, donor.ID, "Mine")
	}
	createTestDonation(t, db, other.ID, "Theirs")

	items, total, err := db.DonationsByDonor(context.Background(), donor.ID, "", repository.ListOptions{Limit: 10, Offset: 10})
	if err != nil {
		t.Fatalf("DonationsByDonor() error = %v", err)
	}
	if total != 15 {
		t.Errorf("total = %d, want 15", total)
	}
	if len(items) != 5 {
		t.Errorf("second page has %d items, want 5", len(items))
	}
	for _, d := range items {
		if d.DonorID != donor.ID {
			t.Errorf("donation %s belongs to %s, want %s", d.ID, d.DonorID, donor.ID)
		}
	}
}

func TestDonationsByDonor_StatusFilter(t *testing.T) {
	db := newTestDB(t)
	donor := createTestUser(t, db, "donor@example.com", model.UserKindDonorCompany, model.CompanyKindRestaurant)

	active := createTestDonation(t, db, donor.ID, "Active one")
	cancelled := createTestDonation(t, db, donor.ID, "Cancelled one")
	if _, err := db.conn.Exec(`UPDATE donations SET status = 'cancelled' WHERE id = ?`, cancelled.ID); err != nil {
		t.Fatalf("marking donation cancelled: %v", err)
	}

	items, total, err := db.DonationsByDonor(context.Background(), donor.ID, model.ItemStatusActive, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("DonationsByDonor() error = %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != active.ID {
		t.Errorf("active filter returned %d items (total %d), want only %s", len(items), total, active.ID)
	}
}

func TestBrowseDonations_JoinsNamesAndFilters(t *testing.T) {
	db := newTestDB(t)
	donor := createTestUser(t, db, "donor@example.com", model.UserKindDonorCompany, model.CompanyKindRestaurant)
	createTestDonation(t, db, donor.ID, "Injera batch")

	items, total, err := db.BrowseDonations(context.Background(),
		repository.ItemFilter{Status: model.ItemStatusActive, Location: "bole"},
		repository.ListOptions{Limit: 10},
	)
	if err != nil {
		t.Fatalf("BrowseDonations() error = %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("got %d items (total %d), want 1", len(items), total)
	}
	if items[0].DonorName != "Test User" {
		t.Errorf("donorName = %q, want joined user name", items[0].DonorName)
	}
	if items[0].CompanyName != "Test Company" {
		t.Errorf("companyName = %q, want joined company name", items[0].CompanyName)
	}

	// Location is a case-insensitive substring match; a non-matching
	// location excludes the row.
	_, total, err = db.BrowseDonations(context.Background(),
		repository.ItemFilter{Status: model.ItemStatusActive, Location: "gondar"},
		repository.ListOptions{Limit: 10},
	)
	if err != nil {
		t.Fatalf("BrowseDonations() error = %v", err)
	}
	if total != 0 {
		t.Errorf("non-matching location returned total %d, want 0", total)
	}
}

func TestBrowseRequests_UrgencyFilter(t *testing.T) {
	db := newTestDB(t)
	requester := createTestUser(t, db, "charity@example.com", model.UserKindRecipientCompany, model.CompanyKindOrganization)

	normal := createTestRequest(t, db, requester.ID, "Rice")
	urgent := createTestRequest(t, db, requester.ID, "Water")
	if _, err := db.conn.Exec(`UPDATE donation_requests SET urgency = 'high' WHERE id = ?`, urgent.ID); err != nil {
		t.Fatalf("marking request urgent: %v", err)
	}

	items, total, err := db.BrowseRequests(context.Background(),
		repository.ItemFilter{Status: model.ItemStatusActive, Urgency: model.UrgencyHigh},
		repository.ListOptions{Limit: 10},
	)
	if err != nil {
		t.Fatalf("BrowseRequests() error = %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != urgent.ID {
		t.Errorf("urgency filter returned %d items (total %d), want only %s", len(items), total, urgent.ID)
	}
	if items[0].ID == normal.ID {
		t.Error("normal-urgency request leaked through the filter")
	}
}
