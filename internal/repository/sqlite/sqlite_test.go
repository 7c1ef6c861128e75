package sqlite

import (
	"context"
	"testing"

	"github.com/dagem/foodbridge/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, email string, kind model.UserKind, companyKind model.CompanyKind) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutlongenough",
		Name:         "Test User",
		Kind:         kind,
		Country:      "Ethiopia",
		IsActive:     true,
	}
	var company *model.Company
	if companyKind != "" {
		company = &model.Company{
			Name: "Test Company",
			Kind: companyKind,
		}
	}

	if err := db.CreateUser(context.Background(), user, company); err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return user
}

func createTestDonation(t *testing.T, db *DB, donorID, title string) *model.Donation {
	t.Helper()

	d := &model.Donation{
		DonorID:        donorID,
		Title:          title,
		Category:       "prepared_food",
		Quantity:       10,
		Unit:           "kg",
		PickupLocation: "Bole, Addis Ababa",
		Status:         model.ItemStatusActive,
	}
	if err := db.CreateDonation(context.Background(), d); err != nil {
		t.Fatalf("creating donation %q: %v", title, err)
	}
	return d
}

func createTestRequest(t *testing.T, db *DB, requesterID, title string) *model.DonationRequest {
	t.Helper()

	r := &model.DonationRequest{
		RequesterID:      requesterID,
		Title:            title,
		Category:         "grains",
		Quantity:         25,
		Unit:             "kg",
		Urgency:          model.UrgencyNormal,
		DeliveryLocation: "Kirkos, Addis Ababa",
		Status:           model.ItemStatusActive,
	}
	if err := db.CreateRequest(context.Background(), r); err != nil {
		t.Fatalf("creating request %q: %v", title, err)
	}
	return r
}
