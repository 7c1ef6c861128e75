package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
)

func seedMatch(t *testing.T, db *DB) (*model.Match, *model.User, *model.User) {
	t.Helper()
	donor := createTestUser(t, db, "donor@example.com", model.UserKindDonorCompany, model.CompanyKindRestaurant)
	charity := createTestUser(t, db, "charity@example.com", model.UserKindRecipientCompany, model.CompanyKindOrganization)
	donation := createTestDonation(t, db, donor.ID, "Injera")

	m := &model.Match{UserID: charity.ID, DonationID: donation.ID, Status: model.MatchStatusPending}
	if err := db.CreateMatch(context.Background(), m); err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}
	return m, donor, charity
}

func TestCreateReview_OnePerReviewerPerMatch(t *testing.T) {
	db := newTestDB(t)
	match, donor, charity := seedMatch(t, db)

	first := &model.Review{MatchID: match.ID, ReviewerID: charity.ID, Rating: 5, Comment: "smooth"}
	if err := db.CreateReview(context.Background(), first); err != nil {
		t.Fatalf("CreateReview() error = %v", err)
	}
	if first.ID == "" {
		t.Error("CreateReview() did not assign an ID")
	}

	dup := &model.Review{MatchID: match.ID, ReviewerID: charity.ID, Rating: 3}
	if err := db.CreateReview(context.Background(), dup); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate CreateReview() error = %v, want conflict", err)
	}

	// The other participant gets their own slot.
	second := &model.Review{MatchID: match.ID, ReviewerID: donor.ID, Rating: 4}
	if err := db.CreateReview(context.Background(), second); err != nil {
		t.Errorf("second reviewer's CreateReview() error = %v", err)
	}
}

func TestCreateReview_RatingCheck(t *testing.T) {
	db := newTestDB(t)
	match, _, charity := seedMatch(t, db)

	// The CHECK constraint is the backstop behind the service validation.
	bad := &model.Review{MatchID: match.ID, ReviewerID: charity.ID, Rating: 9}
	if err := db.CreateReview(context.Background(), bad); err == nil {
		t.Error("CreateReview() accepted a rating outside 1-5")
	}
}

func TestReviewsByMatch(t *testing.T) {
	db := newTestDB(t)
	match, donor, charity := seedMatch(t, db)

	for _, r := range []*model.Review{
		{MatchID: match.ID, ReviewerID: charity.ID, Rating: 5},
		{MatchID: match.ID, ReviewerID: donor.ID, Rating: 4},
	} {
		if err := db.CreateReview(context.Background(), r); err != nil {
			t.Fatalf("CreateReview() error = %v", err)
		}
	}

	reviews, err := db.ReviewsByMatch(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("ReviewsByMatch() error = %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("got %d reviews, want 2", len(reviews))
	}

	reviews, err = db.ReviewsByMatch(context.Background(), "missing")
	if err != nil {
		t.Fatalf("ReviewsByMatch(missing) error = %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("missing match returned %d reviews, want 0", len(reviews))
	}
}
