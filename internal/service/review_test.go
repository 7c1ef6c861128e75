package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
)

func newReviewFixture(t *testing.T) (*ReviewService, *model.Match) {
	t.Helper()

	matches := &fakeMatchRepo{}
	match := &model.Match{
		UserID:     "proposer-1",
		DonationID: "donation-1",
		Status:     model.MatchStatusCompleted,
		Donation:   &model.Donation{ID: "donation-1", DonorID: "donor-1"},
	}
	if err := matches.CreateMatch(context.Background(), match); err != nil {
		t.Fatalf("seeding match: %v", err)
	}

	return NewReviewService(&fakeReviewRepo{}, matches, testLogger()), match
}

func TestCreateReview(t *testing.T) {
	svc, match := newReviewFixture(t)

	r, err := svc.Create(context.Background(), "proposer-1", match.ID, 5, "smooth handover")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if r.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if r.Rating != 5 {
		t.Errorf("rating = %d, want 5", r.Rating)
	}
}

func TestCreateReview_RatingBounds(t *testing.T) {
	svc, match := newReviewFixture(t)

	for _, rating := range []int{0, -1, 6, 100} {
		if _, err := svc.Create(context.Background(), "proposer-1", match.ID, rating, ""); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create(rating=%d) error = %v, want validation", rating, err)
		}
	}
}

func TestCreateReview_MissingMatch(t *testing.T) {
	svc, _ := newReviewFixture(t)

	if _, err := svc.Create(context.Background(), "proposer-1", "no-such-match", 4, ""); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Create() error = %v, want not found", err)
	}
}

func TestCreateReview_Participants(t *testing.T) {
	tests := []struct {
		name       string
		reviewerID string
		wantErr    error
	}{
		{"proposer may review", "proposer-1", nil},
		{"item owner may review", "donor-1", nil},
		{"bystander may not", "stranger-1", apperror.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, match := newReviewFixture(t)

			_, err := svc.Create(context.Background(), tt.reviewerID, match.ID, 4, "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Create() error = %v", err)
			}
		})
	}
}

func TestCreateReview_RequestSideOwner(t *testing.T) {
	matches := &fakeMatchRepo{}
	match := &model.Match{
		UserID:    "proposer-1",
		RequestID: "request-1",
		Status:    model.MatchStatusCompleted,
		Request:   &model.DonationRequest{ID: "request-1", RequesterID: "requester-1"},
	}
	if err := matches.CreateMatch(context.Background(), match); err != nil {
		t.Fatalf("seeding match: %v", err)
	}
	svc := NewReviewService(&fakeReviewRepo{}, matches, testLogger())

	if _, err := svc.Create(context.Background(), "requester-1", match.ID, 3, ""); err != nil {
		t.Errorf("Create() by request owner: error = %v", err)
	}
}

func TestCreateReview_Duplicate(t *testing.T) {
	svc, match := newReviewFixture(t)

	if _, err := svc.Create(context.Background(), "proposer-1", match.ID, 5, ""); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if _, err := svc.Create(context.Background(), "proposer-1", match.ID, 4, ""); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Create() error = %v, want conflict", err)
	}

	// The other participant still gets their own review.
	if _, err := svc.Create(context.Background(), "donor-1", match.ID, 4, ""); err != nil {
		t.Errorf("other participant's Create() error = %v", err)
	}
}

func TestReviewsByMatch(t *testing.T) {
	svc, match := newReviewFixture(t)

	if _, err := svc.Create(context.Background(), "proposer-1", match.ID, 5, ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	reviews, err := svc.ByMatch(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("ByMatch() error = %v", err)
	}
	if len(reviews) != 1 {
		t.Errorf("got %d reviews, want 1", len(reviews))
	}

	if _, err := svc.ByMatch(context.Background(), "no-such-match"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ByMatch() error = %v, want not found", err)
	}
}
