package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

// ReviewService records post-completion feedback on matches.
type ReviewService struct {
	reviews repository.ReviewRepository
	matches repository.MatchRepository
	logger  *slog.Logger
}

func NewReviewService(
	reviews repository.ReviewRepository,
	matches repository.MatchRepository,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		matches: matches,
		logger:  logger,
	}
}

// participant reports whether userID took part in the match, either as the
// proposer or as the owner of the matched item.
func participant(m *model.Match, userID string) bool {
	if m.UserID == userID {
		return true
	}
	if m.Donation != nil && m.Donation.DonorID == userID {
		return true
	}
	if m.Request != nil && m.Request.RequesterID == userID {
		return true
	}
	return false
}

// Create records a review. Only participants of the match may review it,
// and each reviewer gets exactly one review per match; the unique index
// on (match_id, reviewer_id) backs the latter.
func (s *ReviewService) Create(ctx context.Context, reviewerID, matchID string, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.ValidationFailed("rating", "rating must be between 1 and 5")
	}

	match, err := s.matches.MatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if !participant(match, reviewerID) {
		return nil, apperror.Forbidden("only participants of this match can review it")
	}

	review := &model.Review{
		MatchID:    matchID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}

	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("review created",
		slog.String("matchID", matchID),
		slog.String("reviewerID", reviewerID),
		slog.Int("rating", rating),
	)

	return review, nil
}

// ByMatch lists all reviews for a match, newest first.
func (s *ReviewService) ByMatch(ctx context.Context, matchID string) ([]model.Review, error) {
	if _, err := s.matches.MatchByID(ctx, matchID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ReviewsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for match %s: %w", matchID, err)
	}
	return reviews, nil
}
