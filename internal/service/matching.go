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

// MatchingService links donations and requests to interested users and
// drives the match state machine.
type MatchingService struct {
	matches   repository.MatchRepository
	donations repository.DonationRepository
	requests  repository.RequestRepository
	logger    *slog.Logger
}

func NewMatchingService(
	matches repository.MatchRepository,
	donations repository.DonationRepository,
	requests repository.RequestRepository,
	logger *slog.Logger,
) *MatchingService {
	return &MatchingService{
		matches:   matches,
		donations: donations,
		requests:  requests,
		logger:    logger,
	}
}

// Propose creates a pending match for exactly one of donationID/requestID.
// The pre-check gives a friendly duplicate message, but the store's unique
// constraint is the authority: a concurrent duplicate that slips past the
// check still comes back as Conflict from CreateMatch.
func (s *MatchingService) Propose(ctx context.Context, actorID, donationID, requestID, message string) (*model.Match, error) {
	if (donationID == "") == (requestID == "") {
		return nil, apperror.ValidationFailed("donationId",
			"exactly one of donationId or requestId is required")
	}

	if donationID != "" {
		if _, err := s.donations.DonationByID(ctx, donationID); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.requests.RequestByID(ctx, requestID); err != nil {
			return nil, err
		}
	}

	exists, err := s.matches.MatchExists(ctx, actorID, donationID, requestID)
	if err != nil {
		return nil, fmt.Errorf("checking for existing match: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("a match already exists for this item")
	}

	match := &model.Match{
		UserID:     actorID,
		DonationID: donationID,
		RequestID:  requestID,
		Message:    strings.TrimSpace(message),
		Status:     model.MatchStatusPending,
	}

	if err := s.matches.CreateMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("proposing match: %w", err)
	}

	s.logger.Info("match proposed",
		slog.String("id", match.ID),
		slog.String("actorID", actorID),
	)

	return match, nil
}

// UpdateStatus advances the match state machine. The target must be one of
// accepted/rejected/completed; the transition itself is validated against
// the current status atomically in the store.
func (s *MatchingService) UpdateStatus(ctx context.Context, matchID, status, message string) (*model.Match, error) {
	next := model.MatchStatus(status)
	switch next {
	case model.MatchStatusAccepted, model.MatchStatusRejected, model.MatchStatusCompleted:
	default:
		return nil, apperror.ValidationFailed("status",
			"status must be accepted, rejected, or completed")
	}

	match, err := s.matches.UpdateMatchStatus(ctx, matchID, next, strings.TrimSpace(message))
	if err != nil {
		return nil, err
	}

	s.logger.Info("match status updated",
		slog.String("id", matchID),
		slog.String("status", status),
	)

	return match, nil
}

// MyMatches lists matches the caller proposed, with the donation/request
// payload attached.
func (s *MatchingService) MyMatches(ctx context.Context, userID, status string, page PageRequest) ([]model.Match, PageMeta, error) {
	var st model.MatchStatus
	if status != "" && status != "all" {
		st = model.MatchStatus(status)
		if !st.Valid() {
			return nil, PageMeta{}, apperror.ValidationFailed("status", "invalid status filter")
		}
	}

	limit, offset := page.normalize()
	items, total, err := s.matches.MatchesByUser(ctx, userID, st, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("listing matches: %w", err)
	}

	return items, pageMeta(page, limit, total), nil
}
