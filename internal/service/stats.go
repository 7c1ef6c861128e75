package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

// StatsService assembles the dashboard summary for the caller's account
// shape: donor companies see donation aggregates, recipient organizations
// see request aggregates, individuals see both sides of their activity.
type StatsService struct {
	stats    repository.StatsRepository
	accounts *AccountService
	logger   *slog.Logger
}

func NewStatsService(stats repository.StatsRepository, accounts *AccountService, logger *slog.Logger) *StatsService {
	return &StatsService{stats: stats, accounts: accounts, logger: logger}
}

// Dashboard returns the stats block matching the caller's capabilities.
func (s *StatsService) Dashboard(ctx context.Context, userID string) (*model.DashboardStats, error) {
	caps, err := s.accounts.Capabilities(ctx, userID)
	if err != nil {
		return nil, err
	}

	var stats *model.DashboardStats
	switch {
	case caps.IsDonorCompany:
		stats, err = s.stats.DonorStats(ctx, userID)
	case caps.IsRecipientCompany:
		stats, err = s.stats.RecipientStats(ctx, userID)
	default:
		stats, err = s.stats.IndividualStats(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("building dashboard for %s: %w", userID, err)
	}

	return stats, nil
}
