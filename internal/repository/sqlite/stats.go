package sqlite

import (
	"context"
	"fmt"

	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

var _ repository.StatsRepository = (*DB)(nil)

// DonorStats aggregates the business dashboard counters.
func (db *DB) DonorStats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{UserType: "Business"}

	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(CASE WHEN status = 'active' THEN 1 END),
		        COUNT(CASE WHEN status = 'completed' THEN 1 END),
		        COUNT(DISTINCT recipient_id)
		 FROM donations WHERE donor_id = ?`,
		userID,
	).Scan(&stats.TotalDonations, &stats.ActiveDonations, &stats.CompletedDonations, &stats.TotalRecipients)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating donor stats for %s: %w", userID, err)
	}

	return stats, nil
}

// RecipientStats aggregates the charity dashboard counters.
func (db *DB) RecipientStats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{UserType: "Charity"}

	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(CASE WHEN status = 'active' THEN 1 END),
		        COUNT(CASE WHEN status = 'completed' THEN 1 END)
		 FROM donation_requests WHERE requester_id = ?`,
		userID,
	).Scan(&stats.TotalRequests, &stats.ActiveRequests, &stats.CompletedRequests)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating recipient stats for %s: %w", userID, err)
	}

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM donation_matches WHERE user_id = ?`, userID,
	).Scan(&stats.TotalMatches)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting matches for %s: %w", userID, err)
	}

	return stats, nil
}

// IndividualStats aggregates the individual dashboard counters.
func (db *DB) IndividualStats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{UserType: "Individual"}

	err := db.conn.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM donations WHERE donor_id = ?),
		   (SELECT COUNT(*) FROM donation_requests WHERE requester_id = ?),
		   (SELECT COUNT(*) FROM donation_matches WHERE user_id = ?)`,
		userID, userID, userID,
	).Scan(&stats.TotalDonations, &stats.TotalRequests, &stats.TotalMatches)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating individual stats for %s: %w", userID, err)
	}

	return stats, nil
}
