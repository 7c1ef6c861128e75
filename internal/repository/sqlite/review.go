package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

var _ repository.ReviewRepository = (*DB)(nil)

// CreateReview inserts a review. The unique index on (match_id, reviewer_id)
// is the authority on duplicates; a violation is returned as Conflict.
func (db *DB) CreateReview(ctx context.Context, r *model.Review) error {
	r.ID = xid.New().String()
	r.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO donation_reviews (id, match_id, reviewer_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.MatchID,
		r.ReviewerID,
		r.Rating,
		r.Comment,
		r.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("you have already reviewed this match")
		}
		return fmt.Errorf("sqlite: inserting review: %w", err)
	}

	return nil
}

func (db *DB) ReviewsByMatch(ctx context.Context, matchID string) ([]model.Review, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, match_id, reviewer_id, rating, comment, created_at
		 FROM donation_reviews WHERE match_id = ? ORDER BY created_at DESC`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reviews for match %s: %w", matchID, err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.MatchID, &r.ReviewerID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating review rows: %w", err)
	}

	return reviews, nil
}
