package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/xid"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

var _ repository.MatchRepository = (*DB)(nil)

// CreateMatch inserts a pending match. The composite unique indexes on
// (user_id, donation_id) and (user_id, request_id) decide duplicates: a
// violation is returned as Conflict, so the check-then-insert race between
// two concurrent proposals resolves to exactly one winner.
func (db *DB) CreateMatch(ctx context.Context, m *model.Match) error {
	now := time.Now()
	m.ID = xid.New().String()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO donation_matches (id, user_id, donation_id, request_id, message,
		                               status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.UserID,
		nullStr(m.DonationID),
		nullStr(m.RequestID),
		m.Message,
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("a match already exists for this item")
		}
		return fmt.Errorf("sqlite: inserting match: %w", err)
	}

	return nil
}

// MatchByID returns the match with its donation or request payload loaded.
func (db *DB) MatchByID(ctx context.Context, id string) (*model.Match, error) {
	m, err := db.matchRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.attachPayload(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (db *DB) matchRow(ctx context.Context, id string) (*model.Match, error) {
	var (
		m          model.Match
		donationID sql.NullString
		requestID  sql.NullString
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, donation_id, request_id, message, status, created_at, updated_at
		 FROM donation_matches WHERE id = ?`,
		id,
	).Scan(&m.ID, &m.UserID, &donationID, &requestID, &m.Message, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("match", id)
		}
		return nil, fmt.Errorf("sqlite: getting match %s: %w", id, err)
	}
	m.DonationID = fromNullStr(donationID)
	m.RequestID = fromNullStr(requestID)
	return &m, nil
}

func (db *DB) attachPayload(ctx context.Context, m *model.Match) error {
	switch {
	case m.DonationID != "":
		d, err := db.DonationByID(ctx, m.DonationID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		m.Donation = d
	case m.RequestID != "":
		r, err := db.RequestByID(ctx, m.RequestID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		m.Request = r
	}
	return nil
}

func (db *DB) MatchExists(ctx context.Context, userID, donationID, requestID string) (bool, error) {
	where := sq.And{sq.Eq{"user_id": userID}}
	if donationID != "" {
		where = append(where, sq.Eq{"donation_id": donationID})
	} else {
		where = append(where, sq.Eq{"request_id": requestID})
	}

	query, args, err := builder().Select("COUNT(*)").From("donation_matches").Where(where).ToSql()
	if err != nil {
		return false, fmt.Errorf("sqlite: building match existence query: %w", err)
	}

	var count int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("sqlite: checking match existence: %w", err)
	}
	return count > 0, nil
}

// UpdateMatchStatus applies a state-machine transition atomically: the
// current status is read and the row updated inside one transaction, so
// two concurrent transitions cannot both pass the same precondition.
func (db *DB) UpdateMatchStatus(ctx context.Context, id string, next model.MatchStatus, message string) (*model.Match, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current model.MatchStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM donation_matches WHERE id = ?`, id,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("match", id)
		}
		return nil, fmt.Errorf("sqlite: reading match %s status: %w", id, err)
	}

	if !current.CanTransitionTo(next) {
		return nil, apperror.Conflict(
			fmt.Sprintf("cannot move match from %s to %s", current, next))
	}

	now := time.Now()
	if message != "" {
		_, err = tx.ExecContext(ctx,
			`UPDATE donation_matches SET status = ?, message = ?, updated_at = ? WHERE id = ?`,
			next, message, now, id)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE donation_matches SET status = ?, updated_at = ? WHERE id = ?`,
			next, now, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating match %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing match transition: %w", err)
	}

	return db.MatchByID(ctx, id)
}

func (db *DB) MatchesByUser(ctx context.Context, userID string, status model.MatchStatus, opts repository.ListOptions) ([]model.Match, int, error) {
	where := sq.And{sq.Eq{"user_id": userID}}
	if status != "" {
		where = append(where, sq.Eq{"status": status})
	}

	total, err := db.countRows(ctx, "donation_matches", where)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := builder().
		Select("id", "user_id", "donation_id", "request_id", "message", "status",
			"created_at", "updated_at").
		From("donation_matches").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: building matches query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing matches for %s: %w", userID, err)
	}
	defer rows.Close()

	matches := make([]model.Match, 0, opts.Limit)
	for rows.Next() {
		var (
			m          model.Match
			donationID sql.NullString
			requestID  sql.NullString
		)
		err := rows.Scan(&m.ID, &m.UserID, &donationID, &requestID, &m.Message,
			&m.Status, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning match row: %w", err)
		}
		m.DonationID = fromNullStr(donationID)
		m.RequestID = fromNullStr(requestID)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating match rows: %w", err)
	}

	// Attach payloads after the cursor closes; pages are small enough that
	// per-match lookups beat a doubled-up nullable join scan.
	for i := range matches {
		if err := db.attachPayload(ctx, &matches[i]); err != nil {
			return nil, 0, err
		}
	}

	return matches, total, nil
}
