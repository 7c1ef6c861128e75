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

var _ repository.CampaignRepository = (*DB)(nil)

func (db *DB) CreateCampaign(ctx context.Context, c *model.Campaign) error {
	now := time.Now()
	c.ID = xid.New().String()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO campaigns (id, organizer_id, title, description, category, goal_cents,
		                        raised_cents, currency, start_date, end_date, target_location,
		                        image_url, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.OrganizerID,
		c.Title,
		c.Description,
		c.Category,
		c.GoalCents,
		c.RaisedCents,
		c.Currency,
		c.StartDate,
		nullTime(c.EndDate),
		c.TargetLocation,
		c.ImageURL,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting campaign: %w", err)
	}

	return nil
}

func (db *DB) CampaignByID(ctx context.Context, id string) (*model.Campaign, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, organizer_id, title, description, category, goal_cents, raised_cents,
		        currency, start_date, end_date, target_location, image_url, status,
		        created_at, updated_at
		 FROM campaigns WHERE id = ?`,
		id,
	)

	c, err := scanCampaign(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("campaign", id)
		}
		return nil, fmt.Errorf("sqlite: getting campaign %s: %w", id, err)
	}
	return c, nil
}

func (db *DB) ListCampaigns(ctx context.Context, filter repository.CampaignFilter, opts repository.ListOptions) ([]model.Campaign, int, error) {
	countWhere := sq.And{sq.Expr("1 = 1")}
	where := sq.And{sq.Expr("1 = 1")}
	if filter.Status != "" {
		countWhere = append(countWhere, sq.Eq{"status": filter.Status})
		where = append(where, sq.Eq{"cp.status": filter.Status})
	}
	if filter.Category != "" {
		countWhere = append(countWhere, sq.Eq{"category": filter.Category})
		where = append(where, sq.Eq{"cp.category": filter.Category})
	}

	total, err := db.countRows(ctx, "campaigns", countWhere)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := builder().
		Select("cp.id", "cp.organizer_id", "cp.title", "cp.description", "cp.category",
			"cp.goal_cents", "cp.raised_cents", "cp.currency", "cp.start_date", "cp.end_date",
			"cp.target_location", "cp.image_url", "cp.status", "cp.created_at", "cp.updated_at",
			"COALESCE(u.name, '')", "COALESCE(c.name, '')").
		From("campaigns cp").
		LeftJoin("users u ON u.id = cp.organizer_id").
		LeftJoin("companies c ON c.user_id = u.id").
		Where(where).
		OrderBy("cp.created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: building campaigns query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]model.Campaign, 0, opts.Limit)
	for rows.Next() {
		var (
			c       model.Campaign
			endDate sql.NullTime
		)
		err := rows.Scan(
			&c.ID, &c.OrganizerID, &c.Title, &c.Description, &c.Category,
			&c.GoalCents, &c.RaisedCents, &c.Currency, &c.StartDate, &endDate,
			&c.TargetLocation, &c.ImageURL, &c.Status, &c.CreatedAt, &c.UpdatedAt,
			&c.OrganizerName, &c.CompanyName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning campaign row: %w", err)
		}
		c.EndDate = fromNullTime(endDate)
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating campaign rows: %w", err)
	}

	return campaigns, total, nil
}

// CreatePledge records a pledge and bumps the campaign's raised total in
// the same transaction. Without the shared transaction two concurrent
// pledges could read the same raised value and lose one increment; the
// relative UPDATE keeps the aggregation exact under concurrent writers.
func (db *DB) CreatePledge(ctx context.Context, p *model.CampaignDonation) error {
	p.ID = xid.New().String()
	p.CreatedAt = time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaigns WHERE id = ?`, p.CampaignID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking campaign %s: %w", p.CampaignID, err)
	}
	if exists == 0 {
		return apperror.NotFound("campaign", p.CampaignID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO campaign_donations (id, campaign_id, donor_id, amount_cents, currency,
		                                 message, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.CampaignID,
		p.DonorID,
		p.AmountCents,
		p.Currency,
		p.Message,
		p.Status,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting pledge: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE campaigns SET raised_cents = raised_cents + ?, updated_at = ? WHERE id = ?`,
		p.AmountCents, p.CreatedAt, p.CampaignID)
	if err != nil {
		return fmt.Errorf("sqlite: incrementing raised total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing pledge: %w", err)
	}
	return nil
}

func scanCampaign(scan func(...any) error) (*model.Campaign, error) {
	var (
		c       model.Campaign
		endDate sql.NullTime
	)
	err := scan(
		&c.ID, &c.OrganizerID, &c.Title, &c.Description, &c.Category,
		&c.GoalCents, &c.RaisedCents, &c.Currency, &c.StartDate, &endDate,
		&c.TargetLocation, &c.ImageURL, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.EndDate = fromNullTime(endDate)
	return &c, nil
}
