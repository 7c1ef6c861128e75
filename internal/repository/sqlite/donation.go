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

var _ repository.DonationRepository = (*DB)(nil)

func (db *DB) CreateDonation(ctx context.Context, d *model.Donation) error {
	now := time.Now()
	d.ID = xid.New().String()
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO donations (id, donor_id, recipient_id, title, category, description,
		                        quantity, unit, pickup_location, pickup_time, expiry_date,
		                        special_instructions, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.DonorID,
		nullStr(d.RecipientID),
		d.Title,
		d.Category,
		d.Description,
		d.Quantity,
		d.Unit,
		d.PickupLocation,
		nullTime(d.PickupTime),
		nullTime(d.ExpiryDate),
		d.SpecialInstructions,
		d.Status,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting donation: %w", err)
	}

	return nil
}

func (db *DB) DonationByID(ctx context.Context, id string) (*model.Donation, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, donor_id, recipient_id, title, category, description, quantity, unit,
		        pickup_location, pickup_time, expiry_date, special_instructions, status,
		        created_at, updated_at
		 FROM donations WHERE id = ?`,
		id,
	)

	d, err := scanDonation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("donation", id)
		}
		return nil, fmt.Errorf("sqlite: getting donation %s: %w", id, err)
	}
	return d, nil
}

func (db *DB) DonationsByDonor(ctx context.Context, donorID string, status model.ItemStatus, opts repository.ListOptions) ([]model.Donation, int, error) {
	where := sq.And{sq.Eq{"donor_id": donorID}}
	if status != "" {
		where = append(where, sq.Eq{"status": status})
	}

	total, err := db.countRows(ctx, "donations", where)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := builder().
		Select("id", "donor_id", "recipient_id", "title", "category", "description",
			"quantity", "unit", "pickup_location", "pickup_time", "expiry_date",
			"special_instructions", "status", "created_at", "updated_at").
		From("donations").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: building donations query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing donations for donor %s: %w", donorID, err)
	}
	defer rows.Close()

	donations := make([]model.Donation, 0, opts.Limit)
	for rows.Next() {
		d, err := scanDonation(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning donation row: %w", err)
		}
		donations = append(donations, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating donation rows: %w", err)
	}

	return donations, total, nil
}

// BrowseDonations lists active (or otherwise filtered) donations with the
// donor's display name and company name joined in for presentation.
func (db *DB) BrowseDonations(ctx context.Context, filter repository.ItemFilter, opts repository.ListOptions) ([]model.Donation, int, error) {
	where := itemWhere(filter, "d.pickup_location", "d")

	countWhere := itemWhere(filter, "pickup_location", "")
	total, err := db.countRows(ctx, "donations", countWhere)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := builder().
		Select("d.id", "d.donor_id", "d.recipient_id", "d.title", "d.category", "d.description",
			"d.quantity", "d.unit", "d.pickup_location", "d.pickup_time", "d.expiry_date",
			"d.special_instructions", "d.status", "d.created_at", "d.updated_at",
			"COALESCE(u.name, '')", "COALESCE(c.name, '')").
		From("donations d").
		LeftJoin("users u ON u.id = d.donor_id").
		LeftJoin("companies c ON c.user_id = u.id").
		Where(where).
		OrderBy("d.created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: building browse query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: browsing donations: %w", err)
	}
	defer rows.Close()

	donations := make([]model.Donation, 0, opts.Limit)
	for rows.Next() {
		var (
			d           model.Donation
			recipientID sql.NullString
			pickupTime  sql.NullTime
			expiryDate  sql.NullTime
		)
		err := rows.Scan(
			&d.ID, &d.DonorID, &recipientID, &d.Title, &d.Category, &d.Description,
			&d.Quantity, &d.Unit, &d.PickupLocation, &pickupTime, &expiryDate,
			&d.SpecialInstructions, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.DonorName, &d.CompanyName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning browse row: %w", err)
		}
		d.RecipientID = fromNullStr(recipientID)
		d.PickupTime = fromNullTime(pickupTime)
		d.ExpiryDate = fromNullTime(expiryDate)
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating browse rows: %w", err)
	}

	return donations, total, nil
}

// itemWhere builds the shared browse filter. locationCol is the
// table-qualified location column; prefix qualifies the other columns when
// the query joins ("" for single-table counts).
func itemWhere(filter repository.ItemFilter, locationCol, prefix string) sq.And {
	col := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}

	where := sq.And{}
	if filter.Status != "" {
		where = append(where, sq.Eq{col("status"): filter.Status})
	}
	if filter.Category != "" {
		where = append(where, sq.Eq{col("category"): filter.Category})
	}
	if filter.Location != "" {
		where = append(where, sq.Expr(
			"LOWER("+locationCol+") LIKE '%' || LOWER(?) || '%'", filter.Location))
	}
	if filter.Urgency != "" {
		where = append(where, sq.Eq{col("urgency"): filter.Urgency})
	}
	if len(where) == 0 {
		where = append(where, sq.Expr("1 = 1"))
	}
	return where
}

func (db *DB) countRows(ctx context.Context, table string, where sq.Sqlizer) (int, error) {
	query, args, err := builder().Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("sqlite: building count query for %s: %w", table, err)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sqlite: counting %s: %w", table, err)
	}
	return total, nil
}

// scanDonation reads one donation row in canonical column order.
func scanDonation(scan func(...any) error) (*model.Donation, error) {
	var (
		d           model.Donation
		recipientID sql.NullString
		pickupTime  sql.NullTime
		expiryDate  sql.NullTime
	)
	err := scan(
		&d.ID, &d.DonorID, &recipientID, &d.Title, &d.Category, &d.Description,
		&d.Quantity, &d.Unit, &d.PickupLocation, &pickupTime, &expiryDate,
		&d.SpecialInstructions, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.RecipientID = fromNullStr(recipientID)
	d.PickupTime = fromNullTime(pickupTime)
	d.ExpiryDate = fromNullTime(expiryDate)
	return &d, nil
}
