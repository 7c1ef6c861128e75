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

var _ repository.RequestRepository = (*DB)(nil)

func (db *DB) CreateRequest(ctx context.Context, r *model.DonationRequest) error {
	now := time.Now()
	r.ID = xid.New().String()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO donation_requests (id, requester_id, title, category, description,
		                                quantity, unit, urgency, delivery_location,
		                                delivery_time, needed_by, special_requirements,
		                                status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.RequesterID,
		r.Title,
		r.Category,
		r.Description,
		r.Quantity,
		r.Unit,
		r.Urgency,
		r.DeliveryLocation,
		nullTime(r.DeliveryTime),
		nullTime(r.NeededBy),
		r.SpecialRequirements,
		r.Status,
		r.CreatedAt,
		r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting request: %w", err)
	}

	return nil
}

func (db *DB) RequestByID(ctx context.Context, id string) (*model.DonationRequest, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, requester_id, title, category, description, quantity, unit, urgency,
		        delivery_location, delivery_time, needed_by, special_requirements, status,
		        created_at, updated_at
		 FROM donation_requests WHERE id = ?`,
		id,
	)

	r, err := scanRequest(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("request", id)
		}
		return nil, fmt.Errorf("sqlite: getting request %s: %w", id, err)
	}
	return r, nil
}

func (db *DB) RequestsByRequester(ctx context.Context, requesterID string, status model.ItemStatus, opts repository.ListOptions) ([]model.DonationRequest, int, error) {
	where := sq.And{sq.Eq{"requester_id": requesterID}}
	if status != "" {
		where = append(where, sq.Eq{"status": status})
	}

	total, err := db.countRows(ctx, "donation_requests", where)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := builder().
		Select("id", "requester_id", "title", "category", "description", "quantity", "unit",
			"urgency", "delivery_location", "delivery_time", "needed_by",
			"special_requirements", "status", "created_at", "updated_at").
		From("donation_requests").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: building requests query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing requests for %s: %w", requesterID, err)
	}
	defer rows.Close()

	requests := make([]model.DonationRequest, 0, opts.Limit)
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning request row: %w", err)
		}
		requests = append(requests, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating request rows: %w", err)
	}

	return requests, total, nil
}

func (db *DB) BrowseRequests(ctx context.Context, filter repository.ItemFilter, opts repository.ListOptions) ([]model.DonationRequest, int, error) {
	where := itemWhere(filter, "r.delivery_location", "r")

	countWhere := itemWhere(filter, "delivery_location", "")
	total, err := db.countRows(ctx, "donation_requests", countWhere)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := builder().
		Select("r.id", "r.requester_id", "r.title", "r.category", "r.description",
			"r.quantity", "r.unit", "r.urgency", "r.delivery_location", "r.delivery_time",
			"r.needed_by", "r.special_requirements", "r.status", "r.created_at", "r.updated_at",
			"COALESCE(u.name, '')", "COALESCE(c.name, '')").
		From("donation_requests r").
		LeftJoin("users u ON u.id = r.requester_id").
		LeftJoin("companies c ON c.user_id = u.id").
		Where(where).
		OrderBy("r.created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: building request browse query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: browsing requests: %w", err)
	}
	defer rows.Close()

	requests := make([]model.DonationRequest, 0, opts.Limit)
	for rows.Next() {
		var (
			r            model.DonationRequest
			deliveryTime sql.NullTime
			neededBy     sql.NullTime
		)
		err := rows.Scan(
			&r.ID, &r.RequesterID, &r.Title, &r.Category, &r.Description,
			&r.Quantity, &r.Unit, &r.Urgency, &r.DeliveryLocation, &deliveryTime,
			&neededBy, &r.SpecialRequirements, &r.Status, &r.CreatedAt, &r.UpdatedAt,
			&r.RequesterName, &r.CompanyName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning request browse row: %w", err)
		}
		r.DeliveryTime = fromNullTime(deliveryTime)
		r.NeededBy = fromNullTime(neededBy)
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating request browse rows: %w", err)
	}

	return requests, total, nil
}

func scanRequest(scan func(...any) error) (*model.DonationRequest, error) {
	var (
		r            model.DonationRequest
		deliveryTime sql.NullTime
		neededBy     sql.NullTime
	)
	err := scan(
		&r.ID, &r.RequesterID, &r.Title, &r.Category, &r.Description,
		&r.Quantity, &r.Unit, &r.Urgency, &r.DeliveryLocation, &deliveryTime,
		&neededBy, &r.SpecialRequirements, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.DeliveryTime = fromNullTime(deliveryTime)
	r.NeededBy = fromNullTime(neededBy)
	return &r, nil
}
