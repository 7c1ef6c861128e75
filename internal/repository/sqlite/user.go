package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts the user row and, for business/charity/organizer
// accounts, the company row in one transaction so a half-registered account
// can never exist. The unique index on email is the authority on duplicate
// registrations.
func (db *DB) CreateUser(ctx context.Context, user *model.User, company *model.Company) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, kind, phone, city, country,
		                    is_verified, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Kind,
		user.Phone,
		user.City,
		user.Country,
		user.IsVerified,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("an account with this email already exists")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	if company != nil {
		company.ID = xid.New().String()
		company.UserID = user.ID
		company.CreatedAt = now
		company.UpdatedAt = now

		_, err = tx.ExecContext(ctx,
			`INSERT INTO companies (id, user_id, name, kind, business_license, tax_id,
			                        address, city, is_verified, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			company.ID,
			company.UserID,
			company.Name,
			company.Kind,
			company.BusinessLicense,
			company.TaxID,
			company.Address,
			company.City,
			company.IsVerified,
			company.CreatedAt,
			company.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting company for user %s: %w", user.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user registration: %w", err)
	}
	return nil
}

func (db *DB) UserByID(ctx context.Context, id string) (*model.User, error) {
	return db.userBy(ctx, "id", id)
}

func (db *DB) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.userBy(ctx, "email", email)
}

func (db *DB) userBy(ctx context.Context, column, value string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, kind, phone, city, country,
		        is_verified, is_active, created_at, updated_at
		 FROM users WHERE `+column+` = ?`,
		value,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Kind,
		&u.Phone,
		&u.City,
		&u.Country,
		&u.IsVerified,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("sqlite: getting user by %s: %w", column, err)
	}

	return &u, nil
}

// CompanyByUserID returns the user's company record, or NotFound when the
// account is an individual.
func (db *DB) CompanyByUserID(ctx context.Context, userID string) (*model.Company, error) {
	var c model.Company

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, kind, business_license, tax_id, address, city,
		        is_verified, created_at, updated_at
		 FROM companies WHERE user_id = ?`,
		userID,
	).Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Kind,
		&c.BusinessLicense,
		&c.TaxID,
		&c.Address,
		&c.City,
		&c.IsVerified,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("company", userID)
		}
		return nil, fmt.Errorf("sqlite: getting company for user %s: %w", userID, err)
	}

	return &c, nil
}
