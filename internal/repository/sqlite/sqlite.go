// Package sqlite implements the repository interfaces on an embedded
// SQLite database (modernc.org/sqlite, pure Go, no cgo).
//
// Uniqueness invariants (one match per user per item, one review per match
// per reviewer, unique emails) live in the schema as unique indexes, not in
// application checks. A constraint violation coming back from the driver is
// translated to apperror.ErrConflict so concurrent duplicate writers cannot
// both succeed. Read-modify-write sequences (match transitions, pledge plus
// raised increment) run inside a single transaction.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps the sql.DB pool and implements every repository interface.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A ":memory:" database exists per connection, and SQLite serializes
	// writers anyway; a single pooled connection keeps both correct.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL keeps reads concurrent with writes; foreign keys are off by
	// default in SQLite and the cascade rules depend on them.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// builder is the squirrel entry point for dynamically filtered queries.
// Question placeholders match database/sql's ? binding for SQLite.
func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. These are the store-level authority on at-most-one invariants.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func (db *DB) migrate() error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				email         TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				name          TEXT NOT NULL,
				kind          TEXT NOT NULL,
				phone         TEXT NOT NULL DEFAULT '',
				city          TEXT NOT NULL DEFAULT '',
				country       TEXT NOT NULL DEFAULT 'Ethiopia',
				is_verified   INTEGER NOT NULL DEFAULT 0,
				is_active     INTEGER NOT NULL DEFAULT 1,
				created_at    DATETIME NOT NULL,
				updated_at    DATETIME NOT NULL
			);
		`},
		{"companies", `
			CREATE TABLE IF NOT EXISTS companies (
				id               TEXT PRIMARY KEY,
				user_id          TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
				name             TEXT NOT NULL,
				kind             TEXT NOT NULL,
				business_license TEXT NOT NULL DEFAULT '',
				tax_id           TEXT NOT NULL DEFAULT '',
				address          TEXT NOT NULL DEFAULT '',
				city             TEXT NOT NULL DEFAULT '',
				is_verified      INTEGER NOT NULL DEFAULT 0,
				created_at       DATETIME NOT NULL,
				updated_at       DATETIME NOT NULL
			);
		`},
		{"donations", `
			CREATE TABLE IF NOT EXISTS donations (
				id                   TEXT PRIMARY KEY,
				donor_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				recipient_id         TEXT REFERENCES users(id) ON DELETE SET NULL,
				title                TEXT NOT NULL,
				category             TEXT NOT NULL,
				description          TEXT NOT NULL DEFAULT '',
				quantity             REAL NOT NULL,
				unit                 TEXT NOT NULL,
				pickup_location      TEXT NOT NULL,
				pickup_time          DATETIME,
				expiry_date          DATETIME,
				special_instructions TEXT NOT NULL DEFAULT '',
				status               TEXT NOT NULL DEFAULT 'active',
				created_at           DATETIME NOT NULL,
				updated_at           DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_donations_donor ON donations(donor_id);
			CREATE INDEX IF NOT EXISTS idx_donations_status ON donations(status);
		`},
		{"donation_requests", `
			CREATE TABLE IF NOT EXISTS donation_requests (
				id                   TEXT PRIMARY KEY,
				requester_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title                TEXT NOT NULL,
				category             TEXT NOT NULL,
				description          TEXT NOT NULL DEFAULT '',
				quantity             REAL NOT NULL,
				unit                 TEXT NOT NULL,
				urgency              TEXT NOT NULL DEFAULT 'normal',
				delivery_location    TEXT NOT NULL,
				delivery_time        DATETIME,
				needed_by            DATETIME,
				special_requirements TEXT NOT NULL DEFAULT '',
				status               TEXT NOT NULL DEFAULT 'active',
				created_at           DATETIME NOT NULL,
				updated_at           DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_requests_requester ON donation_requests(requester_id);
			CREATE INDEX IF NOT EXISTS idx_requests_status ON donation_requests(status);
		`},
		{"donation_matches", `
			CREATE TABLE IF NOT EXISTS donation_matches (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				donation_id TEXT REFERENCES donations(id) ON DELETE CASCADE,
				request_id  TEXT REFERENCES donation_requests(id) ON DELETE CASCADE,
				message     TEXT NOT NULL DEFAULT '',
				status      TEXT NOT NULL DEFAULT 'pending',
				created_at  DATETIME NOT NULL,
				updated_at  DATETIME NOT NULL,
				CHECK ((donation_id IS NULL) <> (request_id IS NULL)),
				UNIQUE (user_id, donation_id),
				UNIQUE (user_id, request_id)
			);
			CREATE INDEX IF NOT EXISTS idx_matches_user ON donation_matches(user_id);
		`},
		{"donation_reviews", `
			CREATE TABLE IF NOT EXISTS donation_reviews (
				id          TEXT PRIMARY KEY,
				match_id    TEXT NOT NULL REFERENCES donation_matches(id) ON DELETE CASCADE,
				reviewer_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
				comment     TEXT NOT NULL DEFAULT '',
				created_at  DATETIME NOT NULL,
				UNIQUE (match_id, reviewer_id)
			);
		`},
		{"campaigns", `
			CREATE TABLE IF NOT EXISTS campaigns (
				id              TEXT PRIMARY KEY,
				organizer_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title           TEXT NOT NULL,
				description     TEXT NOT NULL,
				category        TEXT NOT NULL,
				goal_cents      INTEGER NOT NULL,
				raised_cents    INTEGER NOT NULL DEFAULT 0,
				currency        TEXT NOT NULL DEFAULT 'ETB',
				start_date      DATETIME NOT NULL,
				end_date        DATETIME,
				target_location TEXT NOT NULL DEFAULT '',
				image_url       TEXT NOT NULL DEFAULT '',
				status          TEXT NOT NULL DEFAULT 'active',
				created_at      DATETIME NOT NULL,
				updated_at      DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_campaigns_organizer ON campaigns(organizer_id);
			CREATE INDEX IF NOT EXISTS idx_campaigns_status ON campaigns(status);
		`},
		{"campaign_donations", `
			CREATE TABLE IF NOT EXISTS campaign_donations (
				id           TEXT PRIMARY KEY,
				campaign_id  TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
				donor_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				amount_cents INTEGER NOT NULL CHECK (amount_cents > 0),
				currency     TEXT NOT NULL DEFAULT 'ETB',
				message      TEXT NOT NULL DEFAULT '',
				status       TEXT NOT NULL DEFAULT 'completed',
				created_at   DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_pledges_campaign ON campaign_donations(campaign_id);
		`},
	}

	for _, s := range stmts {
		if _, err := db.conn.Exec(s.sql); err != nil {
			return fmt.Errorf("creating %s: %w", s.name, err)
		}
	}
	return nil
}
