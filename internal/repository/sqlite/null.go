package sqlite

import (
	"database/sql"
	"time"
)

// nullStr maps "" to NULL on the way in. Optional foreign keys (recipient,
// donation/request on matches) must be NULL rather than empty strings or
// the FK and uniqueness rules would bind to a phantom ''.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func fromNullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}
