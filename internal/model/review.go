package model

import "time"

// Review is post-match feedback. At most one review exists per
// (match, reviewer) pair, enforced by a unique index rather than a lookup.
type Review struct {
	ID         string    `json:"id"`
	MatchID    string    `json:"matchId"`
	ReviewerID string    `json:"reviewerId"`
	Rating     int       `json:"rating"` // 1–5 inclusive
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
