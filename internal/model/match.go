package model

import "time"

// MatchStatus is the match state machine:
//
//	pending → accepted → completed
//	pending → rejected            (terminal)
//
// rejected and completed are terminal; no other transitions exist.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusRejected  MatchStatus = "rejected"
	MatchStatusCompleted MatchStatus = "completed"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusAccepted, MatchStatusRejected, MatchStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine permits moving from s
// to next.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	switch s {
	case MatchStatusPending:
		return next == MatchStatusAccepted || next == MatchStatusRejected
	case MatchStatusAccepted:
		return next == MatchStatusCompleted
	}
	return false
}

// Match links exactly one of {Donation, DonationRequest} to the user who
// proposed the link. DonationID and RequestID are mutually exclusive; a
// CHECK constraint in the schema enforces the XOR and composite unique
// indexes enforce at-most-one match per (user, item).
type Match struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	DonationID string      `json:"donationId,omitempty"`
	RequestID  string      `json:"requestId,omitempty"`
	Message    string      `json:"message,omitempty"`
	Status     MatchStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`

	// Joined payload for listings: whichever side the match references.
	Donation *Donation        `json:"donation,omitempty"`
	Request  *DonationRequest `json:"request,omitempty"`
}
