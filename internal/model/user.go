// Package model defines the entities stored in the relational schema and the
// closed status types that govern them. Statuses are typed strings with an
// explicit value set; free-form status text never crosses a package boundary.
package model

import "time"

// UserKind is the account type chosen at registration.
type UserKind string

const (
	UserKindIndividual       UserKind = "individual"
	UserKindDonorCompany     UserKind = "donor_company"
	UserKindRecipientCompany UserKind = "recipient_company"
	UserKindOrganizer        UserKind = "organizer"
)

func (k UserKind) Valid() bool {
	switch k {
	case UserKindIndividual, UserKindDonorCompany, UserKindRecipientCompany, UserKindOrganizer:
		return true
	}
	return false
}

// User is an identity record. Accounts are never hard-deleted; IsActive
// flips to false instead so authored records keep a valid owner.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Kind         UserKind  `json:"kind"`
	Phone        string    `json:"phone,omitempty"`
	City         string    `json:"city,omitempty"`
	Country      string    `json:"country"`
	IsVerified   bool      `json:"isVerified"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Capabilities is the entitlement set resolved once per request from the
// user's company record, instead of re-deriving "is this a business" with
// ad hoc joins inside every operation.
type Capabilities struct {
	IsDonorCompany     bool `json:"isDonorCompany"`
	IsRecipientCompany bool `json:"isRecipientCompany"`
	IsOrganizer        bool `json:"isOrganizer"`
}
