package model

import "time"

// CompanyKind distinguishes businesses that give from organizations that
// receive. Restaurants and grocery stores are donor-side; organizations
// (charities, food banks) are recipient-side.
type CompanyKind string

const (
	CompanyKindRestaurant   CompanyKind = "restaurant"
	CompanyKindGroceryStore CompanyKind = "grocery_store"
	CompanyKindOrganization CompanyKind = "organization"
)

func (k CompanyKind) Valid() bool {
	switch k {
	case CompanyKindRestaurant, CompanyKindGroceryStore, CompanyKindOrganization:
		return true
	}
	return false
}

// DonorSide reports whether the company kind may publish donations.
func (k CompanyKind) DonorSide() bool {
	return k == CompanyKindRestaurant || k == CompanyKindGroceryStore
}

// Company is the 0-or-1 business record attached to a non-individual user.
// It is owned exclusively by its user and cascade-deleted with it.
type Company struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Name            string      `json:"name"`
	Kind            CompanyKind `json:"kind"`
	BusinessLicense string      `json:"businessLicense,omitempty"`
	TaxID           string      `json:"taxId,omitempty"`
	Address         string      `json:"address,omitempty"`
	City            string      `json:"city,omitempty"`
	IsVerified      bool        `json:"isVerified"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
