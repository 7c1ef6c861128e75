package model

import "time"

// ItemStatus is the lifecycle of a published donation or request.
type ItemStatus string

const (
	ItemStatusActive    ItemStatus = "active"
	ItemStatusCompleted ItemStatus = "completed"
	ItemStatusCancelled ItemStatus = "cancelled"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusActive, ItemStatusCompleted, ItemStatusCancelled:
		return true
	}
	return false
}

// Donation is an offer of goods published by a donor company.
// RecipientID stays empty until the offer is matched to a recipient.
type Donation struct {
	ID                  string     `json:"id"`
	DonorID             string     `json:"donorId"`
	RecipientID         string     `json:"recipientId,omitempty"`
	Title               string     `json:"title"`
	Category            string     `json:"category"`
	Description         string     `json:"description,omitempty"`
	Quantity            float64    `json:"quantity"`
	Unit                string     `json:"unit"`
	PickupLocation      string     `json:"pickupLocation"`
	PickupTime          *time.Time `json:"pickupTime,omitempty"`
	ExpiryDate          *time.Time `json:"expiryDate,omitempty"`
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
	Status              ItemStatus `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`

	// Joined for browse listings only; never persisted on this table.
	DonorName   string `json:"donorName,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}
