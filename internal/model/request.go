package model

import "time"

// Urgency is the two-tier priority of a donation request.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	return u == UrgencyNormal || u == UrgencyHigh
}

// DonationRequest is a stated need published by any account. Same shape as
// Donation but delivery-oriented.
type DonationRequest struct {
	ID                  string     `json:"id"`
	RequesterID         string     `json:"requesterId"`
	Title               string     `json:"title"`
	Category            string     `json:"category"`
	Description         string     `json:"description,omitempty"`
	Quantity            float64    `json:"quantity"`
	Unit                string     `json:"unit"`
	Urgency             Urgency    `json:"urgency"`
	DeliveryLocation    string     `json:"deliveryLocation"`
	DeliveryTime        *time.Time `json:"deliveryTime,omitempty"`
	NeededBy            *time.Time `json:"neededBy,omitempty"`
	SpecialRequirements string     `json:"specialRequirements,omitempty"`
	Status              ItemStatus `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`

	// Joined for browse listings only.
	RequesterName string `json:"requesterName,omitempty"`
	CompanyName   string `json:"companyName,omitempty"`
}
