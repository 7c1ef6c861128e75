package model

import "time"

// CampaignStatus is deliberately simple: campaigns are active until their
// organizer closes them.
type CampaignStatus string

const (
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusClosed CampaignStatus = "closed"
)

func (s CampaignStatus) Valid() bool {
	return s == CampaignStatusActive || s == CampaignStatusClosed
}

// Campaign is a fundraising drive owned by an organizer. Monetary fields
// are integer cents so the two-decimal fixed point holds by construction;
// no floats touch stored money.
type Campaign struct {
	ID             string         `json:"id"`
	OrganizerID    string         `json:"organizerId"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	GoalCents      int64          `json:"goalCents"`
	RaisedCents    int64          `json:"raisedCents"`
	Currency       string         `json:"currency"`
	StartDate      time.Time      `json:"startDate"`
	EndDate        *time.Time     `json:"endDate,omitempty"`
	TargetLocation string         `json:"targetLocation,omitempty"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	Status         CampaignStatus `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	// Joined for listings only.
	OrganizerName string `json:"organizerName,omitempty"`
	CompanyName   string `json:"companyName,omitempty"`
}

// CampaignDonation is a pledge against a campaign. Payment settlement is
// out of scope, so pledges are recorded with status "completed" and the
// campaign's raised total is incremented in the same transaction as the
// insert.
type CampaignDonation struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaignId"`
	DonorID     string    `json:"donorId"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Message     string    `json:"message,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PledgeStatusCompleted is the only pledge status the ledger records today.
const PledgeStatusCompleted = "completed"
