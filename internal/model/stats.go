package model

// DashboardStats carries the per-account-type dashboard counters. UserType
// says which block is meaningful: "Business" fills the donation counters,
// "Charity" the request counters, "Individual" the totals.
type DashboardStats struct {
	UserType string `json:"userType"`

	TotalDonations     int `json:"totalDonations,omitempty"`
	ActiveDonations    int `json:"activeDonations,omitempty"`
	CompletedDonations int `json:"completedDonations,omitempty"`
	TotalRecipients    int `json:"totalRecipients,omitempty"`

	TotalRequests     int `json:"totalRequests,omitempty"`
	ActiveRequests    int `json:"activeRequests,omitempty"`
	CompletedRequests int `json:"completedRequests,omitempty"`

	TotalMatches int `json:"totalMatches,omitempty"`
}
