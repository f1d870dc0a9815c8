package domain

import "time"

// Signal strength tiers, strongest first.
const (
	StrengthVeryHigh = "Very High"
	StrengthHigh     = "High"
	StrengthMedium   = "Medium"
	StrengthLow      = "Low"
)

// Lead lifecycle statuses.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusProposal  = "proposal"
	StatusWon       = "won"
	StatusLost      = "lost"
	StatusArchived  = "archived"
)

// StatusLabels maps each status to its display label, in lifecycle order.
var StatusLabels = []struct {
	Value string
	Label string
}{
	{StatusNew, "New"},
	{StatusContacted, "Contacted"},
	{StatusQualified, "Qualified"},
	{StatusProposal, "Proposal Sent"},
	{StatusWon, "Won"},
	{StatusLost, "Lost"},
	{StatusArchived, "Archived"},
}

// Strengths lists the valid signal_strength values, strongest first.
var Strengths = []string{StrengthVeryHigh, StrengthHigh, StrengthMedium, StrengthLow}

func ValidStatus(s string) bool {
	for _, st := range StatusLabels {
		if st.Value == s {
			return true
		}
	}
	return false
}

func ValidStrength(s string) bool {
	for _, str := range Strengths {
		if str == s {
			return true
		}
	}
	return false
}

// Lead is the canonical persisted record for one qualifying signal tied to one
// company. SourceURL uniquely identifies a lead; the store ignores inserts for
// an already-seen SourceURL instead of failing the batch. The pipeline never
// mutates a lead after building it; only Status changes later, via the admin
// API.
type Lead struct {
	ID              int64     `json:"id"`
	DiscoveryDate   string    `json:"discovery_date"`
	CompanyName     string    `json:"company_name"`
	Domain          string    `json:"domain"`
	DiscoverySource string    `json:"discovery_source"`
	SignalType      string    `json:"signal_type"`
	SignalStrength  string    `json:"signal_strength"`
	SignalDate      string    `json:"signal_date"`
	Details         string    `json:"details"`
	Location        string    `json:"location"`
	Timeline        string    `json:"timeline"`
	SourceURL       string    `json:"source_url"`
	County          string    `json:"county"`
	AllSignals      string    `json:"all_signals"`
	Notes           string    `json:"notes"`
	Status          string    `json:"status"`
	Industry        string    `json:"industry"`
	EmployeeCount   int       `json:"employee_count"`
	ContactName     string    `json:"contact_name"`
	ContactEmail    string    `json:"contact_email"`
	ContactPhone    string    `json:"contact_phone"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
