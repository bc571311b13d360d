package domain

import "time"

// Lead is a prospect produced by the backend for the active supplier.
// The session keeps only the most recent batch; each successful
// lead-generation reply replaces the previous set wholesale.
type Lead struct {
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// ImportedLead is a prospect loaded from an external lead list (CSV).
// Unlike generated leads these are persisted and used as campaign
// recipients.
type ImportedLead struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	ContactName string    `json:"contact_name,omitempty"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Source      string    `json:"source"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Campaign statuses.
const (
	CampaignPending = "Pending"
	CampaignSent    = "Sent"
	CampaignFailed  = "Failed"
	CampaignReplied = "Replied"
)

// Campaign is one outreach email generated for an imported lead.
type Campaign struct {
	ID         string     `json:"id"`
	SupplierID string     `json:"supplierId"`
	LeadID     string     `json:"leadId"`
	Recipient  string     `json:"recipient"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	Status     string     `json:"status"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
}
