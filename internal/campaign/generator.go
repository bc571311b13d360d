// Package campaign generates and sends outreach emails for imported leads.
package campaign

import (
	"fmt"
	"strings"

	"github.com/leadpilot/leadpilot/internal/domain"
)

// Generator drafts one outreach email per supplier and lead pair.
type Generator struct {
	// SenderName signs the email. Empty falls back to the supplier's
	// contact name.
	SenderName string
}

// Draft builds a Pending campaign for the given pair. The subject and
// body are deterministic so previews match what gets sent.
func (g *Generator) Draft(sup *domain.Supplier, lead *domain.ImportedLead) *domain.Campaign {
	return &domain.Campaign{
		SupplierID: sup.ID,
		LeadID:     lead.ID,
		Recipient:  lead.Email,
		Subject:    g.subject(sup),
		Body:       g.body(sup, lead),
		Status:     domain.CampaignPending,
	}
}

func (g *Generator) subject(sup *domain.Supplier) string {
	return fmt.Sprintf("Introducing %s from %s", sup.ProductName, sup.CompanyName)
}

func (g *Generator) body(sup *domain.Supplier, lead *domain.ImportedLead) string {
	var b strings.Builder

	greeting := lead.ContactName
	if greeting == "" {
		greeting = lead.CompanyName + " team"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", greeting)

	fmt.Fprintf(&b, "I'm reaching out from %s about %s", sup.CompanyName, sup.ProductName)
	if sup.ProductDescription != "" {
		fmt.Fprintf(&b, ", %s", lowerFirst(sup.ProductDescription))
	}
	b.WriteString(".\n\n")

	if sup.KeyFeatures != "" {
		fmt.Fprintf(&b, "A few things it does well: %s.\n\n", strings.TrimRight(sup.KeyFeatures, "."))
	}
	if sup.UniqueSellingPoints != "" {
		fmt.Fprintf(&b, "What sets it apart: %s.\n\n", strings.TrimRight(sup.UniqueSellingPoints, "."))
	}

	fmt.Fprintf(&b, "Would a short call next week make sense to see whether %s could help %s?\n\n",
		sup.ProductName, lead.CompanyName)

	signer := g.SenderName
	if signer == "" {
		signer = sup.ContactName
	}
	if signer == "" {
		signer = sup.CompanyName
	}
	fmt.Fprintf(&b, "Best regards,\n%s\n%s\n", signer, sup.CompanyName)
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r)
}
