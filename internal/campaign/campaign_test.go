package campaign

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/logging"
	"github.com/leadpilot/leadpilot/internal/store"
)

func testLogger() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

func TestGeneratorDraft(t *testing.T) {
	g := &Generator{SenderName: "Sam Seller"}
	sup := &domain.Supplier{
		ID:                  "sup-1",
		CompanyName:         "Acme Corp",
		ProductName:         "Widget Cloud",
		ProductDescription:  "A hosted widget pipeline",
		KeyFeatures:         "fast setup, usage dashboards",
		UniqueSellingPoints: "no per-seat pricing",
	}
	lead := &domain.ImportedLead{
		ID:          "lead-1",
		CompanyName: "Globex",
		ContactName: "Jane Roe",
		Email:       "jane@globex.example",
	}

	c := g.Draft(sup, lead)

	assert.Equal(t, "sup-1", c.SupplierID)
	assert.Equal(t, "lead-1", c.LeadID)
	assert.Equal(t, "jane@globex.example", c.Recipient)
	assert.Equal(t, domain.CampaignPending, c.Status)
	assert.Equal(t, "Introducing Widget Cloud from Acme Corp", c.Subject)

	assert.Contains(t, c.Body, "Hi Jane Roe,")
	assert.Contains(t, c.Body, "a hosted widget pipeline")
	assert.Contains(t, c.Body, "fast setup, usage dashboards")
	assert.Contains(t, c.Body, "no per-seat pricing")
	assert.Contains(t, c.Body, "Globex")
	assert.Contains(t, c.Body, "Sam Seller")
}

func TestGeneratorDraftFallbacks(t *testing.T) {
	g := &Generator{}
	sup := &domain.Supplier{CompanyName: "Acme Corp", ProductName: "Widget"}
	lead := &domain.ImportedLead{CompanyName: "Globex", Email: "info@globex.example"}

	c := g.Draft(sup, lead)

	assert.Contains(t, c.Body, "Hi Globex team,")
	assert.Contains(t, c.Body, "Best regards,\nAcme Corp")
}

// fakeSender records sends and fails for configured recipients.
type fakeSender struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeSender) Send(_ context.Context, to, _, _ string) error {
	if f.failFor[to] {
		return errors.New("smtp said no")
	}
	f.sent = append(f.sent, to)
	return nil
}

func seedCampaigns(t *testing.T) (*store.CampaignStore, []string) {
	t.Helper()
	db, err := store.Open(":memory:", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	suppliers := store.NewSupplierStore(db)
	leadStore := store.NewLeadStore(db)
	campaigns := store.NewCampaignStore(db)

	sup := &domain.Supplier{CompanyName: "Acme", ProductName: "Widget"}
	require.NoError(t, suppliers.Create(sup))

	g := &Generator{}
	var ids []string
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		lead := &domain.ImportedLead{CompanyName: "Prospect", Email: email}
		require.NoError(t, leadStore.Insert(lead))
		c := g.Draft(sup, lead)
		require.NoError(t, campaigns.Create(c))
		ids = append(ids, c.ID)
	}
	return campaigns, ids
}

func TestRunnerSendPending(t *testing.T) {
	campaigns, _ := seedCampaigns(t)
	sender := &fakeSender{failFor: map[string]bool{"b@example.com": true}}
	r := NewRunner(campaigns, sender, testLogger())

	sent, err := r.SendPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.ElementsMatch(t, []string{"a@example.com", "c@example.com"}, sender.sent)

	remaining, err := campaigns.ListByStatus(domain.CampaignPending)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	failed, err := campaigns.ListByStatus(domain.CampaignFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "b@example.com", failed[0].Recipient)

	sentRows, err := campaigns.ListByStatus(domain.CampaignSent)
	require.NoError(t, err)
	require.Len(t, sentRows, 2)
	for _, c := range sentRows {
		assert.NotNil(t, c.SentAt)
	}
}

func TestRunnerSendPendingIsIdempotent(t *testing.T) {
	campaigns, _ := seedCampaigns(t)
	sender := &fakeSender{}
	r := NewRunner(campaigns, sender, testLogger())

	_, err := r.SendPending(context.Background())
	require.NoError(t, err)

	sent, err := r.SendPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, sender.sent, 3)
}

func TestMatchReplies(t *testing.T) {
	sent := []domain.Campaign{
		{ID: "1", Recipient: "a@example.com"},
		{ID: "2", Recipient: "B@Example.com"},
		{ID: "3", Recipient: "c@example.com"},
	}
	senders := map[string]bool{
		"b@example.com":       true,
		"unrelated@other.com": true,
	}

	replied := matchReplies(sent, senders)
	require.Len(t, replied, 1)
	assert.Equal(t, "2", replied[0].ID)
}

func TestWatcherCheckOnceNoSentCampaigns(t *testing.T) {
	db, err := store.Open(":memory:", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// No Sent campaigns means no IMAP dial at all.
	w := NewWatcher(IMAPConfig{Host: "imap.invalid", Port: 993}, store.NewCampaignStore(db), testLogger())
	n, err := w.CheckOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
