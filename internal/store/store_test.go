package store

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/logging"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", logging.New(io.Discard, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadpilot.db")
	log := logging.New(io.Discard, "silent")

	db, err := Open(path, log)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not re-run migrations.
	db, err = Open(path, log)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSupplierStore_CRUD(t *testing.T) {
	s := NewSupplierStore(openTestDB(t))

	sup := &domain.Supplier{
		CompanyName:  "Acme Corp",
		ProductName:  "Widget Cloud",
		ContactEmail: "sales@acme.example",
	}
	require.NoError(t, s.Create(sup))
	require.NotEmpty(t, sup.ID)

	got, err := s.Get(sup.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.CompanyName)
	assert.Equal(t, "Widget Cloud", got.ProductName)

	sup.ProductName = "Widget Cloud Pro"
	require.NoError(t, s.Update(sup))

	got, err = s.Get(sup.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget Cloud Pro", got.ProductName)

	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Delete(sup.ID))
	_, err = s.Get(sup.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(sup.ID), ErrNotFound)
}

func TestLeadStore_InsertBatchSkipsDuplicates(t *testing.T) {
	s := NewLeadStore(openTestDB(t))

	first := []domain.ImportedLead{
		{CompanyName: "One", Email: "one@example.com", Source: "list-a.csv"},
		{CompanyName: "Two", Email: "two@example.com", Source: "list-a.csv"},
	}
	n, err := s.InsertBatch(first)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	second := []domain.ImportedLead{
		{CompanyName: "Two again", Email: "two@example.com", Source: "list-b.csv"},
		{CompanyName: "Three", Email: "three@example.com", Source: "list-b.csv"},
	}
	n, err = s.InsertBatch(second)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	fromB, err := s.ListBySource("list-b.csv")
	require.NoError(t, err)
	require.Len(t, fromB, 1)
	assert.Equal(t, "three@example.com", fromB[0].Email)
}

func TestCampaignStore_StatusTransitions(t *testing.T) {
	db := openTestDB(t)
	suppliers := NewSupplierStore(db)
	leads := NewLeadStore(db)
	campaigns := NewCampaignStore(db)

	sup := &domain.Supplier{CompanyName: "Acme", ProductName: "Widget"}
	require.NoError(t, suppliers.Create(sup))
	lead := &domain.ImportedLead{CompanyName: "Prospect", Email: "p@example.com"}
	require.NoError(t, leads.Insert(lead))

	c := &domain.Campaign{
		SupplierID: sup.ID,
		LeadID:     lead.ID,
		Recipient:  lead.Email,
		Subject:    "Introducing Widget",
		Body:       "Hello",
	}
	require.NoError(t, campaigns.Create(c))

	got, err := campaigns.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignPending, got.Status)
	assert.Nil(t, got.SentAt)

	sentAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, campaigns.MarkSent(c.ID, sentAt))

	got, err = campaigns.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignSent, got.Status)
	require.NotNil(t, got.SentAt)
	assert.Equal(t, sentAt, got.SentAt.UTC())

	require.NoError(t, campaigns.MarkReplied(c.ID))
	got, err = campaigns.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignReplied, got.Status)
	assert.NotNil(t, got.SentAt)

	pending, err := campaigns.ListByStatus(domain.CampaignPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Deleting the supplier cascades to its campaigns.
	require.NoError(t, suppliers.Delete(sup.ID))
	_, err = campaigns.Get(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStateStore_RoundTrip(t *testing.T) {
	s := NewStateStore(openTestDB(t))

	_, err := s.Get(StateActiveSupplier)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(StateActiveSupplier, "sup-1"))
	require.NoError(t, s.Set(StateActiveSupplier, "sup-2"))

	v, err := s.Get(StateActiveSupplier)
	require.NoError(t, err)
	assert.Equal(t, "sup-2", v)

	require.NoError(t, s.Delete(StateActiveSupplier))
	_, err = s.Get(StateActiveSupplier)
	assert.ErrorIs(t, err, ErrNotFound)
}
