package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadpilot/leadpilot/internal/domain"
)

// CampaignStore persists outreach campaigns in SQLite.
type CampaignStore struct {
	db *DB
}

// NewCampaignStore creates a campaign store using the given database.
func NewCampaignStore(db *DB) *CampaignStore {
	return &CampaignStore{db: db}
}

// Create inserts a campaign, assigning an ID if it has none. New
// campaigns start Pending unless a status is set.
func (s *CampaignStore) Create(c *domain.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = domain.CampaignPending
	}
	_, err := s.db.sql.Exec(
		`INSERT INTO campaigns (id, supplier_id, lead_id, recipient, subject, body, status, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.SupplierID, c.LeadID, c.Recipient, c.Subject, c.Body, c.Status, sentAtValue(c.SentAt),
	)
	if err != nil {
		return fmt.Errorf("inserting campaign: %w", err)
	}
	return nil
}

// Get returns a campaign by ID.
func (s *CampaignStore) Get(id string) (*domain.Campaign, error) {
	row := s.db.sql.QueryRow(
		`SELECT id, supplier_id, lead_id, recipient, subject, body, status, sent_at
		 FROM campaigns WHERE id = ?`, id,
	)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// List returns all campaigns, newest first.
func (s *CampaignStore) List() ([]domain.Campaign, error) {
	return s.query(`SELECT id, supplier_id, lead_id, recipient, subject, body, status, sent_at
		FROM campaigns ORDER BY created_at DESC, id`)
}

// ListByStatus returns campaigns in one status, newest first.
func (s *CampaignStore) ListByStatus(status string) ([]domain.Campaign, error) {
	return s.query(`SELECT id, supplier_id, lead_id, recipient, subject, body, status, sent_at
		FROM campaigns WHERE status = ? ORDER BY created_at DESC, id`, status)
}

// MarkSent flips a campaign to Sent and stamps the send time.
func (s *CampaignStore) MarkSent(id string, at time.Time) error {
	return s.setStatus(id, domain.CampaignSent, &at)
}

// MarkFailed flips a campaign to Failed.
func (s *CampaignStore) MarkFailed(id string) error {
	return s.setStatus(id, domain.CampaignFailed, nil)
}

// MarkReplied flips a campaign to Replied. The send time is kept.
func (s *CampaignStore) MarkReplied(id string) error {
	res, err := s.db.sql.Exec(`UPDATE campaigns SET status = ? WHERE id = ?`, domain.CampaignReplied, id)
	if err != nil {
		return fmt.Errorf("updating campaign status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CampaignStore) setStatus(id, status string, at *time.Time) error {
	res, err := s.db.sql.Exec(
		`UPDATE campaigns SET status = ?, sent_at = ? WHERE id = ?`,
		status, sentAtValue(at), id,
	)
	if err != nil {
		return fmt.Errorf("updating campaign status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CampaignStore) query(q string, args ...any) ([]domain.Campaign, error) {
	rows, err := s.db.sql.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	defer rows.Close()

	var cs []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		cs = append(cs, *c)
	}
	return cs, rows.Err()
}

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	var c domain.Campaign
	var sentAt sql.NullString
	err := row.Scan(&c.ID, &c.SupplierID, &c.LeadID, &c.Recipient, &c.Subject, &c.Body, &c.Status, &sentAt)
	if err != nil {
		return nil, err
	}
	if sentAt.Valid && sentAt.String != "" {
		t, err := time.Parse(time.DateTime, sentAt.String)
		if err == nil {
			c.SentAt = &t
		}
	}
	return &c, nil
}

func sentAtValue(at *time.Time) any {
	if at == nil {
		return nil
	}
	return at.Format(time.DateTime)
}
