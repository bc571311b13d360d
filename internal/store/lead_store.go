package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadpilot/leadpilot/internal/domain"
)

// LeadStore persists imported leads in SQLite.
type LeadStore struct {
	db *DB
}

// NewLeadStore creates a lead store using the given database.
func NewLeadStore(db *DB) *LeadStore {
	return &LeadStore{db: db}
}

// Insert stores one imported lead, assigning an ID if it has none.
// Duplicate emails are rejected by the unique index.
func (s *LeadStore) Insert(lead *domain.ImportedLead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.UploadedAt.IsZero() {
		lead.UploadedAt = time.Now()
	}
	_, err := s.db.sql.Exec(
		`INSERT INTO imported_leads (id, company_name, contact_name, email, phone, address, source, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.CompanyName, lead.ContactName, lead.Email, lead.Phone,
		lead.Address, lead.Source, lead.UploadedAt.Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting lead: %w", err)
	}
	return nil
}

// InsertBatch stores leads in one transaction, skipping rows whose email
// is already present. Returns how many rows were inserted.
func (s *LeadStore) InsertBatch(leads []domain.ImportedLead) (int, error) {
	tx, err := s.db.sql.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin lead batch: %w", err)
	}

	inserted := 0
	for i := range leads {
		lead := &leads[i]
		if lead.ID == "" {
			lead.ID = uuid.New().String()
		}
		if lead.UploadedAt.IsZero() {
			lead.UploadedAt = time.Now()
		}
		res, err := tx.Exec(
			`INSERT OR IGNORE INTO imported_leads (id, company_name, contact_name, email, phone, address, source, uploaded_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			lead.ID, lead.CompanyName, lead.ContactName, lead.Email, lead.Phone,
			lead.Address, lead.Source, lead.UploadedAt.Format(time.DateTime),
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting lead %q: %w", lead.Email, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit lead batch: %w", err)
	}
	return inserted, nil
}

// Get returns an imported lead by ID.
func (s *LeadStore) Get(id string) (*domain.ImportedLead, error) {
	row := s.db.sql.QueryRow(
		`SELECT id, company_name, contact_name, email, phone, address, source, uploaded_at
		 FROM imported_leads WHERE id = ?`, id,
	)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return lead, err
}

// List returns all imported leads, newest first.
func (s *LeadStore) List() ([]domain.ImportedLead, error) {
	return s.query(`SELECT id, company_name, contact_name, email, phone, address, source, uploaded_at
		FROM imported_leads ORDER BY uploaded_at DESC, id`)
}

// ListBySource returns leads from one import source, newest first.
func (s *LeadStore) ListBySource(source string) ([]domain.ImportedLead, error) {
	return s.query(`SELECT id, company_name, contact_name, email, phone, address, source, uploaded_at
		FROM imported_leads WHERE source = ? ORDER BY uploaded_at DESC, id`, source)
}

func (s *LeadStore) query(q string, args ...any) ([]domain.ImportedLead, error) {
	rows, err := s.db.sql.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.ImportedLead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func scanLead(row rowScanner) (*domain.ImportedLead, error) {
	var lead domain.ImportedLead
	var uploadedAt string
	err := row.Scan(
		&lead.ID, &lead.CompanyName, &lead.ContactName, &lead.Email,
		&lead.Phone, &lead.Address, &lead.Source, &uploadedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.UploadedAt, _ = time.Parse(time.DateTime, uploadedAt)
	return &lead, nil
}
