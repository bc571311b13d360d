package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/leadpilot/leadpilot/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

const supplierColumns = `id, company_name, company_website, contact_name, contact_email,
	contact_phone, product_name, product_description, key_features, primary_use_cases,
	pricing_model, unique_selling_points, ideal_customer_profile`

// SupplierStore persists suppliers in SQLite.
type SupplierStore struct {
	db *DB
}

// NewSupplierStore creates a supplier store using the given database.
func NewSupplierStore(db *DB) *SupplierStore {
	return &SupplierStore{db: db}
}

// Create inserts a supplier, assigning an ID if it has none.
func (s *SupplierStore) Create(sup *domain.Supplier) error {
	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	_, err := s.db.sql.Exec(
		`INSERT INTO suppliers (`+supplierColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sup.ID, sup.CompanyName, sup.CompanyWebsite, sup.ContactName, sup.ContactEmail,
		sup.ContactPhone, sup.ProductName, sup.ProductDescription, sup.KeyFeatures,
		sup.PrimaryUseCases, sup.PricingModel, sup.UniqueSellingPoints, sup.IdealCustomer,
	)
	if err != nil {
		return fmt.Errorf("inserting supplier: %w", err)
	}
	return nil
}

// Get returns a supplier by ID.
func (s *SupplierStore) Get(id string) (*domain.Supplier, error) {
	row := s.db.sql.QueryRow(`SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`, id)
	sup, err := scanSupplier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sup, err
}

// List returns all suppliers ordered by company name.
func (s *SupplierStore) List() ([]domain.Supplier, error) {
	rows, err := s.db.sql.Query(`SELECT ` + supplierColumns + ` FROM suppliers ORDER BY company_name`)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	defer rows.Close()

	var sups []domain.Supplier
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		sups = append(sups, *sup)
	}
	return sups, rows.Err()
}

// Update replaces all fields of an existing supplier.
func (s *SupplierStore) Update(sup *domain.Supplier) error {
	res, err := s.db.sql.Exec(
		`UPDATE suppliers SET company_name = ?, company_website = ?, contact_name = ?,
		 contact_email = ?, contact_phone = ?, product_name = ?, product_description = ?,
		 key_features = ?, primary_use_cases = ?, pricing_model = ?,
		 unique_selling_points = ?, ideal_customer_profile = ?
		 WHERE id = ?`,
		sup.CompanyName, sup.CompanyWebsite, sup.ContactName, sup.ContactEmail,
		sup.ContactPhone, sup.ProductName, sup.ProductDescription, sup.KeyFeatures,
		sup.PrimaryUseCases, sup.PricingModel, sup.UniqueSellingPoints, sup.IdealCustomer,
		sup.ID,
	)
	if err != nil {
		return fmt.Errorf("updating supplier: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a supplier and, via cascade, its campaigns.
func (s *SupplierStore) Delete(id string) error {
	res, err := s.db.sql.Exec(`DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting supplier: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSupplier(row rowScanner) (*domain.Supplier, error) {
	var sup domain.Supplier
	err := row.Scan(
		&sup.ID, &sup.CompanyName, &sup.CompanyWebsite, &sup.ContactName, &sup.ContactEmail,
		&sup.ContactPhone, &sup.ProductName, &sup.ProductDescription, &sup.KeyFeatures,
		&sup.PrimaryUseCases, &sup.PricingModel, &sup.UniqueSellingPoints, &sup.IdealCustomer,
	)
	if err != nil {
		return nil, err
	}
	return &sup, nil
}
