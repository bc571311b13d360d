// Package leads imports prospect lists from CSV files.
package leads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/logging"
)

// ErrNoHeader is returned for files missing the header row.
var ErrNoHeader = errors.New("leads: csv file has no header row")

// Column names the importer understands, after normalization.
const (
	colCompanyName = "company_name"
	colContactName = "contact_name"
	colEmail       = "email"
	colPhone       = "phone"
	colAddress     = "address"
)

// RowError records one rejected CSV row. Line numbers are 1-based and
// count the header.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Result is the outcome of one import: accepted leads plus per-row
// rejections. Rejections do not abort the import.
type Result struct {
	Leads   []domain.ImportedLead
	Skipped []RowError
}

// Importer parses CSV lead lists into ImportedLead rows.
type Importer struct {
	log *logging.Logger
}

// NewImporter creates an importer.
func NewImporter(log *logging.Logger) *Importer {
	return &Importer{log: log.Sub("leads")}
}

// Import reads a CSV lead list. The header row is matched by normalized
// column name, so "Company Name" and "company_name" both work and column
// order is free. Rows without a company name or with a malformed email
// are skipped and reported. source labels where the rows came from,
// typically the file name.
func (im *Importer) Import(r io.Reader, source string) (*Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}
	for _, required := range []string{colCompanyName, colEmail} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("leads: csv is missing required column %q", required)
		}
	}

	res := &Result{}
	now := time.Now()
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}

		lead := domain.ImportedLead{
			CompanyName: field(record, cols, colCompanyName),
			ContactName: field(record, cols, colContactName),
			Email:       field(record, cols, colEmail),
			Phone:       field(record, cols, colPhone),
			Address:     field(record, cols, colAddress),
			Source:      source,
			UploadedAt:  now,
		}

		if lead.CompanyName == "" {
			res.Skipped = append(res.Skipped, RowError{Line: line, Reason: "empty company name"})
			continue
		}
		if !validEmail(lead.Email) {
			res.Skipped = append(res.Skipped, RowError{Line: line, Reason: fmt.Sprintf("invalid email %q", lead.Email)})
			continue
		}

		res.Leads = append(res.Leads, lead)
	}

	im.log.Info().
		Str("source", source).
		Int("accepted", len(res.Leads)).
		Int("skipped", len(res.Skipped)).
		Msg("csv import parsed")
	return res, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
