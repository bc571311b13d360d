package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Keys for app_state values the gateway and CLI care about.
const (
	// StateActiveSupplier holds the ID of the supplier selected in the
	// sidebar, so a restarted gateway seeds new sessions with it.
	StateActiveSupplier = "active_supplier"
)

// StateStore keeps small key/value app state in SQLite.
type StateStore struct {
	db *DB
}

// NewStateStore creates a state store using the given database.
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// Set upserts one value.
func (s *StateStore) Set(key, value string) error {
	_, err := s.db.sql.Exec(
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("setting state %q: %w", key, err)
	}
	return nil
}

// Get returns one value, or ErrNotFound if the key was never set.
func (s *StateStore) Get(key string) (string, error) {
	var value string
	err := s.db.sql.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting state %q: %w", key, err)
	}
	return value, nil
}

// Delete removes one value. Deleting a missing key is not an error.
func (s *StateStore) Delete(key string) error {
	if _, err := s.db.sql.Exec(`DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting state %q: %w", key, err)
	}
	return nil
}
