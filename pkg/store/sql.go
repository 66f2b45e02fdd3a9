package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fleetctl/pkg/session"
)

// SQLStore keeps the entries in a two-column key/value table, for setups
// where the session should live in a shared local database instead of
// loose files.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session_entries (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("create session_entries table: %w", err)
	}
	return &SQLStore{DB: db}, nil
}

func (s *SQLStore) Save(token string, roles []session.Role) error {
	raw, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("encode roles: %w", err)
	}
	for entry, value := range map[string]string{
		tokenEntry: token,
		rolesEntry: string(raw),
	} {
		_, err := s.DB.Exec(`
			INSERT INTO session_entries (name, value) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET value = excluded.value
		`, entry, value)
		if err != nil {
			return fmt.Errorf("save %s: %w", entry, err)
		}
	}
	return nil
}

func (s *SQLStore) Load() (string, []session.Role, error) {
	token, ok, err := s.get(tokenEntry)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, nil
	}

	rawRoles, ok, err := s.get(rolesEntry)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return token, nil, nil
	}

	var roles []session.Role
	if err := json.Unmarshal([]byte(rawRoles), &roles); err != nil {
		return token, nil, ErrCorruptRoles
	}
	return token, roles, nil
}

func (s *SQLStore) Clear() error {
	_, err := s.DB.Exec(`DELETE FROM session_entries`)
	if err != nil {
		return fmt.Errorf("clear session entries: %w", err)
	}
	return nil
}

func (s *SQLStore) get(entry string) (string, bool, error) {
	var value string
	err := s.DB.QueryRow(
		`SELECT value FROM session_entries WHERE name = ?`, entry,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", entry, err)
	}
	return value, true, nil
}
