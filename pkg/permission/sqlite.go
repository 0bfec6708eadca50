package permission

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by an embedded SQLite database. Suitable for
// hosts that already keep a state database; FileStore is the lighter option.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite permission store at path.
// Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	// seq preserves first-contact order for List.
	schema := `
	CREATE TABLE IF NOT EXISTS apps (
		seq       INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid      TEXT NOT NULL UNIQUE,
		name      TEXT NOT NULL DEFAULT '',
		permitted INTEGER NOT NULL DEFAULT 0
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// IsPermitted reports whether the identity may mutate features.
func (s *SQLiteStore) IsPermitted(id uuid.UUID) bool {
	var permitted bool
	err := s.db.QueryRow(
		`SELECT permitted FROM apps WHERE uuid = ?`, id.String(),
	).Scan(&permitted)
	if err != nil {
		return false
	}
	return permitted
}

// RecordSeen notes a request from id. The INSERT OR IGNORE makes record
// creation (and thereby list membership) a compare-and-create, so concurrent
// first contact cannot produce duplicates.
func (s *SQLiteStore) RecordSeen(id uuid.UUID, displayName string) error {
	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO apps (uuid) VALUES (?)`, id.String(),
	); err != nil {
		return fmt.Errorf("recording identity: %w", err)
	}
	if displayName != "" {
		if _, err := s.db.Exec(
			`UPDATE apps SET name = ? WHERE uuid = ?`, displayName, id.String(),
		); err != nil {
			return fmt.Errorf("updating name: %w", err)
		}
	}
	return nil
}

// SetPermitted sets the permitted flag, creating the record if needed.
func (s *SQLiteStore) SetPermitted(id uuid.UUID, permitted bool) error {
	if _, err := s.db.Exec(
		`INSERT INTO apps (uuid, permitted) VALUES (?, ?)
		 ON CONFLICT(uuid) DO UPDATE SET permitted = excluded.permitted`,
		id.String(), permitted,
	); err != nil {
		return fmt.Errorf("setting permitted: %w", err)
	}
	return nil
}

// Name returns the stored display name for id.
func (s *SQLiteStore) Name(id uuid.UUID) (string, bool) {
	var name string
	err := s.db.QueryRow(
		`SELECT name FROM apps WHERE uuid = ?`, id.String(),
	).Scan(&name)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// List returns the known identities in first-contact order.
func (s *SQLiteStore) List() []uuid.UUID {
	rows, err := s.db.Query(`SELECT uuid FROM apps ORDER BY seq`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time interface satisfaction check.
var _ Store = (*SQLiteStore)(nil)
