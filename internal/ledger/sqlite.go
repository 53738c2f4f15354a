package ledger

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pattern_stats (
	field    TEXT NOT NULL,
	pattern  TEXT NOT NULL,
	count    INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
	seq      INTEGER NOT NULL,
	PRIMARY KEY (field, pattern)
);
`

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens a SQLite ledger and runs migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; the ledger already serializes mutations
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads every entry ordered by insertion
func (s *SQLiteStore) Load() ([]Stat, error) {
	rows, err := s.db.Query(`SELECT field, pattern, count, seq FROM pattern_stats ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Stat, 0)
	for rows.Next() {
		var e Stat
		if err := rows.Scan(&e.Field, &e.Pattern, &e.Count, &e.Seq); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Put upserts an entry
func (s *SQLiteStore) Put(entry Stat) error {
	_, err := s.db.Exec(
		`INSERT INTO pattern_stats (field, pattern, count, seq) VALUES (?, ?, ?, ?)
		 ON CONFLICT(field, pattern) DO UPDATE SET count = excluded.count`,
		entry.Field, entry.Pattern, entry.Count, entry.Seq,
	)
	if err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
