package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a file-backed Ledger, durable across runs of the client on
// the same machine.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the ledger database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.initDB(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) initDB() error {
	query := `
	CREATE TABLE IF NOT EXISTS reactions (
		key TEXT PRIMARY KEY,
		polarity TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("init ledger schema: %w", err)
	}
	return nil
}

func (s *SQLite) Get(t TargetType, id int) (Polarity, bool) {
	var p string
	err := s.db.QueryRow("SELECT polarity FROM reactions WHERE key = ?", Key(t, id)).Scan(&p)
	if err != nil {
		return "", false
	}
	return Polarity(p), true
}

// Set writes the entry once; an existing entry is left untouched so a
// committed reaction is never silently overwritten.
func (s *SQLite) Set(t TargetType, id int, p Polarity) error {
	_, err := s.db.Exec(
		"INSERT INTO reactions (key, polarity) VALUES (?, ?) ON CONFLICT(key) DO NOTHING",
		Key(t, id), string(p),
	)
	if err != nil {
		return fmt.Errorf("save reaction: %w", err)
	}
	return nil
}

func (s *SQLite) Clear(t TargetType, id int) error {
	if _, err := s.db.Exec("DELETE FROM reactions WHERE key = ?", Key(t, id)); err != nil {
		return fmt.Errorf("clear reaction: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
