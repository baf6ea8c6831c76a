package ownership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	sqliteLookup = `SELECT tournament_id FROM courts_data WHERE court_id = ? ORDER BY id DESC LIMIT 1`
	sqliteSchema = `CREATE TABLE IF NOT EXISTS courts_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tournament_id TEXT NOT NULL,
	court_id TEXT NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`
	sqliteAssign = `INSERT INTO courts_data (tournament_id, court_id) VALUES (?, ?)`
)

// SQLiteStore reads ownership from the courts_data table the snapshot fetcher maintains.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database file at path and verifies it is reachable.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("ownership: sqlite path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ownership: open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ownership: ping sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// EnsureSchema creates the courts_data table when the database is new.
// Existing tables are left untouched.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)
	return err
}

// Assign records that tournamentID owns courtID. Later assignments win.
func (s *SQLiteStore) Assign(ctx context.Context, courtID, tournamentID string) error {
	_, err := s.db.ExecContext(ctx, sqliteAssign, tournamentID, courtID)
	return err
}

func (s *SQLiteStore) TournamentForCourt(ctx context.Context, courtID string) (string, bool, error) {
	var tournamentID string
	err := s.db.QueryRowContext(ctx, sqliteLookup, courtID).Scan(&tournamentID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ownership: sqlite lookup: %w", err)
	}
	return tournamentID, true, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
