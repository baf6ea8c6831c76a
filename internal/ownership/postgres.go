package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresLookup = `SELECT tournament_id FROM courts_data WHERE court_id = $1 ORDER BY id DESC LIMIT 1`

// PostgresStore reads ownership from a shared Postgres courts_data table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates a connection pool for dsn and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("ownership: postgres dsn is empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("ownership: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ownership: ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) TournamentForCourt(ctx context.Context, courtID string) (string, bool, error) {
	var tournamentID string
	err := s.pool.QueryRow(ctx, postgresLookup, courtID).Scan(&tournamentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ownership: postgres lookup: %w", err)
	}
	return tournamentID, true, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
