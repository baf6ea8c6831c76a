package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/preston-bernstein/court-live-service/internal/config"
)

// ErrUnknownDriver is returned by Open for drivers other than sqlite, postgres and memory.
var ErrUnknownDriver = errors.New("ownership: unknown driver")

// Resolver maps a court to the tournament that currently owns it.
type Resolver interface {
	TournamentForCourt(ctx context.Context, courtID string) (string, bool, error)
}

// Store is a Resolver backed by a resource that must be released.
type Store interface {
	Resolver
	Close() error
}

// Open selects the store named by cfg.Driver.
func Open(ctx context.Context, cfg config.OwnershipConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return OpenSQLite(ctx, cfg.DatabasePath)
	case "postgres":
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
