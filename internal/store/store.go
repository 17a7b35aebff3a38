// Package store persists drafts, reviews, signals, advisories, and the
// action log in PostgreSQL. It is the durability collaborator of the core:
// the classify, draft, and orchestrate packages never import it.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a lifecycle change is not
	// permitted from the draft's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnavailable is returned when the store has no database pool,
	// which happens when the server starts without a reachable database.
	ErrUnavailable = errors.New("database unavailable")
)

// Store wraps a pgx connection pool. A store over a nil pool is valid:
// every operation returns ErrUnavailable instead of panicking, so the
// server can come up degraded and recover meaning from the error.
type Store struct {
	db *pgxpool.Pool
}

// New creates a store over the given pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return ErrUnavailable
	}
	return nil
}

// Connect opens a pool against the given DSN and pings it. A failed ping
// returns the pool alongside the error: the database may only be slow or
// briefly down, and a live pool lets later queries succeed once it is back.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(pingCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		return pool, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
