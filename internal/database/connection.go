package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ParseConfig parses a PostgreSQL connection string without connecting.
func ParseConfig(databaseURL string) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	return cfg, nil
}

// Connect opens a single, unpooled connection. No transaction is started,
// so every statement sent on it commits on its own. The caller owns the
// connection and must Close it.
func Connect(ctx context.Context, databaseURL string) (*pgx.Conn, error) {
	cfg, err := ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return conn, nil
}
