package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Semara-26/shiki-pilot/storage"
)

//go:embed migrations.sql
var migrations string

// Backend wraps a pgx connection pool shared by the repositories.
type Backend struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenBackend connects to PostgreSQL and applies the schema.
// The target database needs the pgvector extension available.
func OpenBackend(ctx context.Context, dsn string) (*Backend, error) {
	logger := slog.Default().With("component", "postgres")

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if _, err := pool.Exec(ctx, migrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("Opened PostgreSQL backend")
	return &Backend{pool: pool, logger: logger}, nil
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
		b.logger.Info("Closed PostgreSQL backend")
	}
	return nil
}

// mapError translates pgx errors to storage sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateKey, pgErr.ConstraintName)
	}
	return err
}

// mapForeignKey additionally treats foreign key violations as a missing
// parent record.
func mapForeignKey(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, pgErr.ConstraintName)
	}
	return mapError(err)
}
