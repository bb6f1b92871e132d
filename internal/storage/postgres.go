package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of *pgxpool.Pool the postgres slot needs.
// pgxmock.PgxPoolIface satisfies it as well.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresSlot stores values in the kv_slots table.
type PostgresSlot struct {
	db  Database
	log *slog.Logger
}

// NewDatabase opens a connection pool to PostgreSQL and checks it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(host, port),
		Path:   name,
	}

	pool, err := pgxpool.New(ctx, dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// NewPostgresSlot creates a slot on top of db. Call EnsureSchema before first use.
func NewPostgresSlot(db Database, log *slog.Logger) *PostgresSlot {
	return &PostgresSlot{db: db, log: log}
}

// EnsureSchema creates the kv_slots table if it does not exist.
func (p *PostgresSlot) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_slots (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := p.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create kv_slots table: %w", err)
	}

	return nil
}

// Get implements Slot.
func (p *PostgresSlot) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	query := `
		SELECT value
		FROM kv_slots
		WHERE key = $1;
	`

	var value []byte
	err := p.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query slot value: %w", err)
	}

	p.log.DebugContext(ctx, "Slot value has been read from postgres.", "key", key, "bytes", len(value))

	return value, nil
}

// Set implements Slot.
func (p *PostgresSlot) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	query := `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`

	if _, err := p.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to upsert slot value: %w", err)
	}

	return nil
}

// Ping implements Slot.
func (p *PostgresSlot) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Close implements Slot.
func (p *PostgresSlot) Close() error {
	p.db.Close()
	return nil
}
