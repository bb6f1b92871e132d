package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
)

// Type represents the kind of backing medium for a slot.
type Type string

const (
	// TypeMemory keeps values in memory only.
	TypeMemory Type = "memory"
	// TypeFile writes one file per key into a directory.
	TypeFile Type = "file"
	// TypeSQLite stores values in a local SQLite database.
	TypeSQLite Type = "sqlite"
	// TypePostgres stores values in a PostgreSQL table.
	TypePostgres Type = "postgres"
	// TypeRedis stores values in redis.
	TypeRedis Type = "redis"
)

// sqliteFile is the database file name used inside the storage directory.
const sqliteFile = "kamakura.db"

// PostgresConfig holds the connection settings for the postgres slot.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// RedisConfig holds the connection settings for the redis slot.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config holds configuration for creating a slot.
type Config struct {
	Type     Type           // Type of slot to create
	Dir      string         // Directory used by the file and sqlite slots
	Postgres PostgresConfig // Used by the postgres slot
	Redis    RedisConfig    // Used by the redis slot
	Logger   *slog.Logger   // Logger for the slot
}

// NewSlot creates a slot based on the provided configuration.
//
// Supported types:
// - "memory": process memory, lost on exit
// - "file": <Dir>/<key>.json on the local filesystem
// - "sqlite": <Dir>/kamakura.db
// - "postgres": kv_slots table, created if missing
// - "redis": plain string keys prefixed with "kamakura:"
func NewSlot(ctx context.Context, config Config) (Slot, error) {
	switch config.Type {
	case TypeMemory:
		return NewMemorySlot(), nil
	case TypeFile:
		return NewFileSlot(afero.NewOsFs(), config.Dir, config.Logger)
	case TypeSQLite:
		return OpenSQLite(filepath.Join(config.Dir, sqliteFile), config.Logger)
	case TypePostgres:
		return newPostgresSlot(ctx, config)
	case TypeRedis:
		return newRedisSlot(ctx, config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, config.Type)
	}
}

func newPostgresSlot(ctx context.Context, config Config) (Slot, error) {
	pg := config.Postgres
	pool, err := NewDatabase(ctx, pg.Host, pg.Port, pg.User, pg.Password, pg.Name)
	if err != nil {
		return nil, err
	}

	slot := NewPostgresSlot(pool, config.Logger)
	if err = slot.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return slot, nil
}

func newRedisSlot(ctx context.Context, config Config) (Slot, error) {
	client := NewRedisClient(config.Redis.Addr, config.Redis.Password, config.Redis.DB)
	slot := NewRedisSlot(client, config.Logger)

	if err := slot.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	return slot, nil
}
