package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisKeyPrefix namespaces every key written by the redis slot.
const RedisKeyPrefix = "kamakura:"

// RedisClient is the subset of *redis.Client the redis slot needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisSlot stores values as plain redis strings without expiry.
type RedisSlot struct {
	client RedisClient
	log    *slog.Logger
}

// NewRedisClient creates a redis client for the given address.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisSlot creates a slot on top of client.
func NewRedisSlot(client RedisClient, log *slog.Logger) *RedisSlot {
	return &RedisSlot{client: client, log: log}
}

// Get implements Slot.
func (r *RedisSlot) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	value, err := r.client.Get(ctx, RedisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}

	return value, nil
}

// Set implements Slot.
func (r *RedisSlot) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.client.Set(ctx, RedisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}

	r.log.DebugContext(ctx, "Stored slot in redis", "key", key, "bytes", len(value))

	return nil
}

// Ping implements Slot.
func (r *RedisSlot) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Close implements Slot.
func (r *RedisSlot) Close() error {
	return r.client.Close()
}
