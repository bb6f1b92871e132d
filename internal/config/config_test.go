package config_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("KAMAKURA_ENV", "local")
	t.Setenv("KAMAKURA_LANGUAGE", "en-US")
	t.Setenv("KAMAKURA_STORAGE_TYPE", "postgres")
	t.Setenv("KAMAKURA_ERROR_TTL", "5s")
	t.Setenv("KAMAKURA_SEED_SAMPLES", "true")
	t.Setenv("KAMAKURA_DIRECTIONS_TYPE", "google")
	t.Setenv("KAMAKURA_DIRECTIONS_KEY", "testAPIKey")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")
	t.Setenv("REDIS_DB", "2")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "en-US", cfg.Language)
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, "testHost", cfg.Storage.Database.Host)
	assert.Equal(t, "12345", cfg.Storage.Database.Port)
	assert.Equal(t, "admin", cfg.Storage.Database.User)
	assert.Equal(t, "adminpass", cfg.Storage.Database.Password)
	assert.Equal(t, "testName", cfg.Storage.Database.Name)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, 5*time.Second, cfg.ErrorTTL)
	assert.True(t, cfg.SeedSamples)
	assert.Equal(t, "google", cfg.Directions.Type)
	assert.Equal(t, "testAPIKey", cfg.Directions.APIKey)
}

func TestMustLoad_Defaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "ja", cfg.Language)
	assert.Equal(t, "file", cfg.Storage.Type)
	assert.Equal(t, ".kamakura", cfg.Storage.Path)
	assert.Equal(t, "saved_comments", cfg.Storage.Key)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 3*time.Second, cfg.ErrorTTL)
	assert.False(t, cfg.SeedSamples)
	assert.Equal(t, "straight", cfg.Directions.Type)
	assert.Equal(t, 10, cfg.Directions.RateLimit)
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("KAMAKURA_HEALTH_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for monitoring server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_ErrorTTLError(t *testing.T) {
	t.Setenv("KAMAKURA_ERROR_TTL", "error_value")

	assert.PanicsWithValue(t, "failed to parse error ttl from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_SeedSamplesError(t *testing.T) {
	t.Setenv("KAMAKURA_SEED_SAMPLES", "sometimes")

	assert.PanicsWithValue(t, "failed to parse seed samples flag from configuration, must be a boolean", func() {
		config.MustLoad()
	})
}

func TestMustLoad_RateLimitError(t *testing.T) {
	t.Setenv("KAMAKURA_DIRECTIONS_RATE", "error_value")

	assert.PanicsWithValue(t, "failed to parse directions rate limit from configuration, must be an integer types", func() {
		config.MustLoad()
	})
}

func TestMustLoad_RedisDBError(t *testing.T) {
	t.Setenv("REDIS_DB", "error_value")

	assert.PanicsWithValue(t, "failed to parse redis database from configuration, must be an integer types", func() {
		config.MustLoad()
	})
}
