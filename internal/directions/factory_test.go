package directions_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/kamakura/internal/directions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("create straight provider successfully", func(t *testing.T) {
		provider, err := directions.NewProvider(directions.ProviderConfig{
			Type:   directions.ProviderTypeStraight,
			Logger: logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*directions.StraightProvider)
		assert.True(t, ok, "expected provider to be *StraightProvider")
	})

	t.Run("create Google provider successfully", func(t *testing.T) {
		provider, err := directions.NewProvider(directions.ProviderConfig{
			Type:      directions.ProviderTypeGoogle,
			APIKey:    "test-api-key",
			RateLimit: 10,
			Logger:    logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*directions.GoogleProvider)
		assert.True(t, ok, "expected provider to be *GoogleProvider")
	})

	t.Run("create Google provider without rate limit", func(t *testing.T) {
		provider, err := directions.NewProvider(directions.ProviderConfig{
			Type:   directions.ProviderTypeGoogle,
			APIKey: "test-api-key",
			Logger: logger,
		})

		require.NoError(t, err)
		require.NotNil(t, provider)
	})

	t.Run("create Google provider without API key fails", func(t *testing.T) {
		provider, err := directions.NewProvider(directions.ProviderConfig{
			Type:   directions.ProviderTypeGoogle,
			Logger: logger,
		})

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "API key is required for Google provider")
	})

	t.Run("create OSRM provider successfully", func(t *testing.T) {
		provider, err := directions.NewProvider(directions.ProviderConfig{
			Type:    directions.ProviderTypeOSRM,
			BaseURL: "http://localhost:5000",
			Logger:  logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*directions.OSRMProvider)
		assert.True(t, ok, "expected provider to be *OSRMProvider")
	})

	t.Run("unsupported provider type", func(t *testing.T) {
		provider, err := directions.NewProvider(directions.ProviderConfig{
			Type:   directions.ProviderType("unsupported"),
			Logger: logger,
		})

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "unsupported provider type: unsupported")
	})
}

func TestProviderType_Constants(t *testing.T) {
	assert.Equal(t, "straight", string(directions.ProviderTypeStraight))
	assert.Equal(t, "google", string(directions.ProviderTypeGoogle))
	assert.Equal(t, "osrm", string(directions.ProviderTypeOSRM))
}
