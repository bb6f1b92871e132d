package directions

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

// ProviderType represents the type of directions provider.
type ProviderType string

const (
	// ProviderTypeStraight estimates routes from the great-circle distance.
	ProviderTypeStraight ProviderType = "straight"
	// ProviderTypeGoogle represents Google Maps Directions API.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeOSRM represents an OSRM routing server with the foot profile.
	ProviderTypeOSRM ProviderType = "osrm"
)

// ProviderConfig holds configuration for creating a directions provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key (used by Google provider)
	BaseURL   string       // Server URL (used by OSRM provider)
	RateLimit int          // Requests per second (Google and OSRM providers)
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates a directions provider based on the provided configuration.
//
// Supported provider types:
// - "straight": great-circle distance at walking speed, no network access
// - "google": Google Maps Directions API in walking mode (requires API key)
// - "osrm": OSRM route service, public demo server unless BaseURL is set
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeStraight:
		return NewStraightProvider(nil, config.Logger), nil
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeOSRM:
		return newOSRMProvider(config), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	client, err := maps.NewClient(maps.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	if config.RateLimit <= 0 {
		config.RateLimit = defaultRateLimit
		config.Logger.Warn("Rate limit for Google API not set, set a default value", "value", config.RateLimit)
	}

	return NewGoogleProvider(client, newLimiter(config.RateLimit), config.Logger), nil
}

func newOSRMProvider(config ProviderConfig) Provider {
	if config.RateLimit <= 0 {
		// The public demo server allows one request per second.
		config.RateLimit = 1
	}

	provider := NewOSRMProvider(newLimiter(config.RateLimit), config.Logger)
	if config.BaseURL != "" {
		provider.baseURL = config.BaseURL
	}

	return provider
}

const defaultRateLimit = 10

func newLimiter(perSecond int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}
