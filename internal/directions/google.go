package directions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/UnknownOlympus/kamakura/internal/models"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

// GoogleProvider finds walking routes with the Google Maps Directions API.
type GoogleProvider struct {
	client  GoogleAPIClient // client is the Google Maps API client
	limiter *rate.Limiter   // limiter keeps requests under the quota
	log     *slog.Logger
}

type GoogleAPIClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds without a route.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider initializes a GoogleProvider around the given client.
func NewGoogleProvider(client GoogleAPIClient, limiter *rate.Limiter, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, limiter: limiter, log: log}
}

// Route asks Google for a walking route and returns the distance and duration
// of its first leg.
func (gp *GoogleProvider) Route(ctx context.Context, from, to models.Coordinates) (*models.Route, error) {
	gp.log.DebugContext(ctx, "Routing using Google Maps", "from", from, "to", to)

	if err := gp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	req := &maps.DirectionsRequest{
		Origin:      latLng(from),
		Destination: latLng(to),
		Mode:        maps.TravelModeWalking,
	}
	routes, _, err := gp.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get directions: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 || routes[0].Legs[0] == nil {
		return nil, ErrEmptyResponse
	}
	leg := routes[0].Legs[0]

	return &models.Route{
		From:     from,
		To:       to,
		Meters:   float64(leg.Distance.Meters),
		Duration: leg.Duration,
		Summary:  routes[0].Summary,
		Provider: string(ProviderTypeGoogle),
	}, nil
}

func latLng(c models.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
