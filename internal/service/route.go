package service

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/models"
)

// RouteTo finds a walking route from the user's position to loc.
func (c *Coordinator) RouteTo(ctx context.Context, loc models.Location) (*models.Route, error) {
	from, ok := c.UserLocation()
	if !ok {
		return nil, ErrNoUserLocation
	}

	c.log.DebugContext(ctx, "Requesting walking route", "destination", loc.ID(), "provider", c.directionsName)

	startTime := time.Now()
	route, err := c.directions.Route(ctx, from, loc.Coordinates)
	c.metrics.RouteSeconds.WithLabelValues(c.directionsName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		c.metrics.RouteRequests.WithLabelValues(c.directionsName, "failure").Inc()
		c.log.ErrorContext(ctx, "Failed to find route", "destination", loc.ID(), "error", err)
		return nil, fmt.Errorf("failed to find route to %s: %w", loc.ID(), err)
	}

	c.metrics.RouteRequests.WithLabelValues(c.directionsName, "success").Inc()

	return route, nil
}
