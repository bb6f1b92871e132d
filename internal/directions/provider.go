// Package directions estimates walking routes between two points on the map.
package directions

import (
	"context"

	"github.com/UnknownOlympus/kamakura/internal/models"
)

// Provider is an interface that defines a method for finding a walking route.
// The Route method takes a context and the two ends of the route,
// and returns the route and an error if any occurs.
type Provider interface {
	Route(ctx context.Context, from, to models.Coordinates) (*models.Route, error)
}
