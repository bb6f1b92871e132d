// Package geo holds the small amount of spherical geometry the guide needs.
package geo

import (
	"time"

	"github.com/UnknownOlympus/kamakura/internal/models"
	"github.com/golang/geo/s2"
)

// EarthRadius is the mean Earth radius in meters (IUGG).
const EarthRadius = 6371008.8

// WalkingSpeed is the pace used to estimate walking time, in meters per second (about 4.8 km/h).
const WalkingSpeed = 4.8 * 1000 / 3600

// DistanceFunc returns the distance between two points in meters.
type DistanceFunc func(a, b models.Coordinates) float64

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b models.Coordinates) float64 {
	angle := latLng(a).Distance(latLng(b))

	return angle.Radians() * EarthRadius
}

// WalkingDuration estimates how long it takes to walk the given distance.
func WalkingDuration(meters float64) time.Duration {
	if meters <= 0 {
		return 0
	}

	return time.Duration(meters / WalkingSpeed * float64(time.Second)).Round(time.Second)
}

func latLng(c models.Coordinates) s2.LatLng {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude)
}
