package models

import "time"

// Route is a walking route between two points.
type Route struct {
	From     Coordinates
	To       Coordinates
	Meters   float64       // Meters is the length of the route.
	Duration time.Duration // Duration is the expected walking time.
	Summary  string        // Summary is a short human readable description, may be empty.
	Provider string        // Provider is the name of the provider that computed the route.
}
