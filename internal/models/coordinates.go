package models

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 `json:"latitude"  yaml:"latitude"`  // Latitude of the geographical point.
	Longitude float64 `json:"longitude" yaml:"longitude"` // Longitude of the geographical point.
}

// Span is the visible extent of a map region in degrees.
type Span struct {
	LatitudeDelta  float64
	LongitudeDelta float64
}

// Region is the camera region of the map: a center point and a span around it.
type Region struct {
	Center Coordinates
	Span   Span
}
