// Package catalog exposes the fixed list of temples and shrines bundled with the guide.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/UnknownOlympus/kamakura/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var locationsYAML []byte

// ErrInvalidLocation is returned when a catalog entry is missing required data.
var ErrInvalidLocation = errors.New("invalid catalog location")

var loadBundled = sync.OnceValues(func() ([]models.Location, error) {
	return Parse(locationsYAML)
})

// Locations returns the bundled catalog in display order.
// The returned slice is a copy and may be modified by the caller.
func Locations() []models.Location {
	locations, err := loadBundled()
	if err != nil {
		panic(fmt.Sprintf("bundled catalog is broken: %v", err))
	}

	return slices.Clone(locations)
}

// Parse decodes a YAML list of locations and checks every entry.
func Parse(data []byte) ([]models.Location, error) {
	var locations []models.Location

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&locations); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	for idx, loc := range locations {
		if loc.Name.Japanese == "" || loc.City.Japanese == "" {
			return nil, fmt.Errorf("%w: entry %d has no japanese name or city", ErrInvalidLocation, idx)
		}
		if !loc.Category.Valid() {
			return nil, fmt.Errorf("%w: entry %d (%s) has unknown category %q",
				ErrInvalidLocation, idx, loc.ID(), loc.Category)
		}
	}

	return locations, nil
}

// Find returns the location with the given ID.
func Find(locations []models.Location, id string) (models.Location, bool) {
	for _, loc := range locations {
		if loc.ID() == id {
			return loc, true
		}
	}

	return models.Location{}, false
}
