// Package service ties the catalog, the comment store and the directions
// provider together into the state a map screen renders.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/catalog"
	"github.com/UnknownOlympus/kamakura/internal/comments"
	"github.com/UnknownOlympus/kamakura/internal/directions"
	"github.com/UnknownOlympus/kamakura/internal/mapitem"
	"github.com/UnknownOlympus/kamakura/internal/metrics"
	"github.com/UnknownOlympus/kamakura/internal/models"
	"github.com/go-playground/validator/v10"
)

// MapSpan is the zoom used whenever the camera is moved to a point.
const MapSpan = 0.05

// CommentPin is the map pin asset of comments.
const CommentPin = "comment-pin"

// ErrNoUserLocation is returned by operations that need a position fix
// before the device has reported one.
var ErrNoUserLocation = errors.New("user location is not known yet")

// CommentStore is the part of comments.Store the coordinator relies on.
type CommentStore interface {
	Comments() []models.Comment
	Subscribe() (<-chan comments.Event, func())
	Apply(intent comments.Intent) comments.PendingID
	Settle(id comments.PendingID, outcome error) bool
	PersistAdd(ctx context.Context, c models.Comment) error
	PersistRemove(ctx context.Context, c models.Comment) error
	Commit(ctx context.Context, intent comments.Intent) error
	Near(center models.Coordinates, radiusMeters float64) []models.Comment
	Recent(limit int) []models.Comment
	ErrorMessage() string
}

// Config holds the collaborators of a Coordinator.
type Config struct {
	Store          CommentStore
	Locations      []models.Location
	Directions     directions.Provider
	DirectionsName string                 // Provider label for metrics
	Language       catalog.LanguageSource // catalog.StaticLanguage("ja") if nil
	Clock          func() time.Time       // time.Now if nil
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
}

// Coordinator owns the map state: the unified item list, the camera region,
// the focused catalog location and the last known user position.
type Coordinator struct {
	log            *slog.Logger
	store          CommentStore
	locations      []models.Location
	directions     directions.Provider
	directionsName string
	language       catalog.LanguageSource
	clock          func() time.Time
	metrics        *metrics.Metrics
	validate       *validator.Validate

	mu          sync.RWMutex
	items       []mapitem.Item
	region      models.Region
	mapLocation models.Location
	user        *models.Coordinates

	inflight sync.WaitGroup
}

// NewCoordinator creates a coordinator focused on the first catalog location.
func NewCoordinator(cfg Config) *Coordinator {
	if cfg.Language == nil {
		cfg.Language = catalog.StaticLanguage("ja")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	c := &Coordinator{
		log:            cfg.Logger,
		store:          cfg.Store,
		locations:      cfg.Locations,
		directions:     cfg.Directions,
		directionsName: cfg.DirectionsName,
		language:       cfg.Language,
		clock:          cfg.Clock,
		metrics:        cfg.Metrics,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}

	if len(c.locations) > 0 {
		c.mapLocation = c.locations[0]
		c.region = regionAround(c.mapLocation.Coordinates)
	}
	c.Refresh()

	return c
}

// Run keeps the item list in step with the comment store until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	events, cancel := c.store.Subscribe()
	defer cancel()

	c.log.InfoContext(ctx, "Map coordinator started...")
	// Changes made before the subscription are picked up here.
	c.Refresh()

	for {
		select {
		case <-ctx.Done():
			c.log.InfoContext(ctx, "Map coordinator stopped.")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Kind == comments.EventCommentsChanged {
				c.Refresh()
			}
		}
	}
}

// Refresh rebuilds the item list from the catalog and the current comments.
func (c *Coordinator) Refresh() {
	items := mapitem.Unify(c.locations, c.store.Comments())

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	c.metrics.MapItems.Set(float64(len(items)))
}

// Items returns the current map items, locations first.
func (c *Coordinator) Items() []mapitem.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]mapitem.Item(nil), c.items...)
}

// Annotation is a map item resolved for display in the user's language.
type Annotation struct {
	ID          string
	Title       string
	Subtitle    string
	Coordinates models.Coordinates
	Pin         string
}

// Annotations returns the current items as markers in the user's language.
func (c *Coordinator) Annotations() []Annotation {
	tag := c.language.CurrentLanguageTag()
	items := c.Items()

	annotations := make([]Annotation, 0, len(items))
	for _, item := range items {
		pin := CommentPin
		if loc, ok := item.Location(); ok {
			pin = loc.Category.PinImage()
		}
		annotations = append(annotations, Annotation{
			ID:          item.ID(),
			Title:       item.Title(tag),
			Subtitle:    item.Subtitle(tag),
			Coordinates: item.Coordinates(),
			Pin:         pin,
		})
	}

	return annotations
}

// ErrorMessage returns the transient error to show over the map, if any.
func (c *Coordinator) ErrorMessage() string {
	return c.store.ErrorMessage()
}

func regionAround(center models.Coordinates) models.Region {
	return models.Region{
		Center: center,
		Span:   models.Span{LatitudeDelta: MapSpan, LongitudeDelta: MapSpan},
	}
}

// Region returns the camera region.
func (c *Coordinator) Region() models.Region {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.region
}

// SetRegion records where the user panned the map to.
func (c *Coordinator) SetRegion(region models.Region) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.region = region
}

// MapLocation returns the focused catalog location.
func (c *Coordinator) MapLocation() models.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.mapLocation
}

// ShowLocation focuses loc and moves the camera to it.
func (c *Coordinator) ShowLocation(loc models.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mapLocation = loc
	c.region = regionAround(loc.Coordinates)
}

// NextLocation focuses the catalog location after the current one, wrapping
// around to the first. It reports false when the catalog is empty.
func (c *Coordinator) NextLocation() (models.Location, bool) {
	if len(c.locations) == 0 {
		return models.Location{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := 0
	currentID := c.mapLocation.ID()
	for idx, loc := range c.locations {
		if loc.ID() == currentID {
			next = (idx + 1) % len(c.locations)
			break
		}
	}

	c.mapLocation = c.locations[next]
	c.region = regionAround(c.mapLocation.Coordinates)

	return c.mapLocation, true
}

// UpdateUserLocation records a position fix. The first fix also centers the
// camera on the user.
func (c *Coordinator) UpdateUserLocation(coords models.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()

	first := c.user == nil
	c.user = &coords
	if first {
		c.region = regionAround(coords)
	}
}

// UserLocation returns the last position fix.
func (c *Coordinator) UserLocation() (models.Coordinates, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return models.Coordinates{}, false
	}

	return *c.user, true
}

// CenterOnUser moves the camera to the last position fix.
func (c *Coordinator) CenterOnUser() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return ErrNoUserLocation
	}
	c.region = regionAround(*c.user)

	return nil
}
