package directions

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/kamakura/internal/geo"
	"github.com/UnknownOlympus/kamakura/internal/models"
)

// StraightProvider estimates a route as the great-circle line between both
// ends, walked at geo.WalkingSpeed. It works offline.
type StraightProvider struct {
	distance geo.DistanceFunc
	log      *slog.Logger
}

// NewStraightProvider creates a provider measuring with distance, geo.Distance if nil.
func NewStraightProvider(distance geo.DistanceFunc, log *slog.Logger) *StraightProvider {
	if distance == nil {
		distance = geo.Distance
	}

	return &StraightProvider{distance: distance, log: log}
}

// Route implements Provider.
func (sp *StraightProvider) Route(ctx context.Context, from, to models.Coordinates) (*models.Route, error) {
	meters := sp.distance(from, to)
	sp.log.DebugContext(ctx, "Estimating straight route", "from", from, "to", to, "meters", meters)

	return &models.Route{
		From:     from,
		To:       to,
		Meters:   meters,
		Duration: geo.WalkingDuration(meters),
		Summary:  "straight line",
		Provider: string(ProviderTypeStraight),
	}, nil
}
