package geo_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/geo"
	"github.com/UnknownOlympus/kamakura/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	origin := models.Coordinates{Latitude: 35.3195, Longitude: 139.5469}

	t.Run("same point", func(t *testing.T) {
		assert.InDelta(t, 0, geo.Distance(origin, origin), 1e-9)
	})

	t.Run("daibutsu is just over a kilometer away", func(t *testing.T) {
		daibutsu := models.Coordinates{Latitude: 35.3163, Longitude: 139.5362}

		assert.InDelta(t, 1034, geo.Distance(origin, daibutsu), 1)
	})

	t.Run("symmetric", func(t *testing.T) {
		hachimangu := models.Coordinates{Latitude: 35.3258, Longitude: 139.5564}
		hasedera := models.Coordinates{Latitude: 35.3129, Longitude: 139.5342}

		assert.InDelta(t, geo.Distance(hachimangu, hasedera), geo.Distance(hasedera, hachimangu), 1e-6)
		assert.InDelta(t, 2473, geo.Distance(hachimangu, hasedera), 1)
	})

	t.Run("across the antimeridian", func(t *testing.T) {
		a := models.Coordinates{Latitude: 0, Longitude: 179.5}
		b := models.Coordinates{Latitude: 0, Longitude: -179.5}

		assert.InEpsilon(t, 3.141592653589793/180*geo.EarthRadius, geo.Distance(a, b), 1e-9)
	})

	t.Run("antipodes", func(t *testing.T) {
		a := models.Coordinates{Latitude: 0, Longitude: 0}
		b := models.Coordinates{Latitude: 0, Longitude: 180}

		assert.InEpsilon(t, 3.141592653589793*geo.EarthRadius, geo.Distance(a, b), 1e-9)
	})
}

func TestWalkingDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), geo.WalkingDuration(0))
	assert.Equal(t, time.Duration(0), geo.WalkingDuration(-5))
	assert.Equal(t, 15*time.Minute, geo.WalkingDuration(1200))
}
