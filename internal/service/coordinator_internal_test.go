package service

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/catalog"
	"github.com/UnknownOlympus/kamakura/internal/comments"
	"github.com/UnknownOlympus/kamakura/internal/metrics"
	"github.com/UnknownOlympus/kamakura/internal/models"
	"github.com/UnknownOlympus/kamakura/internal/storage"
	"github.com/UnknownOlympus/kamakura/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC)

type harness struct {
	coordinator *Coordinator
	store       *comments.Store
	metrics     *metrics.Metrics
	provider    *mocks.Provider
}

func newHarness(t *testing.T, slot storage.Slot, locations []models.Location) harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	store := comments.New(t.Context(), comments.Config{
		Slot:      slot,
		AfterFunc: func(time.Duration, func()) {},
		Logger:    logger,
		Metrics:   appMetrics,
	})
	provider := mocks.NewProvider(t)
	coordinator := NewCoordinator(Config{
		Store:          store,
		Locations:      locations,
		Directions:     provider,
		DirectionsName: "mock",
		Clock:          func() time.Time { return testNow },
		Logger:         logger,
		Metrics:        appMetrics,
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); store.Run(ctx) }()
	go func() { defer wg.Done(); coordinator.Run(ctx) }()
	t.Cleanup(func() {
		coordinator.Wait()
		cancel()
		wg.Wait()
	})

	return harness{coordinator: coordinator, store: store, metrics: appMetrics, provider: provider}
}

func failingSlot(t *testing.T) *mocks.Slot {
	t.Helper()

	slot := mocks.NewSlot(t)
	slot.On("Get", mock.Anything, comments.DefaultKey).Return(nil, storage.ErrNotFound).Once()
	slot.On("Set", mock.Anything, comments.DefaultKey, mock.Anything).Return(assert.AnError)

	return slot
}

func testLocations() []models.Location {
	mk := func(name string, lat, lon float64, category models.Category) models.Location {
		return models.Location{
			Name:        models.LocalizedString{Japanese: name, English: name + " (en)"},
			City:        models.LocalizedString{Japanese: "鎌倉", English: "Kamakura"},
			Coordinates: models.Coordinates{Latitude: lat, Longitude: lon},
			Description: models.LocalizedString{Japanese: "説明", English: "description"},
			Category:    category,
		}
	}

	return []models.Location{
		mk("鶴岡八幡宮", 35.3258, 139.5564, models.CategoryShrine),
		mk("長谷寺", 35.3125, 139.5335, models.CategoryTemple),
		mk("鎌倉大仏", 35.3167, 139.5358, models.CategoryBuddha),
	}
}

func TestCoordinator_Items(t *testing.T) {
	locations := catalog.Locations()
	h := newHarness(t, storage.NewMemorySlot(), locations)
	ctx := t.Context()

	t.Run("catalog only", func(t *testing.T) {
		items := h.coordinator.Items()

		require.Len(t, items, len(locations))
		assert.Equal(t, "location-"+locations[0].ID(), items[0].ID())
	})

	t.Run("submitted comment joins the map", func(t *testing.T) {
		comment, err := h.coordinator.SubmitComment(ctx, CommentDraft{
			Text:        "今日は良い天気ですね！",
			Coordinates: models.Coordinates{Latitude: 35.3195, Longitude: 139.5469},
		})
		require.NoError(t, err)

		want := len(locations) + 1
		require.Eventually(t, func() bool {
			return len(h.coordinator.Items()) == want && testutil.ToFloat64(h.metrics.MapItems) == float64(want)
		}, time.Second, time.Millisecond)

		items := h.coordinator.Items()
		assert.Equal(t, "comment-"+comment.ID.String(), items[len(items)-1].ID())
	})

	t.Run("deleted comment leaves the map", func(t *testing.T) {
		h.coordinator.Wait()
		for _, c := range h.store.Comments() {
			h.coordinator.DeleteComment(ctx, c)
		}
		h.coordinator.Wait()

		require.Eventually(t, func() bool {
			return len(h.coordinator.Items()) == len(locations)
		}, time.Second, time.Millisecond)
	})
}

func TestCoordinator_Annotations(t *testing.T) {
	h := newHarness(t, storage.NewMemorySlot(), testLocations())
	_, err := h.coordinator.SubmitComment(t.Context(), CommentDraft{
		Text:        "江ノ電に乗ってきました",
		Coordinates: models.Coordinates{Latitude: 35.3089, Longitude: 139.5458},
	})
	require.NoError(t, err)
	h.coordinator.Refresh()

	t.Run("japanese by default", func(t *testing.T) {
		annotations := h.coordinator.Annotations()

		require.Len(t, annotations, 4)
		assert.Equal(t, "鶴岡八幡宮", annotations[0].Title)
		assert.Equal(t, "shrine-pin", annotations[0].Pin)
		assert.Equal(t, "temple-pin", annotations[1].Pin)
		assert.Equal(t, "buddha-pin", annotations[2].Pin)
		assert.Equal(t, "江ノ電に乗ってきました", annotations[3].Title)
		assert.Equal(t, models.DefaultUserName, annotations[3].Subtitle)
		assert.Equal(t, CommentPin, annotations[3].Pin)
	})

	t.Run("english language tag", func(t *testing.T) {
		h.coordinator.language = catalog.StaticLanguage("en-GB")

		annotations := h.coordinator.Annotations()

		assert.Equal(t, "鶴岡八幡宮 (en)", annotations[0].Title)
		assert.Equal(t, "description", annotations[0].Subtitle)
	})
}

func TestCoordinator_Camera(t *testing.T) {
	locations := testLocations()

	t.Run("starts on the first location", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), locations)

		assert.Equal(t, locations[0].ID(), h.coordinator.MapLocation().ID())
		assert.Equal(t, models.Region{
			Center: locations[0].Coordinates,
			Span:   models.Span{LatitudeDelta: 0.05, LongitudeDelta: 0.05},
		}, h.coordinator.Region())
	})

	t.Run("next location wraps around", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), locations)

		next, ok := h.coordinator.NextLocation()
		require.True(t, ok)
		assert.Equal(t, locations[1].ID(), next.ID())

		h.coordinator.NextLocation()
		next, _ = h.coordinator.NextLocation()
		assert.Equal(t, locations[0].ID(), next.ID())
		assert.Equal(t, locations[0].Coordinates, h.coordinator.Region().Center)
	})

	t.Run("next location with empty catalog", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), nil)

		_, ok := h.coordinator.NextLocation()

		assert.False(t, ok)
	})

	t.Run("show location", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), locations)

		h.coordinator.ShowLocation(locations[2])

		assert.Equal(t, locations[2].ID(), h.coordinator.MapLocation().ID())
		assert.Equal(t, locations[2].Coordinates, h.coordinator.Region().Center)
	})

	t.Run("first fix centers on the user", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), locations)
		first := models.Coordinates{Latitude: 35.3190, Longitude: 139.5500}
		second := models.Coordinates{Latitude: 35.3200, Longitude: 139.5510}

		h.coordinator.UpdateUserLocation(first)
		assert.Equal(t, first, h.coordinator.Region().Center)

		h.coordinator.ShowLocation(locations[1])
		h.coordinator.UpdateUserLocation(second)
		assert.Equal(t, locations[1].Coordinates, h.coordinator.Region().Center)

		require.NoError(t, h.coordinator.CenterOnUser())
		assert.Equal(t, second, h.coordinator.Region().Center)
	})

	t.Run("center on user without a fix", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), locations)

		require.ErrorIs(t, h.coordinator.CenterOnUser(), ErrNoUserLocation)
	})
}

func TestCoordinator_Drafts(t *testing.T) {
	h := newHarness(t, storage.NewMemorySlot(), testLocations())

	t.Run("at map center", func(t *testing.T) {
		region := models.Region{Center: models.Coordinates{Latitude: 35.31, Longitude: 139.54}}
		h.coordinator.SetRegion(region)

		draft := h.coordinator.CommentAtMapCenter()

		assert.Equal(t, region.Center, draft.Coordinates)
		assert.Empty(t, draft.Text)
	})

	t.Run("error - at user location without a fix", func(t *testing.T) {
		_, err := h.coordinator.CommentAtUserLocation()

		require.ErrorIs(t, err, ErrNoUserLocation)
	})

	t.Run("at user location", func(t *testing.T) {
		user := models.Coordinates{Latitude: 35.3195, Longitude: 139.5469}
		h.coordinator.UpdateUserLocation(user)

		draft, err := h.coordinator.CommentAtUserLocation()

		require.NoError(t, err)
		assert.Equal(t, user, draft.Coordinates)
	})
}

func TestCoordinator_SubmitComment(t *testing.T) {
	ctx := t.Context()
	kamakura := models.Coordinates{Latitude: 35.3195, Longitude: 139.5469}

	t.Run("comment is visible before the write settles", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), nil)

		comment, err := h.coordinator.SubmitComment(ctx, CommentDraft{Text: "  大仏  ", Coordinates: kamakura})

		require.NoError(t, err)
		assert.Equal(t, "大仏", comment.Text)
		assert.Equal(t, testNow, comment.Timestamp)
		assert.Equal(t, models.DefaultUserID, comment.UserID)
		assert.Contains(t, h.store.Comments(), comment)

		h.coordinator.Wait()
		assert.Contains(t, h.store.Comments(), comment)
		assert.Empty(t, h.coordinator.ErrorMessage())
	})

	t.Run("longest accepted text", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), nil)

		_, err := h.coordinator.SubmitComment(ctx, CommentDraft{
			Text:        strings.Repeat("鎌", MaxCommentLength),
			Coordinates: kamakura,
		})

		require.NoError(t, err)
	})

	invalid := map[string]CommentDraft{
		"error - empty text":        {Text: "", Coordinates: kamakura},
		"error - whitespace only":   {Text: " \n\t ", Coordinates: kamakura},
		"error - text too long":     {Text: strings.Repeat("鎌", MaxCommentLength+1), Coordinates: kamakura},
		"error - latitude too big":  {Text: "x", Coordinates: models.Coordinates{Latitude: 90.5, Longitude: 139}},
		"error - longitude too low": {Text: "x", Coordinates: models.Coordinates{Latitude: 35, Longitude: -180.1}},
	}
	for name, draft := range invalid {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, storage.NewMemorySlot(), nil)

			_, err := h.coordinator.SubmitComment(ctx, draft)

			require.ErrorIs(t, err, ErrInvalidDraft)
			assert.Empty(t, h.store.Comments())
		})
	}

	t.Run("failed write reverts and shows an error", func(t *testing.T) {
		h := newHarness(t, failingSlot(t), nil)

		comment, err := h.coordinator.SubmitComment(ctx, CommentDraft{Text: "保存されない", Coordinates: kamakura})
		require.NoError(t, err)
		h.coordinator.Wait()

		assert.NotContains(t, h.store.Comments(), comment)
		assert.Contains(t, h.coordinator.ErrorMessage(), "コメントの保存に失敗しました")
	})
}

func TestCoordinator_DeleteComment(t *testing.T) {
	ctx := t.Context()

	t.Run("successful delete", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), nil)
		comment, err := h.coordinator.SubmitComment(ctx, CommentDraft{
			Text:        "消す",
			Coordinates: models.Coordinates{Latitude: 35.3, Longitude: 139.5},
		})
		require.NoError(t, err)
		h.coordinator.Wait()

		h.coordinator.DeleteComment(ctx, comment)

		assert.Empty(t, h.store.Comments())
		h.coordinator.Wait()
		assert.Empty(t, h.store.Comments())
	})

	t.Run("failed delete restores the comment", func(t *testing.T) {
		h := newHarness(t, failingSlot(t), nil)
		comment := models.NewComment("残る", models.Coordinates{Latitude: 35.3, Longitude: 139.5}, testNow)
		h.store.AddOptimistic(comment)

		h.coordinator.DeleteComment(ctx, comment)
		h.coordinator.Wait()

		assert.Equal(t, []models.Comment{comment}, h.store.Comments())
		assert.Contains(t, h.coordinator.ErrorMessage(), "コメントの削除に失敗しました")
	})
}

func TestCoordinator_SeedSamples(t *testing.T) {
	ctx := t.Context()

	t.Run("adds every sample once", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), nil)

		added, err := h.coordinator.SeedSamples(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, added)

		added, err = h.coordinator.SeedSamples(ctx)
		require.NoError(t, err)
		assert.Zero(t, added)
		assert.Len(t, h.store.Comments(), 4)
	})

	t.Run("skips occupied coordinates", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), nil)
		h.store.AddOptimistic(models.NewComment("先客", models.Coordinates{Latitude: 35.3163, Longitude: 139.5362}, testNow))

		added, err := h.coordinator.SeedSamples(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, added)
	})

	t.Run("error - write fails", func(t *testing.T) {
		h := newHarness(t, failingSlot(t), nil)

		added, err := h.coordinator.SeedSamples(ctx)

		require.ErrorContains(t, err, "failed to add sample comment")
		require.ErrorIs(t, err, assert.AnError)
		assert.Zero(t, added)
		assert.Empty(t, h.store.Comments())
	})
}

func TestCoordinator_Queries(t *testing.T) {
	h := newHarness(t, storage.NewMemorySlot(), nil)
	_, err := h.coordinator.SeedSamples(t.Context())
	require.NoError(t, err)

	t.Run("nearby the user", func(t *testing.T) {
		h.coordinator.UpdateUserLocation(models.Coordinates{Latitude: 35.3195, Longitude: 139.5469})

		near := h.coordinator.NearbyComments(0)

		require.Len(t, near, 1)
		assert.Equal(t, "今日は良い天気ですね！", near[0].Text)
	})

	t.Run("recent", func(t *testing.T) {
		recent := h.coordinator.RecentComments(2)

		require.Len(t, recent, 2)
		// Equal timestamps keep store order.
		assert.Equal(t, "今日は良い天気ですね！", recent[0].Text)
		assert.Equal(t, "鎌倉大仏、迫力あります", recent[1].Text)
	})
}

func TestCoordinator_NearbyWithoutFix(t *testing.T) {
	h := newHarness(t, storage.NewMemorySlot(), testLocations())
	_, err := h.coordinator.SeedSamples(t.Context())
	require.NoError(t, err)

	// The camera is on 鶴岡八幡宮, a short walk from the shrine sample.
	near := h.coordinator.NearbyComments(200)

	require.Len(t, near, 1)
	assert.Equal(t, "鶴岡八幡宮、静かで良い場所です", near[0].Text)
}

func TestCoordinator_RouteTo(t *testing.T) {
	ctx := t.Context()
	locations := testLocations()
	user := models.Coordinates{Latitude: 35.3195, Longitude: 139.5469}

	t.Run("error - no user location", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), locations)

		_, err := h.coordinator.RouteTo(ctx, locations[1])

		require.ErrorIs(t, err, ErrNoUserLocation)
	})

	t.Run("successful routing", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), locations)
		h.coordinator.UpdateUserLocation(user)
		expected := &models.Route{From: user, To: locations[1].Coordinates, Meters: 1800, Duration: 23 * time.Minute}
		h.provider.On("Route", ctx, user, locations[1].Coordinates).Return(expected, nil).Once()

		route, err := h.coordinator.RouteTo(ctx, locations[1])

		require.NoError(t, err)
		assert.Equal(t, expected, route)
		assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.RouteRequests.WithLabelValues("mock", "success")), 0)
	})

	t.Run("provider returns error", func(t *testing.T) {
		h := newHarness(t, storage.NewMemorySlot(), locations)
		h.coordinator.UpdateUserLocation(user)
		h.provider.On("Route", ctx, user, locations[2].Coordinates).Return(nil, assert.AnError).Once()

		route, err := h.coordinator.RouteTo(ctx, locations[2])

		require.Nil(t, route)
		require.ErrorIs(t, err, assert.AnError)
		assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.RouteRequests.WithLabelValues("mock", "failure")), 0)
	})
}

func TestCoordinator_RunStops(t *testing.T) {
	h := newHarness(t, storage.NewMemorySlot(), nil)
	tctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	h.coordinator.Run(tctx)
}
