package service

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/comments"
	"github.com/UnknownOlympus/kamakura/internal/models"
)

type sampleComment struct {
	text   string
	coords models.Coordinates
}

var sampleComments = []sampleComment{
	{"今日は良い天気ですね！", models.Coordinates{Latitude: 35.3195, Longitude: 139.5469}},
	{"鎌倉大仏、迫力あります", models.Coordinates{Latitude: 35.3163, Longitude: 139.5362}},
	{"鶴岡八幡宮、静かで良い場所です", models.Coordinates{Latitude: 35.3258, Longitude: 139.5577}},
	{"江ノ電に乗ってきました", models.Coordinates{Latitude: 35.3089, Longitude: 139.5458}},
}

// SampleComments returns the demo comments, stamped with now.
func SampleComments(now time.Time) []models.Comment {
	list := make([]models.Comment, 0, len(sampleComments))
	for _, s := range sampleComments {
		list = append(list, models.NewComment(s.text, s.coords, now))
	}

	return list
}

// SeedSamples adds each demo comment unless a comment already sits at exactly
// the same coordinates. It returns how many were added.
func (c *Coordinator) SeedSamples(ctx context.Context) (int, error) {
	existing := c.store.Comments()
	added := 0

	for _, sample := range SampleComments(c.clock()) {
		taken := false
		for _, e := range existing {
			if e.Coordinates == sample.Coordinates {
				taken = true
				break
			}
		}
		if taken {
			continue
		}

		if err := c.store.Commit(ctx, comments.Intent{Op: comments.OpAdd, Comment: sample}); err != nil {
			return added, fmt.Errorf("failed to add sample comment: %w", err)
		}
		added++
	}

	c.log.InfoContext(ctx, "Sample comments seeded", "added", added)

	return added, nil
}
