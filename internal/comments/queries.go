package comments

import (
	"slices"

	"github.com/UnknownOlympus/kamakura/internal/models"
	"github.com/google/uuid"
)

// Comments returns a copy of the collection in store order.
func (s *Store) Comments() []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.comments)
}

// Count returns the number of comments in the collection.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.comments)
}

// Contains reports whether a comment with the given ID is in the collection.
func (s *Store) Contains(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.ContainsFunc(s.comments, func(c models.Comment) bool { return c.ID == id })
}

// Near returns the comments whose distance to center is at most radiusMeters,
// in store order. A non-positive radius means DefaultNearRadius.
func (s *Store) Near(center models.Coordinates, radiusMeters float64) []models.Comment {
	if radiusMeters <= 0 {
		radiusMeters = DefaultNearRadius
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var near []models.Comment
	for _, c := range s.comments {
		if s.distance(center, c.Coordinates) <= radiusMeters {
			near = append(near, c)
		}
	}

	return near
}

// Recent returns up to limit comments, newest first. Comments with equal
// timestamps keep their store order. A non-positive limit means DefaultRecentLimit.
func (s *Store) Recent(limit int) []models.Comment {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	sorted := s.Comments()
	slices.SortStableFunc(sorted, func(a, b models.Comment) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}
