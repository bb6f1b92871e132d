// Package comments owns the user's geolocated notes: the in-memory collection
// the map renders from, and its persistence into a storage slot.
//
// Mutations are optimistic. AddOptimistic and RemoveOptimistic change the
// collection immediately; PersistAdd and PersistRemove write the whole
// collection through a single writer goroutine (Run), so writes never
// interleave and a later write always carries every earlier mutation.
// Apply/Settle and Commit tie both halves together and revert the in-memory
// change when the write fails.
package comments

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/geo"
	"github.com/UnknownOlympus/kamakura/internal/metrics"
	"github.com/UnknownOlympus/kamakura/internal/models"
	"github.com/UnknownOlympus/kamakura/internal/storage"
	"github.com/google/uuid"
)

// Defaults used when the corresponding Config field is zero.
const (
	DefaultKey          = "saved_comments"
	DefaultErrorTTL     = 3 * time.Second
	DefaultNearRadius   = 1000.0
	DefaultRecentLimit  = 50
	quarantineKeySuffix = ".corrupt"
	requestQueueSize    = 16
)

// Config holds the dependencies and settings of a Store.
type Config struct {
	Slot        storage.Slot                // Slot the collection is persisted into
	Key         string                      // Key of the slot entry, DefaultKey if empty
	StorageName string                      // Label for persistence metrics
	ErrorTTL    time.Duration               // Lifetime of a transient error, DefaultErrorTTL if zero
	Distance    geo.DistanceFunc            // Distance used by Near, geo.Distance if nil
	AfterFunc   func(time.Duration, func()) // Scheduler for error expiry, time.AfterFunc if nil
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Store is the authoritative collection of comments.
type Store struct {
	log         *slog.Logger
	slot        storage.Slot
	metrics     *metrics.Metrics
	key         string
	storageName string
	errorTTL    time.Duration
	distance    geo.DistanceFunc
	afterFunc   func(time.Duration, func())

	mu          sync.RWMutex
	comments    []models.Comment
	errMsg      string
	loadErr     *LoadError
	pending     map[PendingID]pendingMutation
	nextPending PendingID
	subs        map[int]chan Event
	nextSub     int

	requests chan persistRequest
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a store and restores the persisted collection from the slot.
// A collection that cannot be read or decoded is replaced by an empty one;
// the reason is logged and available from LoadErr.
func New(ctx context.Context, cfg Config) *Store {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.ErrorTTL <= 0 {
		cfg.ErrorTTL = DefaultErrorTTL
	}
	if cfg.Distance == nil {
		cfg.Distance = geo.Distance
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}

	s := &Store{
		log:         cfg.Logger,
		slot:        cfg.Slot,
		metrics:     cfg.Metrics,
		key:         cfg.Key,
		storageName: cfg.StorageName,
		errorTTL:    cfg.ErrorTTL,
		distance:    cfg.Distance,
		afterFunc:   cfg.AfterFunc,
		pending:     make(map[PendingID]pendingMutation),
		subs:        make(map[int]chan Event),
		requests:    make(chan persistRequest, requestQueueSize),
		stopped:     make(chan struct{}),
	}

	s.load(ctx)

	return s
}

func (s *Store) load(ctx context.Context) {
	data, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.InfoContext(ctx, "No saved comments found, starting empty", "key", s.key)
		return
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to read saved comments, starting empty", "key", s.key, "error", err)
		s.loadErr = &LoadError{Key: s.key, Err: err}
		s.metrics.LoadFailures.Inc()
		return
	}

	list, err := Decode(data)
	if err != nil {
		loadErr := &LoadError{Key: s.key, Err: err}
		quarantine := s.key + quarantineKeySuffix
		if qErr := s.slot.Set(ctx, quarantine, data); qErr != nil {
			s.log.ErrorContext(ctx, "Failed to keep unreadable comments aside", "key", quarantine, "error", qErr)
		} else {
			loadErr.Quarantined = true
		}

		s.log.ErrorContext(ctx, "Failed to decode saved comments, starting empty",
			"key", s.key,
			"quarantine", quarantine,
			"quarantined", loadErr.Quarantined,
			"error", err)
		s.loadErr = loadErr
		s.metrics.LoadFailures.Inc()
		return
	}

	s.comments = list
	s.metrics.LiveComments.Set(float64(len(list)))
	s.log.InfoContext(ctx, "Saved comments loaded", "key", s.key, "count", len(list))
}

// LoadErr returns the error that made the store start empty, or nil.
func (s *Store) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loadErr == nil {
		return nil
	}

	return s.loadErr
}

// AddOptimistic appends c to the collection immediately. It never fails and
// does not check for duplicates.
func (s *Store) AddOptimistic(c models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments = append(s.comments, c)
	s.collectionChangedLocked()
}

// RemoveOptimistic removes every comment with c's ID. It is a no-op when the
// comment is absent.
func (s *Store) RemoveOptimistic(c models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(c.ID)
}

// removeLocked removes the comment and reports the index it was at, or -1.
func (s *Store) removeLocked(id uuid.UUID) int {
	idx := slices.IndexFunc(s.comments, func(c models.Comment) bool { return c.ID == id })
	if idx < 0 {
		return -1
	}

	s.comments = slices.DeleteFunc(s.comments, func(c models.Comment) bool { return c.ID == id })
	s.collectionChangedLocked()

	return idx
}

func (s *Store) insertLocked(idx int, c models.Comment) {
	if idx < 0 || idx > len(s.comments) {
		idx = len(s.comments)
	}

	s.comments = slices.Insert(s.comments, idx, c)
	s.collectionChangedLocked()
}

func (s *Store) collectionChangedLocked() {
	s.metrics.LiveComments.Set(float64(len(s.comments)))
	s.notifyLocked(EventCommentsChanged)
}
