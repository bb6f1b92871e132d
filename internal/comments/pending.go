package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/kamakura/internal/models"
)

// Intent is a mutation the user asked for.
type Intent struct {
	Op      Op
	Comment models.Comment
}

// PendingID identifies an applied intent that has not been settled yet.
type PendingID uint64

type pendingMutation struct {
	intent Intent
	// index is where a removed comment was, -1 when the removal was a no-op.
	index int
}

// Apply performs the optimistic half of an intent and returns the handle to
// settle it with once the write outcome is known.
func (s *Store) Apply(intent Intent) PendingID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPending++
	id := s.nextPending
	mutation := pendingMutation{intent: intent, index: -1}

	switch intent.Op {
	case OpAdd:
		s.comments = append(s.comments, intent.Comment)
		s.collectionChangedLocked()
	case OpRemove:
		mutation.index = s.removeLocked(intent.Comment.ID)
	}

	s.pending[id] = mutation

	return id
}

// Settle completes a pending intent. A nil outcome confirms it. Otherwise the
// optimistic change is reverted, the collection is queued for rewriting and a
// transient error is shown. Settle reports
// false for unknown or already settled handles.
func (s *Store) Settle(id PendingID, outcome error) bool {
	s.mu.Lock()
	mutation, ok := s.pending[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.pending, id)

	op := mutation.intent.Op
	if outcome == nil {
		s.mu.Unlock()
		s.metrics.Mutations.WithLabelValues(string(op), "success").Inc()
		return true
	}

	switch op {
	case OpAdd:
		s.removeLocked(mutation.intent.Comment.ID)
	case OpRemove:
		if mutation.index >= 0 {
			s.insertLocked(mutation.index, mutation.intent.Comment)
		}
	}
	s.mu.Unlock()

	// Another request may already have written the reverted state.
	s.resync(mutation.intent.Comment)

	s.metrics.Mutations.WithLabelValues(string(op), "failure").Inc()
	s.metrics.Rollbacks.WithLabelValues(string(op)).Inc()
	s.log.Warn("Reverted optimistic comment change",
		"op", op,
		"comment", mutation.intent.Comment.ID,
		"error", outcome)

	cause := outcome
	var persistErr *PersistError
	if errors.As(outcome, &persistErr) {
		cause = persistErr.Err
	}
	s.ShowError(userMessage(op, cause))

	return true
}

// Pending returns the number of applied intents that are not settled.
func (s *Store) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.pending)
}

// Commit applies an intent, persists it through the writer and settles it with
// the outcome. It waits for the write to finish even when ctx is cancelled,
// because only a finished write tells whether to revert.
func (s *Store) Commit(ctx context.Context, intent Intent) error {
	id := s.Apply(intent)

	var err error
	switch intent.Op {
	case OpAdd:
		err = s.PersistAdd(context.WithoutCancel(ctx), intent.Comment)
	case OpRemove:
		err = s.PersistRemove(context.WithoutCancel(ctx), intent.Comment)
	default:
		err = fmt.Errorf("unknown comment operation %q", intent.Op)
	}

	s.Settle(id, err)

	return err
}
