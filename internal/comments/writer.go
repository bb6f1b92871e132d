package comments

import (
	"context"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/models"
)

type persistRequest struct {
	op      Op
	comment models.Comment
	done    chan error
}

// Run is the single writer of the slot. It serves persistence requests one
// write at a time until ctx is cancelled; requests that queue up while a write
// is in flight are served together by the next write. PersistAdd,
// PersistRemove and Commit block until Run picks their request up.
func (s *Store) Run(ctx context.Context) {
	s.log.InfoContext(ctx, "Comment writer started", "key", s.key, "storage", s.storageName)
	defer s.stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "Comment writer stopped.")
			return
		case req := <-s.requests:
			batch := []persistRequest{req}
		drain:
			for {
				select {
				case next := <-s.requests:
					batch = append(batch, next)
				default:
					break drain
				}
			}

			// A write that has started is never cancelled.
			s.writeBatch(context.WithoutCancel(ctx), batch)
		}
	}
}

func (s *Store) stop() {
	s.stopOnce.Do(func() {
		close(s.stopped)
	})

	for {
		select {
		case req := <-s.requests:
			req.done <- ErrStoreClosed
		default:
			return
		}
	}
}

func (s *Store) writeBatch(ctx context.Context, batch []persistRequest) {
	if len(batch) > 1 {
		s.metrics.CoalescedWrites.Add(float64(len(batch) - 1))
		s.log.DebugContext(ctx, "Coalescing persistence requests", "requests", len(batch))
	}

	err := s.write(ctx, s.snapshotFor(batch))
	for _, req := range batch {
		if err != nil {
			req.done <- &PersistError{Op: req.op, CommentID: req.comment.ID, Err: err}
			continue
		}
		req.done <- nil
	}
}

// snapshotFor copies the collection and appends every comment an add request
// asks for that is not in it.
func (s *Store) snapshotFor(batch []persistRequest) []models.Comment {
	snapshot := s.Comments()

	for _, req := range batch {
		if req.op != OpAdd {
			continue
		}
		present := false
		for _, c := range snapshot {
			if c.ID == req.comment.ID {
				present = true
				break
			}
		}
		if !present {
			snapshot = append(snapshot, req.comment)
		}
	}

	return snapshot
}

func (s *Store) write(ctx context.Context, snapshot []models.Comment) error {
	data, err := Encode(snapshot)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to encode comments", "error", err)
		return err
	}

	start := time.Now()
	err = s.slot.Set(ctx, s.key, data)
	s.metrics.PersistSeconds.WithLabelValues(s.storageName).Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to write comments", "key", s.key, "count", len(snapshot), "error", err)
		return err
	}

	s.log.DebugContext(ctx, "Comments written", "key", s.key, "count", len(snapshot), "bytes", len(data))

	return nil
}

// PersistAdd writes the whole collection, including c even when it is not in
// the collection. It does not touch the in-memory state, whatever the outcome.
// Errors are *PersistError.
func (s *Store) PersistAdd(ctx context.Context, c models.Comment) error {
	return s.persist(ctx, OpAdd, c)
}

// PersistRemove writes the whole collection. Callers remove c from memory
// first (RemoveOptimistic); the in-memory state is not touched here.
// Errors are *PersistError.
func (s *Store) PersistRemove(ctx context.Context, c models.Comment) error {
	return s.persist(ctx, OpRemove, c)
}

// resync queues a write of the current collection and does not wait for it.
// A request already waiting in the queue writes a later snapshot, so a full
// queue needs nothing more.
func (s *Store) resync(c models.Comment) {
	req := persistRequest{op: opResync, comment: c, done: make(chan error, 1)}

	select {
	case s.requests <- req:
	case <-s.stopped:
		s.log.Warn("Comment writer stopped, saved comments may be out of date", "comment", c.ID)
	default:
	}
}

func (s *Store) persist(ctx context.Context, op Op, c models.Comment) error {
	req := persistRequest{op: op, comment: c, done: make(chan error, 1)}

	select {
	case s.requests <- req:
	case <-s.stopped:
		return ErrStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-s.stopped:
		// Run may still have answered before it stopped.
		select {
		case err := <-req.done:
			return err
		default:
			return ErrStoreClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
