package comments

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Op names a persisted mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"

	// opResync rewrites the collection after a reverted intent.
	opResync Op = "resync"
)

// Common errors of the comment store.
var (
	ErrEncode             = errors.New("failed to encode comments")
	ErrUnsupportedVersion = errors.New("unsupported comments schema version")
	ErrStoreClosed        = errors.New("comment store is not running")
)

// PersistError is returned when the collection could not be written for an
// add or remove. The in-memory state is left as it was; compensating is up
// to the caller (Settle does it).
type PersistError struct {
	Op        Op
	CommentID uuid.UUID
	Err       error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist %s of comment %s: %v", e.Op, e.CommentID, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// LoadError records why the persisted collection could not be restored.
type LoadError struct {
	Key         string
	Quarantined bool // the unreadable blob was copied aside before the reset
	Err         error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load comments from %s: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// userMessage is the text shown to the user when a mutation is rolled back.
func userMessage(op Op, err error) string {
	if op == OpRemove {
		return "コメントの削除に失敗しました: " + err.Error()
	}

	return "コメントの保存に失敗しました: " + err.Error()
}
