package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Placeholder identity used for every comment; there is no account system.
const (
	DefaultUserID   = "user"
	DefaultUserName = "ユーザー"
)

// ErrIncompleteComment is returned when a persisted comment lacks a field.
var ErrIncompleteComment = errors.New("incomplete comment record")

// referenceDate is the epoch of numeric timestamps (seconds since 2001-01-01 UTC).
var referenceDate = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// Comment is a geolocated note left by the user on the map.
// Two comments are the same comment when their IDs match.
type Comment struct {
	ID          uuid.UUID   // ID is generated once at creation.
	Text        string      // Text is the body of the note.
	Coordinates Coordinates // Coordinates is where the note was dropped.
	Timestamp   time.Time   // Timestamp is the creation time.
	UserID      string      // UserID of the author.
	UserName    string      // UserName is the display name of the author.
}

// NewComment creates a comment with a fresh ID, the given creation time and
// the placeholder author.
func NewComment(text string, coords Coordinates, now time.Time) Comment {
	return Comment{
		ID:          uuid.New(),
		Text:        text,
		Coordinates: coords,
		Timestamp:   now,
		UserID:      DefaultUserID,
		UserName:    DefaultUserName,
	}
}

// Equal reports whether both values identify the same comment.
func (c Comment) Equal(other Comment) bool {
	return c.ID == other.ID
}

// commentRecord is the persisted shape of a comment.
type commentRecord struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
}

// MarshalJSON flattens the coordinates into latitude/longitude fields.
func (c Comment) MarshalJSON() ([]byte, error) {
	return json.Marshal(commentRecord{
		ID:        c.ID,
		Text:      c.Text,
		Latitude:  c.Coordinates.Latitude,
		Longitude: c.Coordinates.Longitude,
		Timestamp: c.Timestamp,
		UserID:    c.UserID,
		UserName:  c.UserName,
	})
}

// commentInput is the decoding side of commentRecord. Every key is required.
type commentInput struct {
	ID        *uuid.UUID      `json:"id"`
	Text      *string         `json:"text"`
	Latitude  *float64        `json:"latitude"`
	Longitude *float64        `json:"longitude"`
	Timestamp json.RawMessage `json:"timestamp"`
	UserID    *string         `json:"userId"`
	UserName  *string         `json:"userName"`
}

// UnmarshalJSON is the inverse of MarshalJSON. It also accepts a timestamp
// written as seconds since 2001-01-01, the layout of older blobs.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var in commentInput
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch {
	case in.ID == nil || *in.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrIncompleteComment)
	case in.Text == nil:
		return fmt.Errorf("%w: missing text", ErrIncompleteComment)
	case in.Latitude == nil || in.Longitude == nil:
		return fmt.Errorf("%w: missing coordinates", ErrIncompleteComment)
	case in.UserID == nil || in.UserName == nil:
		return fmt.Errorf("%w: missing author", ErrIncompleteComment)
	}

	ts, err := decodeTimestamp(in.Timestamp)
	if err != nil {
		return err
	}

	*c = Comment{
		ID:          *in.ID,
		Text:        *in.Text,
		Coordinates: Coordinates{Latitude: *in.Latitude, Longitude: *in.Longitude},
		Timestamp:   ts,
		UserID:      *in.UserID,
		UserName:    *in.UserName,
	}

	return nil
}

func decodeTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, fmt.Errorf("%w: missing timestamp", ErrIncompleteComment)
	}

	var ts time.Time
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &ts); err != nil {
			return time.Time{}, err
		}
	} else {
		seconds, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %s: %w", raw, err)
		}
		whole, frac := math.Modf(seconds)
		ts = referenceDate.Add(time.Duration(whole)*time.Second + time.Duration(math.Round(frac*float64(time.Second))))
	}

	if ts.IsZero() {
		return time.Time{}, fmt.Errorf("%w: missing timestamp", ErrIncompleteComment)
	}

	return ts, nil
}
