package comments

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/UnknownOlympus/kamakura/internal/models"
)

// SchemaVersion is the version written into every persisted collection.
// Version 0 is the legacy layout: a bare JSON array of comments.
const SchemaVersion = 1

type envelope struct {
	Version  int              `json:"version"`
	Comments []models.Comment `json:"comments"`
}

// Encode serializes the collection in the current schema.
func Encode(list []models.Comment) ([]byte, error) {
	if list == nil {
		list = []models.Comment{}
	}

	data, err := json.Marshal(envelope{Version: SchemaVersion, Comments: list})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return data, nil
}

// Decode parses a persisted collection in either the current or the legacy layout.
func Decode(data []byte) ([]models.Comment, error) {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var legacy []models.Comment
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, fmt.Errorf("failed to decode legacy comments: %w", err)
		}
		return legacy, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	if env.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}

	return env.Comments, nil
}
