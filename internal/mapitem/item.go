// Package mapitem merges catalog locations and user comments into the single
// list of markers the map renders.
package mapitem

import (
	"github.com/UnknownOlympus/kamakura/internal/catalog"
	"github.com/UnknownOlympus/kamakura/internal/models"
)

// Kind tells which source an Item came from.
type Kind int

const (
	KindLocation Kind = iota + 1
	KindComment
)

// Item is one marker on the map: either a catalog location or a comment.
// The zero Item wraps nothing; its Kind is 0 and its accessors return zero
// values.
type Item struct {
	location *models.Location
	comment  *models.Comment
}

// FromLocation wraps a catalog location.
func FromLocation(loc models.Location) Item {
	return Item{location: &loc}
}

// FromComment wraps a comment.
func FromComment(c models.Comment) Item {
	return Item{comment: &c}
}

// Kind returns the source of the item.
func (i Item) Kind() Kind {
	switch {
	case i.comment != nil:
		return KindComment
	case i.location != nil:
		return KindLocation
	default:
		return 0
	}
}

// Location returns the wrapped location and whether the item is one.
func (i Item) Location() (models.Location, bool) {
	if i.location == nil {
		return models.Location{}, false
	}

	return *i.location, true
}

// Comment returns the wrapped comment and whether the item is one.
func (i Item) Comment() (models.Comment, bool) {
	if i.comment == nil {
		return models.Comment{}, false
	}

	return *i.comment, true
}

// ID is unique across both sources: "location-<name><city>" or "comment-<uuid>".
func (i Item) ID() string {
	switch {
	case i.comment != nil:
		return "comment-" + i.comment.ID.String()
	case i.location != nil:
		return "location-" + i.location.ID()
	default:
		return ""
	}
}

func (i Item) Coordinates() models.Coordinates {
	switch {
	case i.comment != nil:
		return i.comment.Coordinates
	case i.location != nil:
		return i.location.Coordinates
	default:
		return models.Coordinates{}
	}
}

// Title is the location name in the given language, or the comment text.
func (i Item) Title(languageTag string) string {
	switch {
	case i.comment != nil:
		return i.comment.Text
	case i.location != nil:
		return catalog.Localize(i.location.Name, languageTag)
	default:
		return ""
	}
}

// Subtitle is the location description in the given language, or the
// comment's author.
func (i Item) Subtitle(languageTag string) string {
	switch {
	case i.comment != nil:
		return i.comment.UserName
	case i.location != nil:
		return catalog.Localize(i.location.Description, languageTag)
	default:
		return ""
	}
}

// Unify lists every location in catalog order followed by every comment in
// store order. It never deduplicates.
func Unify(locations []models.Location, comments []models.Comment) []Item {
	items := make([]Item, 0, len(locations)+len(comments))
	for _, loc := range locations {
		items = append(items, FromLocation(loc))
	}
	for _, c := range comments {
		items = append(items, FromComment(c))
	}

	return items
}
