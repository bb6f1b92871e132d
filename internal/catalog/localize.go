package catalog

import (
	"strings"

	"github.com/UnknownOlympus/kamakura/internal/models"
)

// LanguageSource reports the user's preferred language tag, e.g. "en-US" or "ja".
type LanguageSource interface {
	CurrentLanguageTag() string
}

// StaticLanguage is a LanguageSource that always returns the same tag.
type StaticLanguage string

// CurrentLanguageTag implements LanguageSource.
func (s StaticLanguage) CurrentLanguageTag() string {
	return string(s)
}

// Localize picks the English variant for English language tags and the
// Japanese one for everything else, including unknown or empty tags.
func Localize(s models.LocalizedString, tag string) string {
	primary, _, _ := strings.Cut(strings.ToLower(tag), "-")
	primary, _, _ = strings.Cut(primary, "_")
	if primary == "en" {
		return s.English
	}

	return s.Japanese
}
