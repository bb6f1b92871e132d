package models

// Category is the kind of a point of interest.
type Category string

const (
	CategoryTemple Category = "temple"
	CategoryShrine Category = "shrine"
	CategoryBuddha Category = "buddha"
)

// PinImage returns the asset name of the map pin for the category.
func (c Category) PinImage() string {
	return string(c) + "-pin"
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTemple, CategoryShrine, CategoryBuddha:
		return true
	default:
		return false
	}
}

// LocalizedString holds the Japanese and English variants of a text.
type LocalizedString struct {
	Japanese string `yaml:"ja"`
	English  string `yaml:"en"`
}

// Location is a point of interest from the bundled catalog.
type Location struct {
	Name        LocalizedString `yaml:"name"`
	City        LocalizedString `yaml:"city"`
	Coordinates Coordinates     `yaml:"coordinates"`
	Description LocalizedString `yaml:"description"`
	Images      []string        `yaml:"images"`
	Link        LocalizedString `yaml:"link"`
	Category    Category        `yaml:"category"`
}

// ID identifies the location by its Japanese name and city.
func (l Location) ID() string {
	return l.Name.Japanese + l.City.Japanese
}
