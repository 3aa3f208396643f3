package textutil

import "strings"

// Slugify converts a display name into a stable lowercase slug suitable for
// identity columns: normalized text with spaces replaced by single dashes.
// Returns the empty string when the input carries no slug-worthy characters.
func Slugify(name string) string {
	normalized := Normalize(name)
	if normalized == "" {
		return ""
	}
	return strings.ReplaceAll(normalized, " ", "-")
}

// SlugifyWithCity appends a city qualifier to a slug when the city is known,
// keeping venues with identical names in different cities distinct.
func SlugifyWithCity(name, city string) string {
	slug := Slugify(name)
	if slug == "" {
		return ""
	}
	citySlug := Slugify(city)
	if citySlug == "" {
		return slug
	}
	return slug + "-" + citySlug
}
