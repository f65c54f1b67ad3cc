package catalog

import "github.com/goliatone/go-slug"

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}
