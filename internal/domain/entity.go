package domain

import (
	"errors"
	"strings"
)

// EntityType names a translatable catalog entity kind. The value is stored in
// the entity_type column of content_translations.
type EntityType string

const (
	EntityRacket   EntityType = "racket"
	EntityGuide    EntityType = "guide"
	EntityBlogPost EntityType = "blog_post"
	EntityBrand    EntityType = "brand"
	EntityAuthor   EntityType = "author"
)

// ErrEntityTypeInvalid is returned by ParseEntityType for unknown values.
var ErrEntityTypeInvalid = errors.New("domain: invalid entity type")

var entityAliases = map[string]EntityType{
	"racket":    EntityRacket,
	"rackets":   EntityRacket,
	"guide":     EntityGuide,
	"guides":    EntityGuide,
	"blog_post": EntityBlogPost,
	"blogpost":  EntityBlogPost,
	"blog":      EntityBlogPost,
	"post":      EntityBlogPost,
	"posts":     EntityBlogPost,
	"brand":     EntityBrand,
	"brands":    EntityBrand,
	"author":    EntityAuthor,
	"authors":   EntityAuthor,
}

// ParseEntityType resolves value (case-insensitive, plural and short aliases
// accepted) into an EntityType.
func ParseEntityType(value string) (EntityType, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.ReplaceAll(key, "-", "_")
	if entity, ok := entityAliases[key]; ok {
		return entity, nil
	}
	return "", ErrEntityTypeInvalid
}

// EntityTypes lists every translatable entity type.
func EntityTypes() []EntityType {
	return []EntityType{EntityRacket, EntityGuide, EntityBlogPost, EntityBrand, EntityAuthor}
}

// TranslatableFields returns the canonical field names that may be overridden
// per locale for entity.
func (e EntityType) TranslatableFields() []string {
	switch e {
	case EntityRacket:
		return []string{"name", "summary", "review_html", "pros", "cons"}
	case EntityGuide, EntityBlogPost:
		return []string{"title", "excerpt", "body_html"}
	case EntityBrand:
		return []string{"description"}
	case EntityAuthor:
		return []string{"bio"}
	default:
		return nil
	}
}

// IsHTMLField reports whether field holds HTML markup.
func IsHTMLField(field string) bool {
	return strings.HasSuffix(field, "_html")
}

func (e EntityType) String() string {
	return string(e)
}
