// Package locales normalizes locale codes and resolves the locale a request
// should be served in.
package locales

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var (
	// ErrLocaleRequired is returned when a blank locale code is normalized.
	ErrLocaleRequired = errors.New("locales: locale code is required")
	// ErrLocaleInvalid is returned for codes that are not valid BCP 47 tags.
	ErrLocaleInvalid = errors.New("locales: invalid locale code")
)

// DefaultBase is the locale of canonical records.
const DefaultBase = "en"

// Normalize parses code as a BCP 47 tag and returns its lower-cased canonical
// form ("pt_BR" -> "pt-br").
func Normalize(code string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if trimmed == "" {
		return "", ErrLocaleRequired
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrLocaleInvalid, code)
	}
	return strings.ToLower(tag.String()), nil
}

// Registry holds the configured locales. It is immutable after construction.
type Registry struct {
	base           string
	supported      []string
	index          map[string]int
	matcher        language.Matcher
	parentFallback bool
}

// NewRegistry builds a registry. The base locale is always supported and
// placed first; duplicates are dropped.
func NewRegistry(base string, codes []string, parentFallback bool) (*Registry, error) {
	if strings.TrimSpace(base) == "" {
		base = DefaultBase
	}
	normalizedBase, err := Normalize(base)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		base:           normalizedBase,
		index:          map[string]int{},
		parentFallback: parentFallback,
	}
	tags := []language.Tag{}
	for _, code := range append([]string{normalizedBase}, codes...) {
		normalized, err := Normalize(code)
		if err != nil {
			return nil, err
		}
		if _, ok := r.index[normalized]; ok {
			continue
		}
		r.index[normalized] = len(r.supported)
		r.supported = append(r.supported, normalized)
		tags = append(tags, language.Make(normalized))
	}
	r.matcher = language.NewMatcher(tags)
	return r, nil
}

// MustRegistry is NewRegistry that panics on error, for tests and defaults.
func MustRegistry(base string, codes ...string) *Registry {
	r, err := NewRegistry(base, codes, true)
	if err != nil {
		panic(err)
	}
	return r
}

// Base returns the canonical record locale.
func (r *Registry) Base() string {
	return r.base
}

// Supported returns the configured locales, base first.
func (r *Registry) Supported() []string {
	out := make([]string, len(r.supported))
	copy(out, r.supported)
	return out
}

// IsBase reports whether code normalizes to the base locale. Invalid codes are
// never the base.
func (r *Registry) IsBase(code string) bool {
	normalized, err := Normalize(code)
	return err == nil && normalized == r.base
}

// IsSupported reports whether code normalizes to a configured locale.
func (r *Registry) IsSupported(code string) bool {
	normalized, err := Normalize(code)
	if err != nil {
		return false
	}
	_, ok := r.index[normalized]
	return ok
}

// Resolve returns the normalized supported locale for code, or the base locale
// and false when code is blank, invalid or not configured. A regional code
// whose language is configured ("es-mx" with "es") resolves to the language.
func (r *Registry) Resolve(code string) (string, bool) {
	normalized, err := Normalize(code)
	if err != nil {
		return r.base, false
	}
	if _, ok := r.index[normalized]; ok {
		return normalized, true
	}
	if parent := parentOf(normalized); parent != "" {
		if _, ok := r.index[parent]; ok {
			return parent, true
		}
	}
	return r.base, false
}

// Chain returns the configured locales whose overrides apply to code, most
// specific first. Codes resolve the way Resolve does: an unconfigured
// regional code falls back to its configured language, anything else that is
// not configured yields an empty chain. The base locale is never part of the
// chain; an empty chain means the canonical record is served unchanged.
func (r *Registry) Chain(code string) []string {
	normalized, err := Normalize(code)
	if err != nil || normalized == r.base {
		return nil
	}
	var chain []string
	if _, ok := r.index[normalized]; ok {
		chain = append(chain, normalized)
	}
	if parent := parentOf(normalized); parent != "" && parent != r.base && (r.parentFallback || len(chain) == 0) {
		if _, ok := r.index[parent]; ok {
			chain = append(chain, parent)
		}
	}
	return chain
}

// MatchAcceptLanguage picks the best supported locale for an Accept-Language
// header value, falling back to the base locale.
func (r *Registry) MatchAcceptLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return r.base
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return r.base
	}
	_, idx, confidence := r.matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(r.supported) {
		return r.base
	}
	return r.supported[idx]
}

func parentOf(normalized string) string {
	tag, err := language.Parse(normalized)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	parent := strings.ToLower(base.String())
	if parent == normalized {
		return ""
	}
	return parent
}
