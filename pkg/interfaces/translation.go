package interfaces

// TranslationMeta describes how the locale of a localized record was resolved.
type TranslationMeta struct {
	RequestedLocale string `json:"requested_locale"`
	ResolvedLocale  string `json:"resolved_locale"`
	BaseLocale      string `json:"base_locale"`
	// OverriddenFields lists the canonical fields replaced by a locale override.
	OverriddenFields []string `json:"overridden_fields,omitempty"`
	FallbackUsed     bool     `json:"fallback_used"`
}

// Localized wraps a record together with its locale resolution metadata.
type Localized[T any] struct {
	Meta TranslationMeta `json:"meta"`
	Data T               `json:"data"`
}
