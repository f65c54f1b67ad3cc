package domain

import "github.com/google/uuid"

// Translatable is implemented by every catalog record whose text fields can be
// overridden per locale.
type Translatable interface {
	TranslationKey() (EntityType, uuid.UUID)
	TranslatableFields() map[string]string
	ApplyTranslation(fields map[string]string)
}
