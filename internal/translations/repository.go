package translations

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrEntityIDRequired   = errors.New("translations: entity id is required")
	ErrBaseLocale         = errors.New("translations: overrides cannot target the base locale")
	ErrLocaleUnsupported  = errors.New("translations: locale is not supported")
	ErrManualOverride     = errors.New("translations: manual override exists; use force to replace it")
	ErrSourceInvalid      = errors.New("translations: source must be machine or manual")
	ErrTranslationMissing = errors.New("translations: translation row is required")
)

// NotFoundError reports a missing override row.
type NotFoundError struct {
	EntityType domain.EntityType
	EntityID   uuid.UUID
	Locale     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("translation %s/%s/%s not found", e.EntityType, e.EntityID, e.Locale)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Repository stores override rows. Locale arguments must already be
// normalized.
type Repository interface {
	Get(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, locale string) (*ContentTranslation, error)
	// ListForEntities returns the rows of ids in any of locales with one query.
	ListForEntities(ctx context.Context, entityType domain.EntityType, ids []uuid.UUID, locales []string) ([]*ContentTranslation, error)
	ListForEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]*ContentTranslation, error)
	ListLocales(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]string, error)
	// Upsert inserts row or replaces the fields and source of the existing row
	// for the same triple.
	Upsert(ctx context.Context, row *ContentTranslation) (*ContentTranslation, error)
	Delete(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, locale string) error
	DeleteForEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) (int, error)
	CountByLocale(ctx context.Context, entityType domain.EntityType) ([]LocaleCount, error)
}
