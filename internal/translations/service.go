package translations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/validation"
	"github.com/goliatone/go-padel/pkg/interfaces"
	"github.com/google/uuid"
)

// EntityLookup resolves canonical records so overrides are only stored for
// entities that exist.
type EntityLookup interface {
	Lookup(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (domain.Translatable, error)
}

// SaveRequest replaces the override fields of one (entity, locale) pair.
type SaveRequest struct {
	EntityType domain.EntityType
	EntityID   uuid.UUID
	Locale     string
	Fields     map[string]string
	Source     Source
	// Force allows machine output to replace a manual override.
	Force bool
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

func WithEntityLookup(lookup EntityLookup) ServiceOption {
	return func(s *Service) {
		s.lookup = lookup
	}
}

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service manages override rows: validation, locale rules and manual-row
// protection.
type Service struct {
	repo     Repository
	registry *locales.Registry
	lookup   EntityLookup
	now      func() time.Time
	logger   interfaces.Logger
}

func NewService(repo Repository, registry *locales.Registry, opts ...ServiceOption) *Service {
	if registry == nil {
		registry = locales.MustRegistry(locales.DefaultBase)
	}
	s := &Service{
		repo:     repo,
		registry: registry,
		now:      time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TargetLocale normalizes code and checks it can hold overrides: it must be
// configured and must not be the base locale.
func (s *Service) TargetLocale(code string) (string, error) {
	normalized, err := locales.Normalize(code)
	if err != nil {
		return "", err
	}
	if normalized == s.registry.Base() {
		return "", ErrBaseLocale
	}
	if !s.registry.IsSupported(normalized) {
		return "", fmt.Errorf("%w: %s", ErrLocaleUnsupported, normalized)
	}
	return normalized, nil
}

// Save validates and upserts an override row.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*ContentTranslation, error) {
	if req.EntityID == uuid.Nil {
		return nil, ErrEntityIDRequired
	}
	if len(req.EntityType.TranslatableFields()) == 0 {
		return nil, domain.ErrEntityTypeInvalid
	}
	if req.Source == "" {
		req.Source = SourceManual
	}
	if !req.Source.Valid() {
		return nil, ErrSourceInvalid
	}
	locale, err := s.TargetLocale(req.Locale)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateFields(req.EntityType, req.Fields); err != nil {
		return nil, err
	}
	if s.lookup != nil {
		if _, err := s.lookup.Lookup(ctx, req.EntityType, req.EntityID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	row := &ContentTranslation{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Locale:     locale,
		Fields:     req.Fields,
		Source:     req.Source,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	existing, err := s.repo.Get(ctx, req.EntityType, req.EntityID, locale)
	switch {
	case err == nil:
		if existing.Source == SourceManual && req.Source == SourceMachine && !req.Force {
			return nil, ErrManualOverride
		}
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	case !IsNotFound(err):
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, row)
	if err != nil {
		return nil, err
	}
	logging.WithEntity(s.logger, req.EntityType.String(), req.EntityID.String(), locale).
		Debug("translation override saved", "source", string(req.Source), "fields", len(req.Fields))
	return saved, nil
}

func (s *Service) Get(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, locale string) (*ContentTranslation, error) {
	normalized, err := locales.Normalize(locale)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, entityType, entityID, normalized)
}

// ListForEntity returns every override row of one record, ordered by locale.
func (s *Service) ListForEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]*ContentTranslation, error) {
	return s.repo.ListForEntity(ctx, entityType, entityID)
}

func (s *Service) ListLocales(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]string, error) {
	return s.repo.ListLocales(ctx, entityType, entityID)
}

func (s *Service) Delete(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, locale string) error {
	normalized, err := locales.Normalize(locale)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entityType, entityID, normalized); err != nil {
		return err
	}
	logging.WithEntity(s.logger, entityType.String(), entityID.String(), normalized).Debug("translation override deleted")
	return nil
}

// DeleteForEntity removes every override of one record and returns how many
// rows were deleted.
func (s *Service) DeleteForEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) (int, error) {
	return s.repo.DeleteForEntity(ctx, entityType, entityID)
}

// Stats returns the number of override rows per locale for entityType.
func (s *Service) Stats(ctx context.Context, entityType domain.EntityType) ([]LocaleCount, error) {
	return s.repo.CountByLocale(ctx, entityType)
}

// IsClientError reports whether err was caused by invalid input rather than
// storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrBaseLocale) ||
		errors.Is(err, ErrLocaleUnsupported) ||
		errors.Is(err, ErrSourceInvalid) ||
		errors.Is(err, ErrEntityIDRequired) ||
		errors.Is(err, locales.ErrLocaleInvalid) ||
		errors.Is(err, locales.ErrLocaleRequired) ||
		errors.Is(err, domain.ErrEntityTypeInvalid) ||
		errors.Is(err, validation.ErrSchemaValidation)
}
