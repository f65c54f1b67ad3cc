package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/pkg/interfaces"
	"github.com/google/uuid"
)

// IDGenerator produces identifiers for new records.
type IDGenerator func() uuid.UUID

type serviceConfig struct {
	now    func() time.Time
	id     IDGenerator
	logger interfaces.Logger
}

// ServiceOption configures the catalog at construction time.
type ServiceOption func(*serviceConfig)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(cfg *serviceConfig) {
		if clock != nil {
			cfg.now = clock
		}
	}
}

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(cfg *serviceConfig) {
		if generator != nil {
			cfg.id = generator
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(cfg *serviceConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Catalog groups the per-entity stores.
type Catalog struct {
	Rackets *Store[*Racket]
	Guides  *Store[*Guide]
	Posts   *Store[*BlogPost]
	Brands  *Store[*Brand]
	Authors *Store[*Author]
}

// New wires a Catalog over repos. Rackets must reference an existing brand and
// guides or posts with an author must reference an existing author.
func New(repos Repositories, opts ...ServiceOption) *Catalog {
	cfg := serviceConfig{
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Catalog{
		Brands:  newStore(repos.Brands, "brand", cfg),
		Authors: newStore(repos.Authors, "author", cfg),
	}
	c.Rackets = newStore(repos.Rackets, "racket", cfg, func(ctx context.Context, r *Racket) error {
		if _, err := repos.Brands.GetByID(ctx, r.BrandID); err != nil {
			return fmt.Errorf("catalog: racket brand: %w", err)
		}
		return nil
	})
	c.Guides = newStore(repos.Guides, "guide", cfg, func(ctx context.Context, g *Guide) error {
		return requireAuthor(ctx, repos.Authors, g.AuthorID)
	})
	c.Posts = newStore(repos.Posts, "blog_post", cfg, func(ctx context.Context, p *BlogPost) error {
		return requireAuthor(ctx, repos.Authors, p.AuthorID)
	})
	return c
}

func requireAuthor(ctx context.Context, authors Repository[*Author], id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := authors.GetByID(ctx, *id); err != nil {
		return fmt.Errorf("catalog: author: %w", err)
	}
	return nil
}

// Store exposes the use-cases for one record type.
type Store[T Record] struct {
	repo     Repository[T]
	resource string
	now      func() time.Time
	id       IDGenerator
	logger   interfaces.Logger
	checks   []func(context.Context, T) error
}

func newStore[T Record](repo Repository[T], resource string, cfg serviceConfig, checks ...func(context.Context, T) error) *Store[T] {
	return &Store[T]{
		repo:     repo,
		resource: resource,
		now:      cfg.now,
		id:       cfg.id,
		logger:   cfg.logger,
		checks:   checks,
	}
}

// Create validates and persists a new record. A blank slug is derived from the
// record's name or title.
func (s *Store[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	if err := s.prepare(ctx, record); err != nil {
		return zero, err
	}
	if err := s.ensureSlugAvailable(ctx, record.GetSlug(), uuid.Nil); err != nil {
		return zero, err
	}

	if record.GetID() == uuid.Nil {
		record.SetID(s.id())
	}
	record.Stamp(s.now())

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return zero, err
	}
	s.logger.Debug("catalog record created", "resource", s.resource, "id", created.GetID().String(), "slug", created.GetSlug())
	return created, nil
}

// Update persists changes to an existing record.
func (s *Store[T]) Update(ctx context.Context, record T) (T, error) {
	var zero T
	if isNil(record) {
		return zero, ErrRecordRequired
	}
	if _, err := s.repo.GetByID(ctx, record.GetID()); err != nil {
		return zero, err
	}
	if err := s.prepare(ctx, record); err != nil {
		return zero, err
	}
	if err := s.ensureSlugAvailable(ctx, record.GetSlug(), record.GetID()); err != nil {
		return zero, err
	}
	record.Stamp(s.now())

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return zero, err
	}
	s.logger.Debug("catalog record updated", "resource", s.resource, "id", updated.GetID().String())
	return updated, nil
}

func (s *Store[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Store[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

// List returns the records matching opts plus the total match count.
func (s *Store[T]) List(ctx context.Context, opts ListOptions) ([]T, int, error) {
	return s.repo.List(ctx, opts)
}

// Resource names the record type for logs and errors.
func (s *Store[T]) Resource() string {
	return s.resource
}

func (s *Store[T]) prepare(ctx context.Context, record T) error {
	if isNil(record) {
		return ErrRecordRequired
	}

	slugValue := strings.TrimSpace(record.GetSlug())
	if slugValue == "" {
		derived, err := NormalizeSlug(record.SlugSource())
		if err != nil || derived == "" {
			return ErrSlugRequired
		}
		slugValue = derived
	}
	if !IsValidSlug(slugValue) {
		return ErrSlugInvalid
	}
	record.SetSlug(slugValue)

	if scoped, ok := any(record).(statusScoped); ok {
		status, err := domain.ParseStatus(string(scoped.GetStatus()))
		if err != nil {
			return err
		}
		scoped.SetStatus(status)
	}

	if err := record.Validate(); err != nil {
		return fmt.Errorf("catalog: invalid %s: %w", s.resource, err)
	}
	for _, check := range s.checks {
		if err := check(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store[T]) ensureSlugAvailable(ctx context.Context, slugValue string, self uuid.UUID) error {
	existing, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.GetID() != self {
		return ErrSlugExists
	}
	return nil
}

func isNil[T Record](record T) bool {
	var zero T
	return any(record) == any(zero)
}

// PublicStatus reports whether record is visible to anonymous readers.
func PublicStatus(record Record) bool {
	scoped, ok := record.(statusScoped)
	return !ok || scoped.GetStatus().IsPublic()
}
