package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrRecordRequired = errors.New("catalog: record is required")
	ErrSlugRequired   = errors.New("catalog: slug is required")
	ErrSlugInvalid    = errors.New("catalog: slug must contain lowercase letters, numbers or hyphens")
	ErrSlugExists     = errors.New("catalog: slug already exists")
)

// NotFoundError reports a missing catalog record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ListOptions filters and paginates List calls. Filters that do not apply to a
// record type (BrandID on guides) are ignored.
type ListOptions struct {
	Statuses []domain.Status
	BrandID  *uuid.UUID
	AuthorID *uuid.UUID
	IDs      []uuid.UUID
	Limit    int
	Offset   int
}

// PublishedOnly returns opts restricted to publicly visible records.
func (opts ListOptions) PublishedOnly() ListOptions {
	opts.Statuses = []domain.Status{domain.StatusPublished}
	return opts
}

// Repository persists one catalog record type.
type Repository[T Record] interface {
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	GetBySlug(ctx context.Context, slug string) (T, error)
	// List returns the page selected by opts and the total number of matches.
	List(ctx context.Context, opts ListOptions) ([]T, int, error)
}

// Repositories bundles the catalog repositories.
type Repositories struct {
	Rackets Repository[*Racket]
	Guides  Repository[*Guide]
	Posts   Repository[*BlogPost]
	Brands  Repository[*Brand]
	Authors Repository[*Author]
}

type descriptor[T Record] struct {
	resource  string
	newRecord func() T
	clone     func(T) T
	orderExpr string
	less      func(a, b T) bool
}

var (
	racketDescriptor = descriptor[*Racket]{
		resource:  "racket",
		newRecord: func() *Racket { return &Racket{} },
		clone:     (*Racket).clone,
		orderExpr: "?TableAlias.name ASC, ?TableAlias.slug ASC",
		less:      func(a, b *Racket) bool { return byName(a.Name, a.Slug, b.Name, b.Slug) },
	}
	guideDescriptor = descriptor[*Guide]{
		resource:  "guide",
		newRecord: func() *Guide { return &Guide{} },
		clone:     (*Guide).clone,
		orderExpr: "COALESCE(?TableAlias.published_at, ?TableAlias.created_at) DESC, ?TableAlias.slug ASC",
		less: func(a, b *Guide) bool {
			return byRecency(effectiveDate(a.PublishedAt, a.CreatedAt), a.Slug, effectiveDate(b.PublishedAt, b.CreatedAt), b.Slug)
		},
	}
	postDescriptor = descriptor[*BlogPost]{
		resource:  "blog_post",
		newRecord: func() *BlogPost { return &BlogPost{} },
		clone:     (*BlogPost).clone,
		orderExpr: "COALESCE(?TableAlias.published_at, ?TableAlias.created_at) DESC, ?TableAlias.slug ASC",
		less: func(a, b *BlogPost) bool {
			return byRecency(effectiveDate(a.PublishedAt, a.CreatedAt), a.Slug, effectiveDate(b.PublishedAt, b.CreatedAt), b.Slug)
		},
	}
	brandDescriptor = descriptor[*Brand]{
		resource:  "brand",
		newRecord: func() *Brand { return &Brand{} },
		clone:     (*Brand).clone,
		orderExpr: "?TableAlias.name ASC, ?TableAlias.slug ASC",
		less:      func(a, b *Brand) bool { return byName(a.Name, a.Slug, b.Name, b.Slug) },
	}
	authorDescriptor = descriptor[*Author]{
		resource:  "author",
		newRecord: func() *Author { return &Author{} },
		clone:     (*Author).clone,
		orderExpr: "?TableAlias.name ASC, ?TableAlias.slug ASC",
		less:      func(a, b *Author) bool { return byName(a.Name, a.Slug, b.Name, b.Slug) },
	}
)

// matches applies opts filters to a single record; used by the memory
// repository and kept aligned with the bun query filters.
func matches[T Record](record T, opts ListOptions) bool {
	if len(opts.IDs) > 0 && !slices.Contains(opts.IDs, record.GetID()) {
		return false
	}
	if len(opts.Statuses) > 0 {
		if scoped, ok := any(record).(statusScoped); ok && !slices.Contains(opts.Statuses, scoped.GetStatus()) {
			return false
		}
	}
	if opts.BrandID != nil {
		if scoped, ok := any(record).(brandScoped); ok && scoped.GetBrandID() != *opts.BrandID {
			return false
		}
	}
	if opts.AuthorID != nil {
		if scoped, ok := any(record).(authorScoped); ok {
			author := scoped.GetAuthorID()
			if author == nil || *author != *opts.AuthorID {
				return false
			}
		}
	}
	return true
}
