package catalog

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository on go-repository-bun with optional
// caching of point reads.
type BunRepository[T Record] struct {
	desc         descriptor[T]
	repo         repository.Repository[T]
	base         repository.Repository[T]
	cacheService cache.CacheService
	cachePrefix  string

	hasStatus bool
	hasBrand  bool
	hasAuthor bool
}

// NewBunRepositories builds every catalog repository. Caching is enabled when
// both cacheService and serializer are supplied.
func NewBunRepositories(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) Repositories {
	return Repositories{
		Rackets: newBunRepository(db, racketDescriptor, cacheService, serializer),
		Guides:  newBunRepository(db, guideDescriptor, cacheService, serializer),
		Posts:   newBunRepository(db, postDescriptor, cacheService, serializer),
		Brands:  newBunRepository(db, brandDescriptor, cacheService, serializer),
		Authors: newBunRepository(db, authorDescriptor, cacheService, serializer),
	}
}

func newBunRepository[T Record](db *bun.DB, desc descriptor[T], cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository[T] {
	base := repository.MustNewRepository(db, repository.ModelHandlers[T]{
		NewRecord: desc.newRecord,
		GetID: func(record T) uuid.UUID {
			return record.GetID()
		},
		SetID: func(record T, id uuid.UUID) {
			record.SetID(id)
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(record T) string {
			return record.GetSlug()
		},
	})

	probe := any(desc.newRecord())
	_, hasStatus := probe.(statusScoped)
	_, hasBrand := probe.(brandScoped)
	_, hasAuthor := probe.(authorScoped)

	out := &BunRepository[T]{
		desc:      desc,
		repo:      base,
		base:      base,
		hasStatus: hasStatus,
		hasBrand:  hasBrand,
		hasAuthor: hasAuthor,
	}
	if cacheService != nil && serializer != nil {
		out.repo = repositorycache.New(base, cacheService, serializer)
		out.cacheService = cacheService
		out.cachePrefix = desc.resource + cache.KeySeparator
	}
	return out
}

func (r *BunRepository[T]) Create(ctx context.Context, record T) (T, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s repository error: %w", r.desc.resource, err)
	}
	return created, r.invalidate(ctx)
}

func (r *BunRepository[T]) Update(ctx context.Context, record T) (T, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		var zero T
		return zero, mapRepositoryError(err, r.desc.resource, record.GetID().String())
	}
	return updated, r.invalidate(ctx)
}

func (r *BunRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		var zero T
		return zero, mapRepositoryError(err, r.desc.resource, id.String())
	}
	return r.detach(record), nil
}

func (r *BunRepository[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		var zero T
		return zero, mapRepositoryError(err, r.desc.resource, slug)
	}
	return r.detach(record), nil
}

// detach copies records served from the cache so callers applying locale
// overrides never mutate the cached value.
func (r *BunRepository[T]) detach(record T) T {
	if r.cacheService == nil || isNil(record) {
		return record
	}
	return r.desc.clone(record)
}

// List always reads through the uncached repository; filtered list results are
// not cache safe.
func (r *BunRepository[T]) List(ctx context.Context, opts ListOptions) ([]T, int, error) {
	filter := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return r.applyFilters(q, opts).OrderExpr(r.desc.orderExpr)
	})

	var (
		records []T
		total   int
		err     error
	)
	if opts.Limit > 0 {
		records, total, err = r.base.List(ctx, filter, repository.SelectPaginate(opts.Limit, max(opts.Offset, 0)))
	} else {
		records, total, err = r.base.List(ctx, filter)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", r.desc.resource, err)
	}
	return records, total, nil
}

func (r *BunRepository[T]) applyFilters(q *bun.SelectQuery, opts ListOptions) *bun.SelectQuery {
	if len(opts.IDs) > 0 {
		q = q.Where("?TableAlias.id IN (?)", bun.In(opts.IDs))
	}
	if r.hasStatus && len(opts.Statuses) > 0 {
		q = q.Where("?TableAlias.status IN (?)", bun.In(opts.Statuses))
	}
	if r.hasBrand && opts.BrandID != nil {
		q = q.Where("?TableAlias.brand_id = ?", *opts.BrandID)
	}
	if r.hasAuthor && opts.AuthorID != nil {
		q = q.Where("?TableAlias.author_id = ?", *opts.AuthorID)
	}
	return q
}

// InvalidateCache drops cached point reads for this record type.
func (r *BunRepository[T]) InvalidateCache(ctx context.Context) error {
	return r.invalidate(ctx)
}

func (r *BunRepository[T]) invalidate(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
