package catalog

import (
	"context"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/google/uuid"
)

// Lookup loads one record of any entity type.
func (c *Catalog) Lookup(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (domain.Translatable, error) {
	switch entityType {
	case domain.EntityRacket:
		return asTranslatable(c.Rackets.GetByID(ctx, id))
	case domain.EntityGuide:
		return asTranslatable(c.Guides.GetByID(ctx, id))
	case domain.EntityBlogPost:
		return asTranslatable(c.Posts.GetByID(ctx, id))
	case domain.EntityBrand:
		return asTranslatable(c.Brands.GetByID(ctx, id))
	case domain.EntityAuthor:
		return asTranslatable(c.Authors.GetByID(ctx, id))
	default:
		return nil, domain.ErrEntityTypeInvalid
	}
}

// ListTranslatable lists records of entityType as Translatable values.
func (c *Catalog) ListTranslatable(ctx context.Context, entityType domain.EntityType, opts ListOptions) ([]domain.Translatable, error) {
	switch entityType {
	case domain.EntityRacket:
		return listAs(ctx, c.Rackets, opts)
	case domain.EntityGuide:
		return listAs(ctx, c.Guides, opts)
	case domain.EntityBlogPost:
		return listAs(ctx, c.Posts, opts)
	case domain.EntityBrand:
		return listAs(ctx, c.Brands, opts)
	case domain.EntityAuthor:
		return listAs(ctx, c.Authors, opts)
	default:
		return nil, domain.ErrEntityTypeInvalid
	}
}

func listAs[T Record](ctx context.Context, store *Store[T], opts ListOptions) ([]domain.Translatable, error) {
	records, _, err := store.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Translatable, 0, len(records))
	for _, record := range records {
		out = append(out, record)
	}
	return out, nil
}

func asTranslatable[T Record](record T, err error) (domain.Translatable, error) {
	if err != nil {
		return nil, err
	}
	return record, nil
}
