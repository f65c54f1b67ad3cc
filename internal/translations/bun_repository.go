package translations

import (
	"context"
	"fmt"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/identity"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository on bun.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*ContentTranslation]
}

var _ Repository = (*BunRepository)(nil)

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db: db,
		repo: repository.MustNewRepository(db, repository.ModelHandlers[*ContentTranslation]{
			NewRecord: func() *ContentTranslation { return &ContentTranslation{} },
			GetID: func(ct *ContentTranslation) uuid.UUID {
				return ct.ID
			},
			SetID: func(ct *ContentTranslation, id uuid.UUID) {
				ct.ID = id
			},
			GetIdentifier: func() string {
				return "id"
			},
			GetIdentifierValue: func(ct *ContentTranslation) string {
				if ct == nil {
					return ""
				}
				return ct.ID.String()
			},
		}),
	}
}

func (r *BunRepository) Get(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, locale string) (*ContentTranslation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.entity_type = ?", entityType).
				Where("?TableAlias.entity_id = ?", entityID).
				Where("?TableAlias.locale = ?", locale)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{EntityType: entityType, EntityID: entityID, Locale: locale}
	}
	return records[0], nil
}

func (r *BunRepository) ListForEntities(ctx context.Context, entityType domain.EntityType, ids []uuid.UUID, locales []string) ([]*ContentTranslation, error) {
	if len(ids) == 0 || len(locales) == 0 {
		return nil, nil
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.entity_type = ?", entityType).
				Where("?TableAlias.entity_id IN (?)", bun.In(ids)).
				Where("?TableAlias.locale IN (?)", bun.In(locales))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) ListForEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]*ContentTranslation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.entity_type = ?", entityType).
				Where("?TableAlias.entity_id = ?", entityID).
				OrderExpr("?TableAlias.locale ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) ListLocales(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]string, error) {
	var locales []string
	err := r.db.NewSelect().
		Model((*ContentTranslation)(nil)).
		Column("locale").
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Order("locale ASC").
		Scan(ctx, &locales)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	return locales, nil
}

func (r *BunRepository) Upsert(ctx context.Context, row *ContentTranslation) (*ContentTranslation, error) {
	if row == nil {
		return nil, ErrTranslationMissing
	}
	record := cloneTranslation(row)
	if record.ID == uuid.Nil {
		record.ID = identity.TranslationUUID(string(record.EntityType), record.EntityID, record.Locale)
	}

	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (entity_type, entity_id, locale) DO UPDATE").
		Set("fields = EXCLUDED.fields").
		Set("source = EXCLUDED.source").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("translation upsert: %w", err)
	}
	return r.Get(ctx, record.EntityType, record.EntityID, record.Locale)
}

func (r *BunRepository) Delete(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, locale string) error {
	res, err := r.db.NewDelete().
		Model((*ContentTranslation)(nil)).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Where("locale = ?", locale).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("translation delete: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{EntityType: entityType, EntityID: entityID, Locale: locale}
	}
	return nil
}

func (r *BunRepository) DeleteForEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) (int, error) {
	res, err := r.db.NewDelete().
		Model((*ContentTranslation)(nil)).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("translation delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

func (r *BunRepository) CountByLocale(ctx context.Context, entityType domain.EntityType) ([]LocaleCount, error) {
	var counts []LocaleCount
	err := r.db.NewSelect().
		Model((*ContentTranslation)(nil)).
		Column("locale").
		ColumnExpr("COUNT(*) AS count").
		Where("entity_type = ?", entityType).
		Group("locale").
		Order("locale ASC").
		Scan(ctx, &counts)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	return counts, nil
}
