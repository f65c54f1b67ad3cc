package translations

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/identity"
	"github.com/google/uuid"
)

type rowKey struct {
	entityType domain.EntityType
	entityID   uuid.UUID
	locale     string
}

// MemoryRepository is an in-memory Repository for tests and scaffolding.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[rowKey]*ContentTranslation
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[rowKey]*ContentTranslation)}
}

func (m *MemoryRepository) Get(_ context.Context, entityType domain.EntityType, entityID uuid.UUID, locale string) (*ContentTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[rowKey{entityType, entityID, locale}]
	if !ok {
		return nil, &NotFoundError{EntityType: entityType, EntityID: entityID, Locale: locale}
	}
	return cloneTranslation(row), nil
}

func (m *MemoryRepository) ListForEntities(_ context.Context, entityType domain.EntityType, ids []uuid.UUID, locales []string) ([]*ContentTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*ContentTranslation
	for _, id := range ids {
		for _, locale := range locales {
			if row, ok := m.rows[rowKey{entityType, id, locale}]; ok {
				out = append(out, cloneTranslation(row))
			}
		}
	}
	return out, nil
}

func (m *MemoryRepository) ListForEntity(_ context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]*ContentTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*ContentTranslation
	for key, row := range m.rows {
		if key.entityType == entityType && key.entityID == entityID {
			out = append(out, cloneTranslation(row))
		}
	}
	slices.SortFunc(out, func(a, b *ContentTranslation) int {
		return strings.Compare(a.Locale, b.Locale)
	})
	return out, nil
}

func (m *MemoryRepository) ListLocales(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]string, error) {
	rows, err := m.ListForEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	locales := make([]string, 0, len(rows))
	for _, row := range rows {
		locales = append(locales, row.Locale)
	}
	return locales, nil
}

func (m *MemoryRepository) Upsert(_ context.Context, row *ContentTranslation) (*ContentTranslation, error) {
	if row == nil {
		return nil, ErrTranslationMissing
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := rowKey{row.EntityType, row.EntityID, row.Locale}
	record := cloneTranslation(row)
	if existing, ok := m.rows[key]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else if record.ID == uuid.Nil {
		record.ID = identity.TranslationUUID(string(record.EntityType), record.EntityID, record.Locale)
	}
	m.rows[key] = record
	return cloneTranslation(record), nil
}

func (m *MemoryRepository) Delete(_ context.Context, entityType domain.EntityType, entityID uuid.UUID, locale string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := rowKey{entityType, entityID, locale}
	if _, ok := m.rows[key]; !ok {
		return &NotFoundError{EntityType: entityType, EntityID: entityID, Locale: locale}
	}
	delete(m.rows, key)
	return nil
}

func (m *MemoryRepository) DeleteForEntity(_ context.Context, entityType domain.EntityType, entityID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key := range m.rows {
		if key.entityType == entityType && key.entityID == entityID {
			delete(m.rows, key)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryRepository) CountByLocale(_ context.Context, entityType domain.EntityType) ([]LocaleCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[string]int{}
	for key := range m.rows {
		if key.entityType == entityType {
			counts[key.locale]++
		}
	}
	out := make([]LocaleCount, 0, len(counts))
	for locale, count := range counts {
		out = append(out, LocaleCount{Locale: locale, Count: count})
	}
	slices.SortFunc(out, func(a, b LocaleCount) int {
		return strings.Compare(a.Locale, b.Locale)
	})
	return out, nil
}
