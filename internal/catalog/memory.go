package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository for tests and scaffolding.
type MemoryRepository[T Record] struct {
	mu        sync.RWMutex
	desc      descriptor[T]
	records   map[uuid.UUID]T
	slugIndex map[string]uuid.UUID
}

// NewMemoryRepositories builds empty in-memory repositories.
func NewMemoryRepositories() Repositories {
	return Repositories{
		Rackets: newMemoryRepository(racketDescriptor),
		Guides:  newMemoryRepository(guideDescriptor),
		Posts:   newMemoryRepository(postDescriptor),
		Brands:  newMemoryRepository(brandDescriptor),
		Authors: newMemoryRepository(authorDescriptor),
	}
}

func newMemoryRepository[T Record](desc descriptor[T]) *MemoryRepository[T] {
	return &MemoryRepository[T]{
		desc:      desc,
		records:   make(map[uuid.UUID]T),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository[T]) Create(_ context.Context, record T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if _, exists := m.slugIndex[record.GetSlug()]; exists {
		return zero, ErrSlugExists
	}
	copied := m.desc.clone(record)
	if copied.GetID() == uuid.Nil {
		copied.SetID(uuid.New())
	}
	m.records[copied.GetID()] = copied
	m.slugIndex[copied.GetSlug()] = copied.GetID()
	return m.desc.clone(copied), nil
}

func (m *MemoryRepository[T]) Update(_ context.Context, record T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	id := record.GetID()
	existing, ok := m.records[id]
	if !ok {
		return zero, &NotFoundError{Resource: m.desc.resource, Key: id.String()}
	}
	if owner, taken := m.slugIndex[record.GetSlug()]; taken && owner != id {
		return zero, ErrSlugExists
	}
	delete(m.slugIndex, existing.GetSlug())
	copied := m.desc.clone(record)
	m.records[id] = copied
	m.slugIndex[copied.GetSlug()] = id
	return m.desc.clone(copied), nil
}

func (m *MemoryRepository[T]) GetByID(_ context.Context, id uuid.UUID) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{Resource: m.desc.resource, Key: id.String()}
	}
	return m.desc.clone(record), nil
}

func (m *MemoryRepository[T]) GetBySlug(_ context.Context, slug string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		var zero T
		return zero, &NotFoundError{Resource: m.desc.resource, Key: slug}
	}
	return m.desc.clone(m.records[id]), nil
}

func (m *MemoryRepository[T]) List(_ context.Context, opts ListOptions) ([]T, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]T, 0, len(m.records))
	for _, record := range m.records {
		if matches(record, opts) {
			matched = append(matched, record)
		}
	}
	slices.SortFunc(matched, func(a, b T) int {
		switch {
		case m.desc.less(a, b):
			return -1
		case m.desc.less(b, a):
			return 1
		default:
			return 0
		}
	})

	total := len(matched)
	start := min(max(opts.Offset, 0), total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}

	out := make([]T, 0, end-start)
	for _, record := range matched[start:end] {
		out = append(out, m.desc.clone(record))
	}
	return out, total, nil
}
