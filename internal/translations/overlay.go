package translations

import (
	"context"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/metrics"
	"github.com/goliatone/go-padel/pkg/interfaces"
	"github.com/google/uuid"
)

// Overlay applies stored per-locale overrides on top of canonical records.
// Records are never modified in storage; the overlay only changes the copies
// handed to readers.
type Overlay struct {
	repo     Repository
	registry *locales.Registry
	logger   interfaces.Logger
}

// OverlayOption configures an Overlay.
type OverlayOption func(*Overlay)

func WithOverlayLogger(logger interfaces.Logger) OverlayOption {
	return func(o *Overlay) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOverlay builds an overlay reading from repo. A nil registry falls back to
// an English-only registry.
func NewOverlay(repo Repository, registry *locales.Registry, opts ...OverlayOption) *Overlay {
	if registry == nil {
		registry = locales.MustRegistry(locales.DefaultBase)
	}
	o := &Overlay{
		repo:     repo,
		registry: registry,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// BaseLocale returns the locale of canonical records.
func (o *Overlay) BaseLocale() string {
	return o.registry.Base()
}

// Fetch returns the override fields for one record in locale. The result is
// empty, and no query is issued, when locale is the base locale, invalid or
// not configured.
// With parent fallback, each key takes the most specific non-empty value.
func (o *Overlay) Fetch(ctx context.Context, entityType domain.EntityType, id uuid.UUID, locale string) (map[string]string, error) {
	fields, _, err := o.fetch(ctx, entityType, id, locale)
	return fields, err
}

func (o *Overlay) fetch(ctx context.Context, entityType domain.EntityType, id uuid.UUID, locale string) (map[string]string, map[string]string, error) {
	chain := o.registry.Chain(locale)
	if len(chain) == 0 || id == uuid.Nil {
		metrics.ObserveOverlay(entityType.String(), metrics.OverlayBase, 1)
		return map[string]string{}, map[string]string{}, nil
	}

	byLocale := make(map[string]map[string]string, len(chain))
	if len(chain) == 1 {
		row, err := o.repo.Get(ctx, entityType, id, chain[0])
		if err != nil && !IsNotFound(err) {
			return nil, nil, err
		}
		if row != nil {
			byLocale[row.Locale] = row.Fields
		}
	} else {
		rows, err := o.repo.ListForEntities(ctx, entityType, []uuid.UUID{id}, chain)
		if err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			byLocale[row.Locale] = row.Fields
		}
	}

	fields, sources := resolveChain(chain, byLocale)
	if len(fields) > 0 {
		metrics.ObserveOverlay(entityType.String(), metrics.OverlayHit, 1)
	} else {
		metrics.ObserveOverlay(entityType.String(), metrics.OverlayMiss, 1)
	}
	return fields, sources, nil
}

// BulkFetch returns override fields for many records of one type with a single
// query. Nil and duplicate ids are ignored; records without overrides are
// absent from the result.
func (o *Overlay) BulkFetch(ctx context.Context, entityType domain.EntityType, ids []uuid.UUID, locale string) (map[uuid.UUID]map[string]string, error) {
	out := map[uuid.UUID]map[string]string{}
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return out, nil
	}
	chain := o.registry.Chain(locale)
	if len(chain) == 0 {
		metrics.ObserveOverlay(entityType.String(), metrics.OverlayBase, len(unique))
		return out, nil
	}

	rows, err := o.repo.ListForEntities(ctx, entityType, unique, chain)
	if err != nil {
		return nil, err
	}

	grouped := map[uuid.UUID]map[string]map[string]string{}
	for _, row := range rows {
		if grouped[row.EntityID] == nil {
			grouped[row.EntityID] = map[string]map[string]string{}
		}
		grouped[row.EntityID][row.Locale] = row.Fields
	}
	for id, byLocale := range grouped {
		if fields, _ := resolveChain(chain, byLocale); len(fields) > 0 {
			out[id] = fields
		}
	}

	metrics.ObserveOverlay(entityType.String(), metrics.OverlayHit, len(out))
	metrics.ObserveOverlay(entityType.String(), metrics.OverlayMiss, len(unique)-len(out))
	o.logger.Trace("overlay bulk fetch", "entity_type", entityType.String(), "locale", locale, "requested", len(unique), "hits", len(out))
	return out, nil
}

// Merge returns a new map holding base with each override applied when the
// override value is non-blank. Keys absent from base are ignored. Neither
// input is modified.
func Merge(base, override map[string]string) map[string]string {
	out := maps.Clone(base)
	if out == nil {
		out = map[string]string{}
	}
	for key, value := range override {
		if _, ok := base[key]; !ok {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// Localize applies the overrides for locale to entity in place.
func (o *Overlay) Localize(ctx context.Context, entity domain.Translatable, locale string) error {
	_, err := o.LocalizeWithMeta(ctx, entity, locale)
	return err
}

// LocalizeWithMeta is Localize that also reports how the locale was resolved.
func (o *Overlay) LocalizeWithMeta(ctx context.Context, entity domain.Translatable, locale string) (interfaces.TranslationMeta, error) {
	meta := o.baseMeta(locale)
	if isNilTranslatable(entity) {
		return meta, nil
	}
	entityType, id := entity.TranslationKey()
	fields, sources, err := o.fetch(ctx, entityType, id, locale)
	if err != nil {
		return meta, err
	}
	if len(fields) == 0 {
		return meta, nil
	}

	base := entity.TranslatableFields()
	entity.ApplyTranslation(Merge(base, fields))

	requested := meta.RequestedLocale
	resolved := ""
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if _, ok := base[key]; !ok {
			continue
		}
		meta.OverriddenFields = append(meta.OverriddenFields, key)
		source := sources[key]
		if source == requested || resolved == "" {
			resolved = source
		}
	}
	if resolved != "" {
		meta.ResolvedLocale = resolved
		meta.FallbackUsed = resolved != requested
	}
	return meta, nil
}

func (o *Overlay) baseMeta(locale string) interfaces.TranslationMeta {
	requested, err := locales.Normalize(locale)
	if err != nil {
		requested = o.registry.Base()
	}
	return interfaces.TranslationMeta{
		RequestedLocale: requested,
		ResolvedLocale:  o.registry.Base(),
		BaseLocale:      o.registry.Base(),
		FallbackUsed:    requested != o.registry.Base(),
	}
}

// LocalizeAll applies overrides to every entity with one BulkFetch per entity
// type. Nil entries are skipped.
func LocalizeAll[T domain.Translatable](ctx context.Context, o *Overlay, entities []T, locale string) error {
	if o == nil || len(entities) == 0 || len(o.registry.Chain(locale)) == 0 {
		return nil
	}

	idsByType := map[domain.EntityType][]uuid.UUID{}
	for _, entity := range entities {
		if isNilTranslatable(entity) {
			continue
		}
		entityType, id := entity.TranslationKey()
		idsByType[entityType] = append(idsByType[entityType], id)
	}

	overrides := map[domain.EntityType]map[uuid.UUID]map[string]string{}
	for entityType, ids := range idsByType {
		fetched, err := o.BulkFetch(ctx, entityType, ids, locale)
		if err != nil {
			return err
		}
		overrides[entityType] = fetched
	}

	for _, entity := range entities {
		if isNilTranslatable(entity) {
			continue
		}
		entityType, id := entity.TranslationKey()
		fields, ok := overrides[entityType][id]
		if !ok {
			continue
		}
		entity.ApplyTranslation(Merge(entity.TranslatableFields(), fields))
	}
	return nil
}

// resolveChain flattens per-locale rows into one field map. For each key the
// first chain locale with a non-blank value wins; sources records which.
func resolveChain(chain []string, byLocale map[string]map[string]string) (map[string]string, map[string]string) {
	fields := map[string]string{}
	sources := map[string]string{}
	for _, locale := range chain {
		for key, value := range byLocale[locale] {
			if _, done := fields[key]; done {
				continue
			}
			if strings.TrimSpace(value) == "" {
				continue
			}
			fields[key] = value
			sources[key] = locale
		}
	}
	return fields, sources
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// isNilTranslatable reports nil interfaces and typed nil pointers alike, so a
// []domain.Translatable holding a (*Racket)(nil) is skipped, not dereferenced.
func isNilTranslatable(entity domain.Translatable) bool {
	if entity == nil {
		return true
	}
	v := reflect.ValueOf(entity)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
