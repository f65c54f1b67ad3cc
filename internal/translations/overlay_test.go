package translations_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/google/uuid"
)

type countingRepository struct {
	translations.Repository
	gets  int
	lists int
}

func (c *countingRepository) Get(ctx context.Context, entityType domain.EntityType, id uuid.UUID, locale string) (*translations.ContentTranslation, error) {
	c.gets++
	return c.Repository.Get(ctx, entityType, id, locale)
}

func (c *countingRepository) ListForEntities(ctx context.Context, entityType domain.EntityType, ids []uuid.UUID, locs []string) ([]*translations.ContentTranslation, error) {
	c.lists++
	return c.Repository.ListForEntities(ctx, entityType, ids, locs)
}

func (c *countingRepository) queries() int {
	return c.gets + c.lists
}

func newOverlay(t *testing.T, rows ...*translations.ContentTranslation) (*translations.Overlay, *countingRepository) {
	t.Helper()
	repo := &countingRepository{Repository: translations.NewMemoryRepository()}
	for _, row := range rows {
		if _, err := repo.Repository.Upsert(context.Background(), row); err != nil {
			t.Fatalf("seed override: %v", err)
		}
	}
	registry := locales.MustRegistry("en", "es", "fr", "pt", "pt-br")
	return translations.NewOverlay(repo, registry), repo
}

func override(entityType domain.EntityType, id uuid.UUID, locale string, fields map[string]string) *translations.ContentTranslation {
	return &translations.ContentTranslation{
		EntityType: entityType,
		EntityID:   id,
		Locale:     locale,
		Fields:     fields,
		Source:     translations.SourceManual,
	}
}

func TestMergeAppliesOnlyNonBlankKnownKeys(t *testing.T) {
	base := map[string]string{"title": "Choosing a racket", "excerpt": "Short intro", "body_html": "<p>Body</p>"}
	over := map[string]string{"title": "Elegir una pala", "excerpt": "   ", "slug": "elegir"}

	merged := translations.Merge(base, over)

	want := map[string]string{"title": "Elegir una pala", "excerpt": "Short intro", "body_html": "<p>Body</p>"}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("unexpected merge result %v", merged)
	}
	if base["title"] != "Choosing a racket" || len(over) != 3 {
		t.Fatal("expected inputs to be left untouched")
	}
	if got := translations.Merge(nil, over); len(got) != 0 {
		t.Fatalf("expected empty merge for nil base, got %v", got)
	}
}

func TestFetchBaseLocaleSkipsStorage(t *testing.T) {
	id := uuid.New()
	overlay, repo := newOverlay(t, override(domain.EntityGuide, id, "es", map[string]string{"title": "Guía"}))

	for _, locale := range []string{"en", "EN", "", "not a locale!"} {
		fields, err := overlay.Fetch(context.Background(), domain.EntityGuide, id, locale)
		if err != nil {
			t.Fatalf("fetch %q: %v", locale, err)
		}
		if len(fields) != 0 {
			t.Fatalf("expected no overrides for %q, got %v", locale, fields)
		}
	}
	if repo.queries() != 0 {
		t.Fatalf("expected no repository queries, got %d", repo.queries())
	}
}

func TestFetchReturnsStoredOverride(t *testing.T) {
	id := uuid.New()
	overlay, _ := newOverlay(t, override(domain.EntityGuide, id, "es", map[string]string{"title": "Guía"}))

	fields, err := overlay.Fetch(context.Background(), domain.EntityGuide, id, "ES")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fields["title"] != "Guía" {
		t.Fatalf("expected spanish title, got %v", fields)
	}

	missing, err := overlay.Fetch(context.Background(), domain.EntityGuide, id, "fr")
	if err != nil {
		t.Fatalf("fetch missing: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected empty override for missing locale, got %v", missing)
	}
}

func TestFetchFallsBackToParentLocalePerKey(t *testing.T) {
	id := uuid.New()
	overlay, repo := newOverlay(t,
		override(domain.EntityGuide, id, "pt", map[string]string{"title": "Guia PT", "excerpt": "Resumo PT"}),
		override(domain.EntityGuide, id, "pt-br", map[string]string{"title": "Guia BR", "excerpt": "  "}),
	)

	fields, err := overlay.Fetch(context.Background(), domain.EntityGuide, id, "pt-BR")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := map[string]string{"title": "Guia BR", "excerpt": "Resumo PT"}
	if !reflect.DeepEqual(fields, want) {
		t.Fatalf("unexpected chained fields %v", fields)
	}
	if repo.lists != 1 {
		t.Fatalf("expected a single chained query, got %d", repo.lists)
	}
}

func TestBulkFetchUsesOneQuery(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	overlay, repo := newOverlay(t,
		override(domain.EntityRacket, a, "es", map[string]string{"name": "Pala A"}),
		override(domain.EntityRacket, b, "es", map[string]string{"summary": ""}),
		override(domain.EntityRacket, c, "fr", map[string]string{"name": "Raquette C"}),
	)

	result, err := overlay.BulkFetch(context.Background(), domain.EntityRacket, []uuid.UUID{a, b, a, uuid.Nil, c}, "es")
	if err != nil {
		t.Fatalf("bulk fetch: %v", err)
	}
	if repo.lists != 1 {
		t.Fatalf("expected one query, got %d", repo.lists)
	}
	if len(result) != 1 || result[a]["name"] != "Pala A" {
		t.Fatalf("unexpected bulk result %v", result)
	}

	empty, err := overlay.BulkFetch(context.Background(), domain.EntityRacket, nil, "es")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result for no ids, got %v (%v)", empty, err)
	}
	base, err := overlay.BulkFetch(context.Background(), domain.EntityRacket, []uuid.UUID{a}, "en")
	if err != nil || len(base) != 0 {
		t.Fatalf("expected empty result for base locale, got %v (%v)", base, err)
	}
	if repo.lists != 1 {
		t.Fatalf("expected no extra queries, got %d", repo.lists)
	}
}

func TestLocalizeAllAppliesPerEntity(t *testing.T) {
	first := &catalog.Racket{ID: uuid.New(), Name: "Vertex", Summary: "Fast"}
	second := &catalog.Racket{ID: uuid.New(), Name: "Genius", Summary: "Versatile"}
	overlay, repo := newOverlay(t,
		override(domain.EntityRacket, first.ID, "es", map[string]string{"summary": "Rápida", "unknown": "x"}),
	)

	rackets := []*catalog.Racket{first, nil, second}
	if err := translations.LocalizeAll(context.Background(), overlay, rackets, "es"); err != nil {
		t.Fatalf("localize all: %v", err)
	}
	if first.Summary != "Rápida" || first.Name != "Vertex" {
		t.Fatalf("unexpected first racket %+v", first)
	}
	if second.Summary != "Versatile" {
		t.Fatalf("expected canonical summary for second racket, got %q", second.Summary)
	}
	if repo.lists != 1 {
		t.Fatalf("expected one bulk query, got %d", repo.lists)
	}
}

func TestLocalizeAllMixedTypes(t *testing.T) {
	brand := &catalog.Brand{ID: uuid.New(), Name: "Nox", Description: "Power"}
	author := &catalog.Author{ID: uuid.New(), Name: "Lucia", Bio: "Coach"}
	overlay, repo := newOverlay(t,
		override(domain.EntityBrand, brand.ID, "fr", map[string]string{"description": "Puissance"}),
		override(domain.EntityAuthor, author.ID, "fr", map[string]string{"bio": "Entraîneuse"}),
	)

	items := []domain.Translatable{brand, author}
	if err := translations.LocalizeAll(context.Background(), overlay, items, "fr"); err != nil {
		t.Fatalf("localize all: %v", err)
	}
	if brand.Description != "Puissance" || author.Bio != "Entraîneuse" {
		t.Fatalf("unexpected localized values %q / %q", brand.Description, author.Bio)
	}
	if repo.lists != 2 {
		t.Fatalf("expected one query per entity type, got %d", repo.lists)
	}
}

func TestLocalizeWithMetaReportsResolution(t *testing.T) {
	guide := &catalog.Guide{ID: uuid.New(), Title: "Grip", Excerpt: "How to hold", BodyHTML: "<p>Hold it</p>"}
	overlay, _ := newOverlay(t,
		override(domain.EntityGuide, guide.ID, "pt", map[string]string{"title": "Empunhadura"}),
	)

	meta, err := overlay.LocalizeWithMeta(context.Background(), guide, "pt-br")
	if err != nil {
		t.Fatalf("localize: %v", err)
	}
	if guide.Title != "Empunhadura" || guide.Excerpt != "How to hold" {
		t.Fatalf("unexpected guide %+v", guide)
	}
	if meta.RequestedLocale != "pt-br" || meta.ResolvedLocale != "pt" || !meta.FallbackUsed {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if !reflect.DeepEqual(meta.OverriddenFields, []string{"title"}) {
		t.Fatalf("unexpected overridden fields %v", meta.OverriddenFields)
	}

	untouched := &catalog.Guide{ID: uuid.New(), Title: "Serve"}
	meta, err = overlay.LocalizeWithMeta(context.Background(), untouched, "en")
	if err != nil {
		t.Fatalf("localize base: %v", err)
	}
	if meta.ResolvedLocale != "en" || meta.FallbackUsed || untouched.Title != "Serve" {
		t.Fatalf("unexpected base meta %+v", meta)
	}
}

func TestOverlayIgnoresRowsForUnconfiguredLocales(t *testing.T) {
	guide := &catalog.Guide{ID: uuid.New(), Title: "Choosing a racket"}
	overlay, repo := newOverlay(t,
		override(domain.EntityGuide, guide.ID, "de", map[string]string{"title": "Schlägerwahl"}),
	)
	ctx := context.Background()

	fields, err := overlay.Fetch(ctx, domain.EntityGuide, guide.ID, "de")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(fields) != 0 {
		t.Fatalf("expected no overrides for unconfigured locale, got %v", fields)
	}

	bulk, err := overlay.BulkFetch(ctx, domain.EntityGuide, []uuid.UUID{guide.ID}, "de")
	if err != nil {
		t.Fatalf("bulk fetch: %v", err)
	}
	if len(bulk) != 0 {
		t.Fatalf("expected no bulk overrides for unconfigured locale, got %v", bulk)
	}

	if err := translations.LocalizeAll(ctx, overlay, []*catalog.Guide{guide}, "de"); err != nil {
		t.Fatalf("localize all: %v", err)
	}
	if err := overlay.Localize(ctx, guide, "de-AT"); err != nil {
		t.Fatalf("localize: %v", err)
	}
	if guide.Title != "Choosing a racket" {
		t.Fatalf("expected canonical title, got %q", guide.Title)
	}
	if repo.queries() != 0 {
		t.Fatalf("expected no repository queries, got %d", repo.queries())
	}
}

func TestLocalizeSkipsTypedNilEntities(t *testing.T) {
	brand := &catalog.Brand{ID: uuid.New(), Name: "Nox", Description: "Power"}
	overlay, _ := newOverlay(t,
		override(domain.EntityBrand, brand.ID, "es", map[string]string{"description": "Potencia"}),
	)
	var missing *catalog.Brand

	items := []domain.Translatable{brand, missing}
	if err := translations.LocalizeAll(context.Background(), overlay, items, "es"); err != nil {
		t.Fatalf("localize all: %v", err)
	}
	if brand.Description != "Potencia" {
		t.Fatalf("unexpected description %q", brand.Description)
	}
	if _, err := overlay.LocalizeWithMeta(context.Background(), missing, "es"); err != nil {
		t.Fatalf("localize typed nil: %v", err)
	}
}
