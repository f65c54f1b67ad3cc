package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/pkg/testsupport"
	"github.com/google/uuid"
)

type seedData struct {
	Brands  []*catalog.Brand  `json:"brands"`
	Authors []*catalog.Author `json:"authors"`
	Rackets []*catalog.Racket `json:"rackets"`
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func seedCatalog(t *testing.T, c *catalog.Catalog) seedData {
	t.Helper()
	ctx := context.Background()

	var seed seedData
	if err := testsupport.LoadGolden("testdata/seed.json", &seed); err != nil {
		t.Fatalf("load seed: %v", err)
	}
	for _, brand := range seed.Brands {
		if _, err := c.Brands.Create(ctx, brand); err != nil {
			t.Fatalf("create brand %s: %v", brand.Slug, err)
		}
	}
	for _, author := range seed.Authors {
		if _, err := c.Authors.Create(ctx, author); err != nil {
			t.Fatalf("create author %s: %v", author.Slug, err)
		}
	}
	for _, racket := range seed.Rackets {
		if _, err := c.Rackets.Create(ctx, racket); err != nil {
			t.Fatalf("create racket %s: %v", racket.Slug, err)
		}
	}
	return seed
}

func newMemoryCatalog() *catalog.Catalog {
	return catalog.New(catalog.NewMemoryRepositories(), catalog.WithClock(fixedClock))
}

func TestStoreCreateDerivesSlugAndStamps(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog()
	seedCatalog(t, c)

	brand, err := c.Brands.GetBySlug(ctx, "nox")
	if err != nil {
		t.Fatalf("get brand: %v", err)
	}

	created, err := c.Rackets.Create(ctx, &catalog.Racket{
		BrandID: brand.ID,
		Name:    "Equation Lady",
		Status:  "Published",
	})
	if err != nil {
		t.Fatalf("create racket: %v", err)
	}
	if created.Slug != "equation-lady" {
		t.Fatalf("expected derived slug, got %q", created.Slug)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if created.Status != domain.StatusPublished {
		t.Fatalf("expected normalized status, got %q", created.Status)
	}
	if created.PublishedAt == nil || !created.PublishedAt.Equal(fixedClock()) {
		t.Fatalf("expected published_at stamped, got %v", created.PublishedAt)
	}
}

func TestStoreCreateRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog()
	seedCatalog(t, c)

	if _, err := c.Rackets.Create(ctx, &catalog.Racket{Name: "Orphan", BrandID: uuid.New()}); !catalog.IsNotFound(err) {
		t.Fatalf("expected missing brand error, got %v", err)
	}

	if _, err := c.Brands.Create(ctx, &catalog.Brand{Name: "Bullpadel"}); !errors.Is(err, catalog.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}

	if _, err := c.Brands.Create(ctx, &catalog.Brand{Name: "Bad", Slug: "Not A Slug"}); !errors.Is(err, catalog.ErrSlugInvalid) {
		t.Fatalf("expected ErrSlugInvalid, got %v", err)
	}

	if _, err := c.Guides.Create(ctx, &catalog.Guide{Title: "Guide", Status: "pending"}); !errors.Is(err, domain.ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}

	if _, err := c.Authors.Create(ctx, &catalog.Author{Slug: "nameless"}); err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestStoreUpdateChecksSlugOwnership(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog()
	seedCatalog(t, c)

	racket, err := c.Rackets.GetBySlug(ctx, "vertex-04")
	if err != nil {
		t.Fatalf("get racket: %v", err)
	}

	racket.Summary = "Updated summary."
	updated, err := c.Rackets.Update(ctx, racket)
	if err != nil {
		t.Fatalf("update racket: %v", err)
	}
	if updated.Summary != "Updated summary." {
		t.Fatalf("expected summary update, got %q", updated.Summary)
	}

	updated.Slug = "at10-genius"
	if _, err := c.Rackets.Update(ctx, updated); !errors.Is(err, catalog.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}

	if _, err := c.Rackets.Update(ctx, &catalog.Racket{ID: uuid.New(), Name: "Ghost", BrandID: racket.BrandID}); !catalog.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog()
	seed := seedCatalog(t, c)

	all, total, err := c.Rackets.List(ctx, catalog.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("expected 3 rackets, got %d/%d", len(all), total)
	}
	if all[0].Name != "AT10 Genius" {
		t.Fatalf("expected name ordering, got %q first", all[0].Name)
	}

	published, total, err := c.Rackets.List(ctx, catalog.ListOptions{}.PublishedOnly())
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if total != 2 || len(published) != 2 {
		t.Fatalf("expected 2 published rackets, got %d", total)
	}

	noxID := seed.Brands[1].ID
	byBrand, total, err := c.Rackets.List(ctx, catalog.ListOptions{BrandID: &noxID, Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list by brand: %v", err)
	}
	if total != 2 || len(byBrand) != 1 || byBrand[0].Slug != "ml10-pro-cup" {
		t.Fatalf("unexpected brand page %+v (total %d)", byBrand, total)
	}
}

func TestMemoryRepositoryClonesRecords(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog()
	seedCatalog(t, c)

	first, err := c.Rackets.GetBySlug(ctx, "vertex-04")
	if err != nil {
		t.Fatalf("get racket: %v", err)
	}
	first.Name = "mutated"

	second, err := c.Rackets.GetBySlug(ctx, "vertex-04")
	if err != nil {
		t.Fatalf("get racket: %v", err)
	}
	if second.Name != "Vertex 04" {
		t.Fatalf("expected stored record to be unaffected, got %q", second.Name)
	}
}

func TestTranslatableContract(t *testing.T) {
	racket := &catalog.Racket{ID: uuid.New(), Name: "Vertex", Summary: "Fast", Pros: "Power"}
	entityType, id := racket.TranslationKey()
	if entityType != domain.EntityRacket || id != racket.ID {
		t.Fatalf("unexpected key %s/%s", entityType, id)
	}

	fields := racket.TranslatableFields()
	for _, name := range domain.EntityRacket.TranslatableFields() {
		if _, ok := fields[name]; !ok {
			t.Fatalf("expected field %q in translatable set", name)
		}
	}

	racket.ApplyTranslation(map[string]string{"summary": "Rápida", "shape": "ignored"})
	if racket.Summary != "Rápida" || racket.Name != "Vertex" {
		t.Fatalf("unexpected applied translation %+v", racket)
	}
}
