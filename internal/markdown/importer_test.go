package markdown_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/internal/markdown"
	"github.com/goliatone/go-padel/internal/translations"
)

type importFixture struct {
	catalog      *catalog.Catalog
	translations *translations.Service
	importer     *markdown.Importer
}

func newImportFixture(t *testing.T) importFixture {
	t.Helper()
	cat := catalog.New(catalog.NewMemoryRepositories())
	if _, err := cat.Authors.Create(context.Background(), &catalog.Author{Name: "Carla Romero", Bio: "Coach in Valencia."}); err != nil {
		t.Fatalf("create author: %v", err)
	}
	registry := locales.MustRegistry("en", "es", "fr")
	svc := translations.NewService(translations.NewMemoryRepository(), registry, translations.WithEntityLookup(cat))
	importer := markdown.NewImporter(markdown.ImporterConfig{
		Catalog:      cat,
		Translations: svc,
		Registry:     registry,
	})
	return importFixture{catalog: cat, translations: svc, importer: importer}
}

func TestImportDirectoryCreatesRecordsAndOverrides(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)

	result, err := fx.importer.ImportDirectory(ctx, "testdata/content", markdown.ImportOptions{Recursive: true})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if result.Created != 2 || result.Translated != 2 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	guide, err := fx.catalog.Guides.GetBySlug(ctx, "choosing-a-racket")
	if err != nil {
		t.Fatalf("guide not created: %v", err)
	}
	if guide.Status != domain.StatusPublished || guide.AuthorID == nil || guide.PublishedAt == nil {
		t.Fatalf("unexpected guide %+v", guide)
	}
	if guide.PublishedAt.Year() != 2024 {
		t.Fatalf("expected frontmatter date, got %v", guide.PublishedAt)
	}
	if !strings.Contains(guide.BodyHTML, "<table>") {
		t.Fatalf("expected rendered body, got %q", guide.BodyHTML)
	}

	post, err := fx.catalog.Posts.GetBySlug(ctx, "premier-padel-2024")
	if err != nil {
		t.Fatalf("post not created: %v", err)
	}
	if post.Status != domain.StatusDraft || len(post.Tags) != 2 {
		t.Fatalf("unexpected post %+v", post)
	}

	es, err := fx.translations.Get(ctx, domain.EntityGuide, guide.ID, "es")
	if err != nil {
		t.Fatalf("spanish override missing: %v", err)
	}
	if es.Source != translations.SourceManual || es.Fields["title"] != "Cómo elegir tu primera pala de pádel" {
		t.Fatalf("unexpected override %+v", es)
	}
	fr, err := fx.translations.Get(ctx, domain.EntityBlogPost, post.ID, "fr")
	if err != nil {
		t.Fatalf("french override missing: %v", err)
	}
	if !strings.Contains(fr.Fields["body_html"], "<strong>Riyad</strong>") {
		t.Fatalf("unexpected french body %q", fr.Fields["body_html"])
	}
	if _, ok := fr.Fields["excerpt"]; ok {
		t.Fatal("blank excerpt must not be stored")
	}
}

func TestImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)
	opts := markdown.ImportOptions{Recursive: true}

	if _, err := fx.importer.ImportDirectory(ctx, "testdata/content", opts); err != nil {
		t.Fatalf("first import: %v", err)
	}
	result, err := fx.importer.ImportDirectory(ctx, "testdata/content", opts)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if result.Created != 0 || result.Updated != 0 || result.Skipped != 2 {
		t.Fatalf("expected unchanged canonical documents to be skipped, got %+v", result)
	}
}

func TestImportDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)

	result, err := fx.importer.ImportDirectory(ctx, "testdata/content", markdown.ImportOptions{Recursive: true, DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if result.Created != 2 || result.Translated != 2 {
		t.Fatalf("unexpected dry run result %+v", result)
	}
	if _, err := fx.catalog.Guides.GetBySlug(ctx, "choosing-a-racket"); !catalog.IsNotFound(err) {
		t.Fatalf("dry run must not create guides, got %v", err)
	}
}

func TestImportUpdatesChangedDocuments(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)
	fsys := fstest.MapFS{
		"smash.md": {Data: []byte("---\ntitle: The bandeja\nslug: bandeja\n---\nKeep it low.\n")},
	}
	if _, err := fx.importer.ImportFS(ctx, fsys, markdown.ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	fsys["smash.md"] = &fstest.MapFile{Data: []byte("---\ntitle: The bandeja explained\nslug: bandeja\nstatus: published\n---\nKeep it low.\n")}
	result, err := fx.importer.ImportFS(ctx, fsys, markdown.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected update, got %+v", result)
	}
	guide, _ := fx.catalog.Guides.GetBySlug(ctx, "bandeja")
	if guide.Title != "The bandeja explained" || guide.Status != domain.StatusPublished {
		t.Fatalf("unexpected guide %+v", guide)
	}
}

func TestImportReportsBadDocumentsAndContinues(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)
	fsys := fstest.MapFS{
		"good.md":         {Data: []byte("---\ntitle: Vibora basics\n---\nBody\n")},
		"notitle.md":      {Data: []byte("---\nslug: missing\n---\nBody\n")},
		"orphan.es.md":    {Data: []byte("---\ntitle: Huérfano\n---\nCuerpo\n")},
		"unknown.md":      {Data: []byte("---\ntitle: Ghost\nauthor: nobody\n---\nBody\n")},
		"rackets/skip.md": {Data: []byte("---\ntitle: Not walked\n---\n")},
	}

	result, err := fx.importer.ImportFS(ctx, fsys, markdown.ImportOptions{})
	if err == nil {
		t.Fatal("expected first document error to be returned")
	}
	if result.Created != 1 || len(result.Errors) != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	var sawOrphan bool
	for _, item := range result.Errors {
		if item.Path == "orphan.es.md" && strings.Contains(item.Message, "canonical document not found") {
			sawOrphan = true
		}
	}
	if !sawOrphan {
		t.Fatalf("expected orphan override error, got %+v", result.Errors)
	}
}

func TestImportRejectsUnsupportedType(t *testing.T) {
	fx := newImportFixture(t)
	fsys := fstest.MapFS{
		"racket.md": {Data: []byte("---\ntype: racket\ntitle: Vertex\n---\n")},
	}
	result, err := fx.importer.ImportFS(context.Background(), fsys, markdown.ImportOptions{})
	if !errors.Is(err, markdown.ErrTypeUnsupported) {
		t.Fatalf("expected ErrTypeUnsupported, got %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}
