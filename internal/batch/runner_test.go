package batch_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-padel/internal/batch"
	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/goliatone/go-padel/pkg/interfaces"
	"github.com/google/uuid"
)

type fakeTranslator struct {
	mu       sync.Mutex
	requests []interfaces.TranslateRequest
	failOn   string
}

func (f *fakeTranslator) Translate(_ context.Context, req interfaces.TranslateRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.failOn != "" && strings.Contains(req.Text, f.failOn) {
		return "", errors.New("model refused")
	}
	return "[" + req.TargetLocale + "] " + strings.TrimSpace(req.Text), nil
}

func (f *fakeTranslator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fixture struct {
	catalog *catalog.Catalog
	service *translations.Service
	rackets []*catalog.Racket
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	cat := catalog.New(catalog.NewMemoryRepositories())
	brand, err := cat.Brands.Create(ctx, &catalog.Brand{Name: "Bullpadel", Description: "Spanish manufacturer."})
	if err != nil {
		t.Fatalf("create brand: %v", err)
	}

	var rackets []*catalog.Racket
	for _, r := range []*catalog.Racket{
		{BrandID: brand.ID, Name: "Vertex 04", Summary: "Power racket.", ReviewHTML: "<p>Hard core.</p><p>Big sweet spot.</p>", Status: domain.StatusPublished},
		{BrandID: brand.ID, Name: "Hack 03", Summary: "Attack racket.", Pros: "Power", Status: domain.StatusDraft},
		{BrandID: brand.ID, Name: "Ionic", Summary: "Old model.", Status: domain.StatusArchived},
	} {
		created, err := cat.Rackets.Create(ctx, r)
		if err != nil {
			t.Fatalf("create racket %s: %v", r.Name, err)
		}
		rackets = append(rackets, created)
	}

	svc := translations.NewService(
		translations.NewMemoryRepository(),
		locales.MustRegistry("en", "es", "fr"),
		translations.WithEntityLookup(cat),
	)
	return fixture{catalog: cat, service: svc, rackets: rackets}
}

func TestRunTranslatesPublishedAndDraftRecords(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	tr := &fakeTranslator{}
	runner := batch.NewRunner(fx.catalog, fx.service, tr, batch.WithConcurrency(3))

	report, err := runner.Run(ctx, batch.Job{EntityType: domain.EntityRacket, TargetLocales: []string{"es", "ES", "fr"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Translated != 4 || report.Skipped != 0 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Locales) != 2 {
		t.Fatalf("expected deduplicated locales, got %v", report.Locales)
	}

	row, err := fx.service.Get(ctx, domain.EntityRacket, fx.rackets[0].ID, "es")
	if err != nil {
		t.Fatalf("get override: %v", err)
	}
	if row.Source != translations.SourceMachine {
		t.Fatalf("expected machine source, got %s", row.Source)
	}
	if row.Fields["summary"] != "[es] Power racket." {
		t.Fatalf("unexpected summary %q", row.Fields["summary"])
	}
	if _, ok := row.Fields["pros"]; ok {
		t.Fatal("blank canonical fields must not be translated")
	}
	if _, err := fx.service.Get(ctx, domain.EntityRacket, fx.rackets[2].ID, "es"); !translations.IsNotFound(err) {
		t.Fatalf("archived racket must not be translated, got %v", err)
	}
}

func TestRunChunksHTMLFields(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	tr := &fakeTranslator{}
	runner := batch.NewRunner(fx.catalog, fx.service, tr)

	_, err := runner.Run(ctx, batch.Job{
		EntityType:    domain.EntityRacket,
		TargetLocales: []string{"es"},
		IDs:           []uuid.UUID{fx.rackets[0].ID},
		MaxChunkChars: 20,
		Concurrency:   1,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	htmlCalls := 0
	for _, req := range tr.requests {
		if req.Format == interfaces.FormatHTML {
			htmlCalls++
			if req.Hint != "racket review_html" {
				t.Fatalf("unexpected hint %q", req.Hint)
			}
		}
	}
	if htmlCalls != 2 {
		t.Fatalf("expected review to be split into 2 chunks, got %d", htmlCalls)
	}
	row, err := fx.service.Get(ctx, domain.EntityRacket, fx.rackets[0].ID, "es")
	if err != nil {
		t.Fatalf("get override: %v", err)
	}
	want := "[es] <p>Hard core.</p><p>[es] Big sweet spot.</p>"
	if row.Fields["review_html"] != want {
		t.Fatalf("unexpected review %q", row.Fields["review_html"])
	}
}

func TestRunKeepsWrappedReviewChunksWithinLimit(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	paragraph := "<p>" + strings.Repeat("Stiff EVA core with a rough face. ", 5) + "</p>"
	racket := fx.rackets[0]
	racket.ReviewHTML = "<article>" + strings.Repeat(paragraph, 12) + "</article>"
	if _, err := fx.catalog.Rackets.Update(ctx, racket); err != nil {
		t.Fatalf("update racket: %v", err)
	}

	tr := &fakeTranslator{}
	runner := batch.NewRunner(fx.catalog, fx.service, tr)
	if _, err := runner.Run(ctx, batch.Job{
		EntityType:    domain.EntityRacket,
		TargetLocales: []string{"fr"},
		IDs:           []uuid.UUID{racket.ID},
		MaxChunkChars: 400,
		Concurrency:   1,
	}); err != nil {
		t.Fatalf("run: %v", err)
	}

	htmlCalls := 0
	for _, req := range tr.requests {
		if req.Format != interfaces.FormatHTML {
			continue
		}
		htmlCalls++
		if n := len([]rune(req.Text)); n > 400 {
			t.Fatalf("chunk of %d runes sent to the translator", n)
		}
		if strings.Contains(req.Text, "<article") {
			t.Fatalf("wrapper element sent with chunk: %q", req.Text)
		}
	}
	if htmlCalls < 4 {
		t.Fatalf("expected the review to be split, got %d calls", htmlCalls)
	}

	row, err := fx.service.Get(ctx, domain.EntityRacket, racket.ID, "fr")
	if err != nil {
		t.Fatalf("get override: %v", err)
	}
	review := row.Fields["review_html"]
	if !strings.HasPrefix(review, "<article>") || !strings.HasSuffix(review, "</article>") || strings.Count(review, "<article>") != 1 {
		t.Fatalf("expected one article around the translated chunks, got %q", review)
	}
}

func TestRunSkipsExistingRowsUnlessForced(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	target := fx.rackets[0]
	if _, err := fx.service.Save(ctx, translations.SaveRequest{
		EntityType: domain.EntityRacket,
		EntityID:   target.ID,
		Locale:     "es",
		Fields:     map[string]string{"summary": "Pala de potencia."},
		Source:     translations.SourceManual,
	}); err != nil {
		t.Fatalf("seed manual override: %v", err)
	}

	tr := &fakeTranslator{}
	runner := batch.NewRunner(fx.catalog, fx.service, tr)
	job := batch.Job{EntityType: domain.EntityRacket, TargetLocales: []string{"es"}, IDs: []uuid.UUID{target.ID}}

	report, err := runner.Run(ctx, job)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Skipped != 1 || report.Translated != 0 || tr.calls() != 0 {
		t.Fatalf("expected manual row to be skipped, got %+v after %d calls", report, tr.calls())
	}

	job.Force = true
	report, err = runner.Run(ctx, job)
	if err != nil {
		t.Fatalf("forced run: %v", err)
	}
	if report.Translated != 1 {
		t.Fatalf("expected forced translation, got %+v", report)
	}
	row, _ := fx.service.Get(ctx, domain.EntityRacket, target.ID, "es")
	if row.Source != translations.SourceMachine || row.Fields["summary"] != "[es] Power racket." {
		t.Fatalf("expected machine row after force, got %+v", row)
	}
}

func TestRunReportsFailuresWithoutAborting(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	tr := &fakeTranslator{failOn: "Attack"}
	runner := batch.NewRunner(fx.catalog, fx.service, tr)

	report, err := runner.Run(ctx, batch.Job{EntityType: domain.EntityRacket, TargetLocales: []string{"fr"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Translated != 1 || report.Failed != 1 || len(report.Errors) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Errors[0].EntityID != fx.rackets[1].ID || report.Errors[0].Locale != "fr" {
		t.Fatalf("unexpected error entry %+v", report.Errors[0])
	}
}

func TestRunDryRunPersistsNothing(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	tr := &fakeTranslator{}
	runner := batch.NewRunner(fx.catalog, fx.service, tr)

	report, err := runner.Run(ctx, batch.Job{EntityType: domain.EntityRacket, TargetLocales: []string{"es"}, DryRun: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Planned != 2 || report.Translated != 0 || tr.calls() != 0 {
		t.Fatalf("unexpected dry run report %+v (%d calls)", report, tr.calls())
	}
	stats, _ := fx.service.Stats(ctx, domain.EntityRacket)
	if len(stats) != 0 {
		t.Fatalf("dry run must not write rows, got %v", stats)
	}
}

func TestRunRejectsInvalidJobs(t *testing.T) {
	fx := newFixture(t)
	runner := batch.NewRunner(fx.catalog, fx.service, &fakeTranslator{})
	cases := []struct {
		name string
		job  batch.Job
		want error
	}{
		{"unknown type", batch.Job{EntityType: "paddle", TargetLocales: []string{"es"}}, domain.ErrEntityTypeInvalid},
		{"no locales", batch.Job{EntityType: domain.EntityBrand}, batch.ErrTargetLocalesRequired},
		{"base locale", batch.Job{EntityType: domain.EntityBrand, TargetLocales: []string{"en"}}, translations.ErrBaseLocale},
		{"unsupported locale", batch.Job{EntityType: domain.EntityBrand, TargetLocales: []string{"de"}}, translations.ErrLocaleUnsupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := runner.Run(context.Background(), tc.job); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	fx := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := batch.NewRunner(fx.catalog, fx.service, &fakeTranslator{})

	report, err := runner.Run(ctx, batch.Job{EntityType: domain.EntityRacket, TargetLocales: []string{"es"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report == nil || report.Translated != 0 {
		t.Fatalf("expected empty partial report, got %+v", report)
	}
}
