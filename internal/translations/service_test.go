package translations_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/goliatone/go-padel/internal/validation"
	"github.com/google/uuid"
)

func newService(t *testing.T) (*translations.Service, *catalog.Brand) {
	t.Helper()
	cat := catalog.New(catalog.NewMemoryRepositories())
	brand, err := cat.Brands.Create(context.Background(), &catalog.Brand{Name: "Siux", Description: "Argentinian brand"})
	if err != nil {
		t.Fatalf("create brand: %v", err)
	}
	clock := func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	svc := translations.NewService(
		translations.NewMemoryRepository(),
		locales.MustRegistry("en", "es", "fr"),
		translations.WithEntityLookup(cat),
		translations.WithClock(clock),
	)
	return svc, brand
}

func TestServiceSaveValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, brand := newService(t)

	cases := []struct {
		name string
		req  translations.SaveRequest
		want error
	}{
		{"base locale", translations.SaveRequest{EntityType: domain.EntityBrand, EntityID: brand.ID, Locale: "en", Fields: map[string]string{"description": "x"}}, translations.ErrBaseLocale},
		{"unsupported locale", translations.SaveRequest{EntityType: domain.EntityBrand, EntityID: brand.ID, Locale: "de", Fields: map[string]string{"description": "x"}}, translations.ErrLocaleUnsupported},
		{"invalid locale", translations.SaveRequest{EntityType: domain.EntityBrand, EntityID: brand.ID, Locale: "!!", Fields: map[string]string{"description": "x"}}, locales.ErrLocaleInvalid},
		{"unknown field", translations.SaveRequest{EntityType: domain.EntityBrand, EntityID: brand.ID, Locale: "es", Fields: map[string]string{"name": "x"}}, validation.ErrSchemaValidation},
		{"missing id", translations.SaveRequest{EntityType: domain.EntityBrand, Locale: "es", Fields: map[string]string{"description": "x"}}, translations.ErrEntityIDRequired},
		{"bad source", translations.SaveRequest{EntityType: domain.EntityBrand, EntityID: brand.ID, Locale: "es", Fields: map[string]string{"description": "x"}, Source: "robot"}, translations.ErrSourceInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Save(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !translations.IsClientError(err) {
				t.Fatalf("expected %v to be a client error", err)
			}
		})
	}

	_, err := svc.Save(ctx, translations.SaveRequest{EntityType: domain.EntityBrand, EntityID: uuid.New(), Locale: "es", Fields: map[string]string{"description": "x"}})
	if !catalog.IsNotFound(err) {
		t.Fatalf("expected missing entity error, got %v", err)
	}
}

func TestServiceProtectsManualOverrides(t *testing.T) {
	ctx := context.Background()
	svc, brand := newService(t)

	manual, err := svc.Save(ctx, translations.SaveRequest{
		EntityType: domain.EntityBrand,
		EntityID:   brand.ID,
		Locale:     "ES",
		Fields:     map[string]string{"description": "Marca argentina"},
	})
	if err != nil {
		t.Fatalf("save manual: %v", err)
	}
	if manual.Source != translations.SourceManual || manual.Locale != "es" {
		t.Fatalf("unexpected manual row %+v", manual)
	}

	_, err = svc.Save(ctx, translations.SaveRequest{
		EntityType: domain.EntityBrand,
		EntityID:   brand.ID,
		Locale:     "es",
		Fields:     map[string]string{"description": "Machine text"},
		Source:     translations.SourceMachine,
	})
	if !errors.Is(err, translations.ErrManualOverride) {
		t.Fatalf("expected ErrManualOverride, got %v", err)
	}

	forced, err := svc.Save(ctx, translations.SaveRequest{
		EntityType: domain.EntityBrand,
		EntityID:   brand.ID,
		Locale:     "es",
		Fields:     map[string]string{"description": "Machine text"},
		Source:     translations.SourceMachine,
		Force:      true,
	})
	if err != nil {
		t.Fatalf("forced save: %v", err)
	}
	if forced.ID != manual.ID || forced.Fields["description"] != "Machine text" {
		t.Fatalf("expected forced replacement of the same row, got %+v", forced)
	}

	stats, err := svc.Stats(ctx, domain.EntityBrand)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 1 || stats[0].Count != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	if err := svc.Delete(ctx, domain.EntityBrand, brand.ID, "es"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, domain.EntityBrand, brand.ID, "es"); !translations.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
