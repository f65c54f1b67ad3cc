// Package padel is the entry point of the localized racket catalog: it builds
// the storage, translation overlay, batch translator and HTTP API from a
// single Config.
package padel

import (
	"context"
	"errors"

	"github.com/goliatone/go-padel/internal/batch"
	"github.com/goliatone/go-padel/internal/catalog"
	markdowncmd "github.com/goliatone/go-padel/internal/commands/markdown"
	translatecmd "github.com/goliatone/go-padel/internal/commands/translate"
	"github.com/goliatone/go-padel/internal/di"
	"github.com/goliatone/go-padel/internal/domain"
	padelhttp "github.com/goliatone/go-padel/internal/http"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/markdown"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

var errNilModule = errors.New("padel: module not initialised")

type (
	EntityType = domain.EntityType
	Racket     = catalog.Racket
	Guide      = catalog.Guide
	BlogPost   = catalog.BlogPost
	Brand      = catalog.Brand
	Author     = catalog.Author

	TranslateEntitiesCommand = translatecmd.TranslateEntitiesCommand
	TranslationReport        = batch.Report
	ImportMarkdownCommand    = markdowncmd.ImportMarkdownCommand
	ImportResult             = markdown.ImportResult

	HTTPServer = padelhttp.Server
)

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration the module was built from.
func (m *Module) Config() Config {
	return m.container.Config
}

// Catalog returns the canonical content store.
func (m *Module) Catalog() *catalog.Catalog {
	return m.container.Catalog()
}

// Overlay returns the read-side translation overlay.
func (m *Module) Overlay() *translations.Overlay {
	return m.container.Overlay()
}

// Translations returns the override write service.
func (m *Module) Translations() *translations.Service {
	return m.container.Translations()
}

func (m *Module) Translator() interfaces.MachineTranslator {
	return m.container.Translator()
}

// Localize applies the overrides for locale to entity in place.
func (m *Module) Localize(ctx context.Context, entity domain.Translatable, locale string) error {
	if m == nil || m.container == nil {
		return errNilModule
	}
	return m.container.Overlay().Localize(ctx, entity, locale)
}

// TranslateEntities runs a batch translation through the command handler so
// validation, retries and telemetry match the dispatcher path.
func (m *Module) TranslateEntities(ctx context.Context, cmd TranslateEntitiesCommand) (*TranslationReport, error) {
	if m == nil || m.container == nil {
		return nil, errNilModule
	}
	report := &batch.Report{}
	cmd.Report = report
	if err := m.container.TranslateHandler().Execute(ctx, cmd); err != nil {
		return nil, err
	}
	return report, nil
}

// ImportMarkdown imports guides and blog posts from a markdown directory.
func (m *Module) ImportMarkdown(ctx context.Context, cmd ImportMarkdownCommand) (*ImportResult, error) {
	if m == nil || m.container == nil {
		return nil, errNilModule
	}
	result := &markdown.ImportResult{}
	cmd.Result = result
	if err := m.container.ImportHandler().Execute(ctx, cmd); err != nil {
		return nil, err
	}
	return result, nil
}

// HTTPServer builds the API router on top of the module services.
func (m *Module) HTTPServer() (*HTTPServer, error) {
	if m == nil || m.container == nil {
		return nil, errNilModule
	}
	cfg := m.container.Config
	return padelhttp.NewServer(padelhttp.Dependencies{
		Catalog:      m.container.Catalog(),
		Overlay:      m.container.Overlay(),
		Translations: m.container.Translations(),
		Registry:     m.container.Locales(),
		Jobs:         m.container.TranslateHandler(),
	},
		padelhttp.WithAuth(cfg.Auth),
		padelhttp.WithLogger(logging.HTTPLogger(m.container.LoggerProvider())),
		padelhttp.WithPageSizes(cfg.Server.DefaultPageSize, cfg.Server.MaxPageSize),
	)
}

// Close releases the database connections the module opened.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
