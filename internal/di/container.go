package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-padel/internal/batch"
	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/commands"
	markdowncmd "github.com/goliatone/go-padel/internal/commands/markdown"
	translatecmd "github.com/goliatone/go-padel/internal/commands/translate"
	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/logging/gologger"
	"github.com/goliatone/go-padel/internal/markdown"
	"github.com/goliatone/go-padel/internal/runtimeconfig"
	"github.com/goliatone/go-padel/internal/storage"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/goliatone/go-padel/internal/translator"
	"github.com/goliatone/go-padel/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires module dependencies. Without a database it runs on the
// in-memory repositories.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	translatorHTTP translator.HTTPClient
	translator     interfaces.MachineTranslator

	registry        *locales.Registry
	catalogRepos    catalog.Repositories
	catalog         *catalog.Catalog
	translationRepo translations.Repository
	translationSvc  *translations.Service
	overlay         *translations.Overlay
	runner          *batch.Runner
	importer        *markdown.Importer

	translateHandler *translatecmd.TranslateEntitiesHandler
	importHandler    *markdowncmd.ImportMarkdownHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an already opened database. The container does not
// close handles it did not open.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used with bun storage.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithTranslator overrides the machine translator built from config.
func WithTranslator(t interfaces.MachineTranslator) Option {
	return func(c *Container) {
		c.translator = t
	}
}

// WithTranslatorHTTPClient sets the HTTP client of the OpenAI translator.
func WithTranslatorHTTPClient(client translator.HTTPClient) Option {
	return func(c *Container) {
		c.translatorHTTP = client
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}

	registry, err := locales.NewRegistry(cfg.I18N.BaseLocale, cfg.I18N.Locales, cfg.I18N.ParentFallback)
	if err != nil {
		return nil, fmt.Errorf("di: locales: %w", err)
	}
	c.registry = registry

	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureServices()
	if err := c.configureTranslator(); err != nil {
		c.closeOwned()
		return nil, err
	}
	c.configureWorkers()
	c.configureCommands()

	logging.ModuleLogger(c.loggerProvider, "padel.di").Debug("container ready",
		"storage", c.storageName(),
		"cache", c.cacheService != nil,
		"translator", cfg.Translator.Provider,
		"locales", strings.Join(registry.Supported(), ","),
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "none":
		return nil
	default:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		return nil
	}
}

func (c *Container) configureStorage() error {
	if c.bunDB == nil {
		driver := c.Config.Storage.StorageDriver()
		if driver == "" {
			return nil
		}
		db, err := storage.Open(storage.Config{
			Driver:       driver,
			DSN:          c.Config.Storage.DSN,
			MaxOpenConns: c.Config.Storage.MaxOpenConns,
			Debug:        c.Config.Storage.Debug,
		})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if !c.Config.Storage.AutoMigrate {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := storage.Migrate(ctx, c.bunDB); err != nil {
		c.closeOwned()
		return err
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		c.catalogRepos = catalog.NewBunRepositories(c.bunDB, c.cacheService, c.keySerializer)
		c.translationRepo = translations.NewBunRepository(c.bunDB)
		return
	}
	c.catalogRepos = catalog.NewMemoryRepositories()
	c.translationRepo = translations.NewMemoryRepository()
}

func (c *Container) configureServices() {
	c.catalog = catalog.New(c.catalogRepos, catalog.WithLogger(logging.CatalogLogger(c.loggerProvider)))

	translationsLogger := logging.TranslationsLogger(c.loggerProvider)
	c.translationSvc = translations.NewService(c.translationRepo, c.registry,
		translations.WithEntityLookup(c.catalog),
		translations.WithLogger(translationsLogger),
	)
	c.overlay = translations.NewOverlay(c.translationRepo, c.registry,
		translations.WithOverlayLogger(translationsLogger),
	)
}

func (c *Container) configureTranslator() error {
	if c.translator != nil {
		return nil
	}
	cfg := c.Config.Translator
	opts := []translator.Option{translator.WithLogger(logging.TranslatorLogger(c.loggerProvider))}
	if c.translatorHTTP != nil {
		opts = append(opts, translator.WithHTTPClient(c.translatorHTTP))
	}
	t, err := translator.New(cfg.Provider, translator.Config{
		Endpoint:    cfg.Endpoint,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		Backoff:     cfg.Backoff,
	}, opts...)
	if err != nil {
		return err
	}
	c.translator = t
	return nil
}

func (c *Container) configureWorkers() {
	c.runner = batch.NewRunner(c.catalog, c.translationSvc, c.translator,
		batch.WithLogger(logging.BatchLogger(c.loggerProvider)),
		batch.WithMaxChunkChars(c.Config.Translator.MaxChunkChars),
		batch.WithConcurrency(c.Config.Translator.Concurrency),
		batch.WithSourceLocale(c.registry.Base()),
	)

	md := c.Config.Markdown
	c.importer = markdown.NewImporter(markdown.ImporterConfig{
		Catalog:      c.catalog,
		Translations: c.translationSvc,
		Registry:     c.registry,
		Parser: markdown.NewGoldmarkParser(markdown.ParseOptions{
			Extensions: md.Extensions,
			HardWraps:  md.HardWraps,
			SafeMode:   md.SafeMode,
		}),
		Logger: logging.MarkdownLogger(c.loggerProvider),
	})
}

func (c *Container) configureCommands() {
	c.translateHandler = translatecmd.NewTranslateEntitiesHandler(c.runner, commands.CommandLogger(c.loggerProvider, "translations"))
	c.importHandler = markdowncmd.NewImportMarkdownHandler(c.importer, commands.CommandLogger(c.loggerProvider, "markdown"))
}

func (c *Container) storageName() string {
	if c.bunDB == nil {
		return "memory"
	}
	return c.bunDB.Dialect().Name().String()
}

func (c *Container) closeOwned() {
	if c.ownsDB && c.bunDB != nil {
		_ = c.bunDB.Close()
		c.bunDB = nil
		c.ownsDB = false
	}
}

// Close releases the database handle when the container opened it.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	if err != nil {
		return fmt.Errorf("di: close storage: %w", err)
	}
	return nil
}

// LoggerProvider returns the configured provider; nil means logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func (c *Container) Locales() *locales.Registry {
	return c.registry
}

func (c *Container) Catalog() *catalog.Catalog {
	return c.catalog
}

func (c *Container) Translations() *translations.Service {
	return c.translationSvc
}

func (c *Container) Overlay() *translations.Overlay {
	return c.overlay
}

func (c *Container) Translator() interfaces.MachineTranslator {
	return c.translator
}

func (c *Container) BatchRunner() *batch.Runner {
	return c.runner
}

func (c *Container) MarkdownImporter() *markdown.Importer {
	return c.importer
}

// TranslateHandler returns the command handler running batch translations.
func (c *Container) TranslateHandler() *translatecmd.TranslateEntitiesHandler {
	return c.translateHandler
}

// ImportHandler returns the command handler running markdown imports.
func (c *Container) ImportHandler() *markdowncmd.ImportMarkdownHandler {
	return c.importHandler
}
