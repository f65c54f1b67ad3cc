package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-padel/internal/locales"
)

var (
	ErrServerAddressRequired  = errors.New("padel config: server address is required")
	ErrStorageDriverInvalid   = errors.New("padel config: storage driver must be sqlite or postgres")
	ErrStorageDSNRequired     = errors.New("padel config: storage dsn is required")
	ErrCacheTTLInvalid        = errors.New("padel config: cache ttl must be positive when cache is enabled")
	ErrBaseLocaleInvalid      = errors.New("padel config: base locale is invalid")
	ErrLocaleInvalid          = errors.New("padel config: locale is invalid")
	ErrTranslatorProvider     = errors.New("padel config: translator provider must be openai, noop or none")
	ErrTranslatorAPIKey       = errors.New("padel config: translator api key is required for openai")
	ErrTranslatorLimits       = errors.New("padel config: translator chunk size, concurrency and retries must not be negative")
	ErrAuthSecretRequired     = errors.New("padel config: auth secret is required when admin auth is enabled")
	ErrLoggingProviderUnknown = errors.New("padel config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("padel config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("padel config: logging format is invalid")
)

// Config aggregates the settings of the server and the batch tools.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Cache      CacheConfig      `mapstructure:"cache"`
	I18N       I18NConfig       `mapstructure:"i18n"`
	Translator TranslatorConfig `mapstructure:"translator"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Markdown   MarkdownConfig   `mapstructure:"markdown"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// DefaultPageSize applies to list endpoints without a limit.
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

// StorageConfig selects the database. An empty driver keeps everything in memory.
type StorageConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	Debug        bool   `mapstructure:"debug"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// CacheConfig toggles the read-through repository cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// I18NConfig lists the locales overrides may be stored for.
type I18NConfig struct {
	BaseLocale     string   `mapstructure:"base_locale"`
	Locales        []string `mapstructure:"locales"`
	ParentFallback bool     `mapstructure:"parent_fallback"`
}

// TranslatorConfig configures the machine translation backend and batch runs.
type TranslatorConfig struct {
	Provider      string        `mapstructure:"provider"`
	Endpoint      string        `mapstructure:"endpoint"`
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	Temperature   float64       `mapstructure:"temperature"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	Backoff       time.Duration `mapstructure:"backoff"`
	MaxChunkChars int           `mapstructure:"max_chunk_chars"`
	Concurrency   int           `mapstructure:"concurrency"`
}

// AuthConfig protects the admin routes with HS256 bearer tokens.
type AuthConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
}

// MarkdownConfig drives the importer.
type MarkdownConfig struct {
	ContentDir  string   `mapstructure:"content_dir"`
	DefaultType string   `mapstructure:"default_type"`
	Author      string   `mapstructure:"author"`
	Recursive   bool     `mapstructure:"recursive"`
	Extensions  []string `mapstructure:"extensions"`
	HardWraps   bool     `mapstructure:"hard_wraps"`
	SafeMode    bool     `mapstructure:"safe_mode"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns settings suitable for local development.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Storage: StorageConfig{
			Driver:       "sqlite",
			DSN:          "file:padel.db?cache=shared&_fk=1",
			MaxOpenConns: 1,
			AutoMigrate:  true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		I18N: I18NConfig{
			BaseLocale:     locales.DefaultBase,
			Locales:        []string{"es", "fr", "it", "pt", "de"},
			ParentFallback: true,
		},
		Translator: TranslatorConfig{
			Provider:      "none",
			Temperature:   0.2,
			Timeout:       60 * time.Second,
			MaxRetries:    3,
			Backoff:       time.Second,
			MaxChunkChars: 3000,
			Concurrency:   2,
		},
		Auth: AuthConfig{
			Enabled: true,
			Issuer:  "go-padel",
		},
		Markdown: MarkdownConfig{
			ContentDir:  "content",
			DefaultType: "guide",
			Recursive:   true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Server.Address) == "" {
		return ErrServerAddressRequired
	}
	switch normalize(cfg.Storage.Driver) {
	case "", "memory":
	case "sqlite", "sqlite3", "postgres", "pg", "postgresql":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverInvalid, cfg.Storage.Driver)
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if _, err := locales.Normalize(cfg.I18N.BaseLocale); err != nil {
		return fmt.Errorf("%w: %q", ErrBaseLocaleInvalid, cfg.I18N.BaseLocale)
	}
	for _, code := range cfg.I18N.Locales {
		if _, err := locales.Normalize(code); err != nil {
			return fmt.Errorf("%w: %q", ErrLocaleInvalid, code)
		}
	}
	switch normalize(cfg.Translator.Provider) {
	case "", "none", "noop":
	case "openai":
		if strings.TrimSpace(cfg.Translator.APIKey) == "" {
			return ErrTranslatorAPIKey
		}
	default:
		return fmt.Errorf("%w: %s", ErrTranslatorProvider, cfg.Translator.Provider)
	}
	if cfg.Translator.MaxChunkChars < 0 || cfg.Translator.Concurrency < 0 || cfg.Translator.MaxRetries < 0 {
		return ErrTranslatorLimits
	}
	if cfg.Auth.Enabled && strings.TrimSpace(cfg.Auth.Secret) == "" {
		return ErrAuthSecretRequired
	}
	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// StorageDriver returns the canonical driver name, or "" for in-memory storage.
func (cfg StorageConfig) StorageDriver() string {
	switch normalize(cfg.Driver) {
	case "sqlite", "sqlite3":
		return "sqlite"
	case "postgres", "pg", "postgresql":
		return "postgres"
	default:
		return ""
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "none":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
