package runtimeconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. PADEL_STORAGE_DSN.
const EnvPrefix = "PADEL"

// Load builds a Config from defaults, an optional file at path and the
// environment, then validates it.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.default_page_size", d.Server.DefaultPageSize)
	v.SetDefault("server.max_page_size", d.Server.MaxPageSize)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.dsn", d.Storage.DSN)
	v.SetDefault("storage.max_open_conns", d.Storage.MaxOpenConns)
	v.SetDefault("storage.debug", d.Storage.Debug)
	v.SetDefault("storage.auto_migrate", d.Storage.AutoMigrate)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("i18n.base_locale", d.I18N.BaseLocale)
	v.SetDefault("i18n.locales", d.I18N.Locales)
	v.SetDefault("i18n.parent_fallback", d.I18N.ParentFallback)

	v.SetDefault("translator.provider", d.Translator.Provider)
	v.SetDefault("translator.endpoint", d.Translator.Endpoint)
	v.SetDefault("translator.api_key", d.Translator.APIKey)
	v.SetDefault("translator.model", d.Translator.Model)
	v.SetDefault("translator.temperature", d.Translator.Temperature)
	v.SetDefault("translator.timeout", d.Translator.Timeout)
	v.SetDefault("translator.max_retries", d.Translator.MaxRetries)
	v.SetDefault("translator.backoff", d.Translator.Backoff)
	v.SetDefault("translator.max_chunk_chars", d.Translator.MaxChunkChars)
	v.SetDefault("translator.concurrency", d.Translator.Concurrency)

	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.secret", d.Auth.Secret)
	v.SetDefault("auth.issuer", d.Auth.Issuer)
	v.SetDefault("auth.audience", d.Auth.Audience)

	v.SetDefault("markdown.content_dir", d.Markdown.ContentDir)
	v.SetDefault("markdown.default_type", d.Markdown.DefaultType)
	v.SetDefault("markdown.author", d.Markdown.Author)
	v.SetDefault("markdown.recursive", d.Markdown.Recursive)
	v.SetDefault("markdown.extensions", d.Markdown.Extensions)
	v.SetDefault("markdown.hard_wraps", d.Markdown.HardWraps)
	v.SetDefault("markdown.safe_mode", d.Markdown.SafeMode)

	v.SetDefault("logging.provider", d.Logging.Provider)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.add_source", d.Logging.AddSource)
	v.SetDefault("logging.focus", d.Logging.Focus)
}
