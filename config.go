package padel

import "github.com/goliatone/go-padel/internal/runtimeconfig"

var (
	ErrServerAddressRequired  = runtimeconfig.ErrServerAddressRequired
	ErrStorageDriverInvalid   = runtimeconfig.ErrStorageDriverInvalid
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrBaseLocaleInvalid      = runtimeconfig.ErrBaseLocaleInvalid
	ErrLocaleInvalid          = runtimeconfig.ErrLocaleInvalid
	ErrTranslatorProvider     = runtimeconfig.ErrTranslatorProvider
	ErrTranslatorAPIKey       = runtimeconfig.ErrTranslatorAPIKey
	ErrTranslatorLimits       = runtimeconfig.ErrTranslatorLimits
	ErrAuthSecretRequired     = runtimeconfig.ErrAuthSecretRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	ServerConfig     = runtimeconfig.ServerConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	I18NConfig       = runtimeconfig.I18NConfig
	TranslatorConfig = runtimeconfig.TranslatorConfig
	AuthConfig       = runtimeconfig.AuthConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads path (optional) and PADEL_* environment variables on top
// of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
