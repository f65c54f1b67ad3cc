package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-padel/pkg/interfaces"
)

const (
	rootModule         = "padel"
	catalogModule      = "padel.catalog"
	translationsModule = "padel.translations"
	batchModule        = "padel.batch"
	httpModule         = "padel.http"
	markdownModule     = "padel.markdown"
	translatorModule   = "padel.translator"
)

const (
	fieldEntityType = "entity_type"
	fieldEntityID   = "entity_id"
	fieldLocale     = "locale"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields a
// no-op logger so services can run without logging configured.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// CatalogLogger returns the logger for canonical content repositories and services.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// TranslationsLogger returns the logger for the overlay and override storage.
func TranslationsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, translationsModule)
}

// BatchLogger returns the logger for batch translation runs.
func BatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, batchModule)
}

// HTTPLogger returns the logger for the HTTP transport.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// MarkdownLogger returns the logger for markdown imports.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// TranslatorLogger returns the logger for machine translation clients.
func TranslatorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, translatorModule)
}

// WithEntity attaches entity coordinates to logger. Empty values are skipped.
func WithEntity(logger interfaces.Logger, entityType, entityID, locale string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(entityType); trimmed != "" {
		fields[fieldEntityType] = trimmed
	}
	if trimmed := strings.TrimSpace(entityID); trimmed != "" {
		fields[fieldEntityID] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldLocale] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
