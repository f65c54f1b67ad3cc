package interfaces

import (
	"context"
	"errors"
)

// ErrTranslatorUnavailable signals that no machine translation backend is configured.
var ErrTranslatorUnavailable = errors.New("translator unavailable")

// TextFormat tells the translator how to treat markup in the source text.
type TextFormat string

const (
	FormatText TextFormat = "text"
	FormatHTML TextFormat = "html"
)

// TranslateRequest carries a single segment to translate.
type TranslateRequest struct {
	Text         string
	SourceLocale string
	TargetLocale string
	Format       TextFormat
	// Hint is optional context passed to the model (entity type, field name).
	Hint string
}

// MachineTranslator translates one bounded segment of text.
type MachineTranslator interface {
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}
