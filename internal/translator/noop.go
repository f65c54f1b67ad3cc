package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-padel/pkg/interfaces"
)

const (
	ProviderOpenAI = "openai"
	ProviderNoop   = "noop"
	ProviderNone   = "none"
)

// Noop returns the source text unchanged. It is used for dry runs and tests.
type Noop struct{}

func (Noop) Translate(_ context.Context, req interfaces.TranslateRequest) (string, error) {
	return req.Text, nil
}

// Unavailable fails every call with interfaces.ErrTranslatorUnavailable.
type Unavailable struct{}

func (Unavailable) Translate(context.Context, interfaces.TranslateRequest) (string, error) {
	return "", interfaces.ErrTranslatorUnavailable
}

// New builds the translator named by provider.
func New(provider string, cfg Config, opts ...Option) (interfaces.MachineTranslator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenAI:
		return NewOpenAI(cfg, opts...)
	case ProviderNoop:
		return Noop{}, nil
	case ProviderNone, "":
		return Unavailable{}, nil
	default:
		return nil, fmt.Errorf("translator: unknown provider %q", provider)
	}
}
