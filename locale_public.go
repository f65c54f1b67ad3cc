package padel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-padel/internal/locales"
)

var (
	// ErrLocaleCodeRequired indicates locale lookups require a non-empty locale code.
	ErrLocaleCodeRequired = errors.New("padel: locale code is required")
	// ErrUnknownLocale indicates the locale code is invalid or not configured.
	ErrUnknownLocale = errors.New("padel: unknown locale")
)

// LocaleNotFoundError describes unknown locale-code lookups and unwraps to ErrUnknownLocale.
type LocaleNotFoundError struct {
	Code string
}

func (e *LocaleNotFoundError) Error() string {
	code := strings.TrimSpace(e.Code)
	if code == "" {
		return "padel: locale not found"
	}
	return fmt.Sprintf("padel: locale %q not found", code)
}

func (e *LocaleNotFoundError) Unwrap() error {
	return ErrUnknownLocale
}

// LocaleInfo is the public view of a configured locale.
type LocaleInfo struct {
	Code   string `json:"code"`
	IsBase bool   `json:"is_base"`
	// Fallbacks lists the override locales consulted, most specific first.
	// It is empty for the base locale.
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// BaseLocale returns the locale canonical records are written in.
func (m *Module) BaseLocale() string {
	if m == nil || m.container == nil {
		return locales.DefaultBase
	}
	return m.container.Locales().Base()
}

// SupportedLocales lists the configured locales, base first.
func (m *Module) SupportedLocales() []LocaleInfo {
	if m == nil || m.container == nil {
		return nil
	}
	registry := m.container.Locales()
	codes := registry.Supported()
	out := make([]LocaleInfo, 0, len(codes))
	for _, code := range codes {
		out = append(out, localeInfo(registry, code))
	}
	return out
}

// ResolveLocale maps a requested code ("pt_BR", "es-MX") onto a configured
// locale. Regional codes resolve to their language when only the language
// is configured.
func (m *Module) ResolveLocale(code string) (LocaleInfo, error) {
	if m == nil || m.container == nil {
		return LocaleInfo{}, errNilModule
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return LocaleInfo{}, ErrLocaleCodeRequired
	}
	registry := m.container.Locales()
	resolved, ok := registry.Resolve(code)
	if !ok {
		return LocaleInfo{}, &LocaleNotFoundError{Code: code}
	}
	return localeInfo(registry, resolved), nil
}

func localeInfo(registry *locales.Registry, code string) LocaleInfo {
	return LocaleInfo{
		Code:      code,
		IsBase:    registry.IsBase(code),
		Fallbacks: registry.Chain(code),
	}
}
