package locales

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"en":    "en",
		" ES ":  "es",
		"pt_BR": "pt-br",
		"pt-br": "pt-br",
	}
	for input, want := range cases {
		got, err := Normalize(input)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := Normalize(""); !errors.Is(err, ErrLocaleRequired) {
		t.Fatalf("expected ErrLocaleRequired, got %v", err)
	}
	if _, err := Normalize("not a locale!"); !errors.Is(err, ErrLocaleInvalid) {
		t.Fatalf("expected ErrLocaleInvalid, got %v", err)
	}
}

func TestRegistryBaseFirstAndDeduplicated(t *testing.T) {
	r, err := NewRegistry("EN", []string{"es", "fr", "es", "en"}, true)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if got := r.Supported(); !reflect.DeepEqual(got, []string{"en", "es", "fr"}) {
		t.Fatalf("unexpected supported list %v", got)
	}
	if !r.IsBase("en") || r.IsBase("es") {
		t.Fatal("unexpected IsBase result")
	}
}

func TestRegistryResolve(t *testing.T) {
	r := MustRegistry("en", "es", "pt-br")

	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"es", "es", true},
		{"ES", "es", true},
		{"es-MX", "es", true},
		{"pt-BR", "pt-br", true},
		{"de", "en", false},
		{"", "en", false},
		{"???", "en", false},
	}
	for _, tc := range cases {
		got, ok := r.Resolve(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Resolve(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRegistryChain(t *testing.T) {
	r := MustRegistry("en", "es", "pt", "pt-br")

	if chain := r.Chain("en"); len(chain) != 0 {
		t.Fatalf("expected empty chain for base locale, got %v", chain)
	}
	if chain := r.Chain("pt-BR"); !reflect.DeepEqual(chain, []string{"pt-br", "pt"}) {
		t.Fatalf("unexpected chain %v", chain)
	}
	if chain := r.Chain("en-GB"); len(chain) != 0 {
		t.Fatalf("expected unconfigured base variant to serve canonical, got %v", chain)
	}
	if chain := r.Chain("es-MX"); !reflect.DeepEqual(chain, []string{"es"}) {
		t.Fatalf("expected regional code to resolve to its language, got %v", chain)
	}
	if chain := r.Chain("de"); len(chain) != 0 {
		t.Fatalf("expected empty chain for unconfigured locale, got %v", chain)
	}

	strict, err := NewRegistry("en", []string{"pt-br"}, false)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if chain := strict.Chain("pt-br"); !reflect.DeepEqual(chain, []string{"pt-br"}) {
		t.Fatalf("expected no parent fallback, got %v", chain)
	}
	if chain := strict.Chain("pt"); len(chain) != 0 {
		t.Fatalf("expected empty chain for unconfigured parent, got %v", chain)
	}
}

func TestMatchAcceptLanguage(t *testing.T) {
	r := MustRegistry("en", "es", "fr")

	if got := r.MatchAcceptLanguage("fr-CH, fr;q=0.9, en;q=0.8"); got != "fr" {
		t.Fatalf("expected fr, got %q", got)
	}
	if got := r.MatchAcceptLanguage("es-ES"); got != "es" {
		t.Fatalf("expected es, got %q", got)
	}
	if got := r.MatchAcceptLanguage(""); got != "en" {
		t.Fatalf("expected base for empty header, got %q", got)
	}
}
