package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-padel/internal/catalog"
	translatecmd "github.com/goliatone/go-padel/internal/commands/translate"
	"github.com/goliatone/go-padel/internal/locales"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/metrics"
	"github.com/goliatone/go-padel/internal/runtimeconfig"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	ErrCatalogRequired      = errors.New("http: catalog is required")
	ErrOverlayRequired      = errors.New("http: overlay is required")
	ErrTranslationsRequired = errors.New("http: translation service is required")
)

// Dependencies are the services the router reads from and writes to.
type Dependencies struct {
	Catalog      *catalog.Catalog
	Overlay      *translations.Overlay
	Translations *translations.Service
	Registry     *locales.Registry
	// Jobs runs batch translation commands. Without it the jobs route
	// answers 503.
	Jobs command.Commander[translatecmd.TranslateEntitiesCommand]
}

// Server wires the public catalog routes and the translation admin routes.
type Server struct {
	router          chi.Router
	catalog         *catalog.Catalog
	overlay         *translations.Overlay
	translations    *translations.Service
	registry        *locales.Registry
	jobs            command.Commander[translatecmd.TranslateEntitiesCommand]
	auth            runtimeconfig.AuthConfig
	logger          interfaces.Logger
	defaultPageSize int
	maxPageSize     int
}

// Option mutates the Server configuration.
type Option func(*Server)

// WithLogger sets the request and handler logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuth configures bearer authentication for the admin routes. When
// cfg.Enabled is false the admin routes are open.
func WithAuth(cfg runtimeconfig.AuthConfig) Option {
	return func(s *Server) {
		s.auth = cfg
	}
}

// WithPageSizes overrides the default and maximum list page sizes.
func WithPageSizes(defaultSize, maxSize int) Option {
	return func(s *Server) {
		if defaultSize > 0 {
			s.defaultPageSize = defaultSize
		}
		if maxSize > 0 {
			s.maxPageSize = maxSize
		}
	}
}

// NewServer constructs a Server with middleware and routes.
func NewServer(deps Dependencies, opts ...Option) (*Server, error) {
	if deps.Catalog == nil {
		return nil, ErrCatalogRequired
	}
	if deps.Overlay == nil {
		return nil, ErrOverlayRequired
	}
	if deps.Translations == nil {
		return nil, ErrTranslationsRequired
	}
	registry := deps.Registry
	if registry == nil {
		registry = locales.MustRegistry(locales.DefaultBase)
	}

	s := &Server{
		catalog:         deps.Catalog,
		overlay:         deps.Overlay,
		translations:    deps.Translations,
		registry:        registry,
		jobs:            deps.Jobs,
		auth:            runtimeconfig.AuthConfig{Enabled: true},
		logger:          logging.NoOp(),
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.defaultPageSize > s.maxPageSize {
		s.defaultPageSize = s.maxPageSize
	}
	if s.auth.Enabled && strings.TrimSpace(s.auth.Secret) == "" {
		return nil, ErrAuthSecretRequired
	}

	metrics.Init()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/locales", s.listLocales)

		r.Group(func(r chi.Router) {
			r.Use(s.resolveLocale)

			r.Get("/rackets", s.listRackets)
			r.Get("/rackets/{slug}", s.getRacket)
			r.Get("/guides", s.listGuides)
			r.Get("/guides/{slug}", s.getGuide)
			r.Get("/blog", s.listPosts)
			r.Get("/blog/{slug}", s.getPost)
			r.Get("/brands", s.listBrands)
			r.Get("/brands/{slug}", s.getBrand)
			r.Get("/authors/{slug}", s.getAuthor)
		})

		r.Route("/admin/translations", func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Post("/jobs", s.runJob)
			r.Get("/stats/{type}", s.stats)
			r.Get("/{type}/{id}", s.listEntityTranslations)
			r.Get("/{type}/{id}/{locale}", s.getTranslation)
			r.Put("/{type}/{id}/{locale}", s.putTranslation)
			r.Delete("/{type}/{id}/{locale}", s.deleteTranslation)
		})
	})

	s.router = r
	return s, nil
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listLocales(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"base":    s.registry.Base(),
		"locales": s.registry.Supported(),
	})
}
