package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

type listMeta struct {
	Locale string `json:"locale"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type listResponse[T any] struct {
	Meta listMeta `json:"meta"`
	Data []T      `json:"data"`
}

func (s *Server) listRackets(w http.ResponseWriter, r *http.Request) {
	opts := catalog.ListOptions{}
	if slug := strings.TrimSpace(r.URL.Query().Get("brand")); slug != "" {
		brand, err := s.catalog.Brands.GetBySlug(r.Context(), slug)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.BrandID = &brand.ID
	}
	listPublished(s, w, r, s.catalog.Rackets, opts)
}

func (s *Server) getRacket(w http.ResponseWriter, r *http.Request) {
	getPublished(s, w, r, s.catalog.Rackets)
}

func (s *Server) listGuides(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.authorFilter(w, r)
	if !ok {
		return
	}
	listPublished(s, w, r, s.catalog.Guides, opts)
}

func (s *Server) getGuide(w http.ResponseWriter, r *http.Request) {
	getPublished(s, w, r, s.catalog.Guides)
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.authorFilter(w, r)
	if !ok {
		return
	}
	listPublished(s, w, r, s.catalog.Posts, opts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	getPublished(s, w, r, s.catalog.Posts)
}

func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	listPublished(s, w, r, s.catalog.Brands, catalog.ListOptions{})
}

func (s *Server) getBrand(w http.ResponseWriter, r *http.Request) {
	getPublished(s, w, r, s.catalog.Brands)
}

func (s *Server) getAuthor(w http.ResponseWriter, r *http.Request) {
	getPublished(s, w, r, s.catalog.Authors)
}

func (s *Server) authorFilter(w http.ResponseWriter, r *http.Request) (catalog.ListOptions, bool) {
	opts := catalog.ListOptions{}
	slug := strings.TrimSpace(r.URL.Query().Get("author"))
	if slug == "" {
		return opts, true
	}
	author, err := s.catalog.Authors.GetBySlug(r.Context(), slug)
	if err != nil {
		s.writeError(w, r, err)
		return opts, false
	}
	opts.AuthorID = &author.ID
	return opts, true
}

func (s *Server) page(r *http.Request) (limit, offset int, err error) {
	limit, err = parseIntQuery(r, "limit", s.defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if limit == 0 || limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	offset, err = parseIntQuery(r, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// listPublished serves one page of published records with the request
// locale's overrides applied in a single bulk fetch.
func listPublished[T catalog.Record](s *Server, w http.ResponseWriter, r *http.Request, store *catalog.Store[T], opts catalog.ListOptions) {
	limit, offset, err := s.page(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	opts.Limit = limit
	opts.Offset = offset

	records, total, err := store.List(r.Context(), opts.PublishedOnly())
	if err != nil {
		s.loggerFor(r).Error("http.catalog.list_failed", "resource", store.Resource(), "error", err)
		s.writeError(w, r, err)
		return
	}
	locale := s.requestLocale(r)
	if err := translations.LocalizeAll(r.Context(), s.overlay, records, locale); err != nil {
		s.loggerFor(r).Error("http.catalog.localize_failed", "resource", store.Resource(), "error", err)
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []T{}
	}
	writeJSON(w, http.StatusOK, listResponse[T]{
		Meta: listMeta{Locale: locale, Total: total, Limit: limit, Offset: offset},
		Data: records,
	})
}

// getPublished serves one record by slug. Unpublished records are reported
// as missing.
func getPublished[T catalog.Record](s *Server, w http.ResponseWriter, r *http.Request, store *catalog.Store[T]) {
	slug := chi.URLParam(r, "slug")
	record, err := store.GetBySlug(r.Context(), slug)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !catalog.PublicStatus(record) {
		s.writeError(w, r, &catalog.NotFoundError{Resource: store.Resource(), Key: slug})
		return
	}
	meta, err := s.overlay.LocalizeWithMeta(r.Context(), record, s.requestLocale(r))
	if err != nil {
		s.loggerFor(r).Error("http.catalog.localize_failed", "resource", store.Resource(), "slug", slug, "error", err)
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, interfaces.Localized[T]{Meta: meta, Data: record})
}
