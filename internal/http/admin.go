package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-padel/internal/batch"
	translatecmd "github.com/goliatone/go-padel/internal/commands/translate"
	"github.com/goliatone/go-padel/internal/domain"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/google/uuid"
)

type entityTranslationsResponse struct {
	EntityType   domain.EntityType                  `json:"entity_type"`
	EntityID     uuid.UUID                          `json:"entity_id"`
	Locales      []string                           `json:"locales"`
	Translations []*translations.ContentTranslation `json:"translations"`
}

type translationRequest struct {
	Fields map[string]string `json:"fields"`
}

type statsResponse struct {
	EntityType domain.EntityType          `json:"entity_type"`
	Total      int                        `json:"total"`
	Locales    []translations.LocaleCount `json:"locales"`
}

func entityKey(r *http.Request) (domain.EntityType, uuid.UUID, error) {
	entityType, err := domain.ParseEntityType(chi.URLParam(r, "type"))
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		return "", uuid.Nil, err
	}
	return entityType, id, nil
}

func (s *Server) listEntityTranslations(w http.ResponseWriter, r *http.Request) {
	entityType, id, err := entityKey(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	rows, err := s.translations.ListForEntity(r.Context(), entityType, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	locales := make([]string, 0, len(rows))
	for _, row := range rows {
		locales = append(locales, row.Locale)
	}
	if rows == nil {
		rows = []*translations.ContentTranslation{}
	}
	writeJSON(w, http.StatusOK, entityTranslationsResponse{
		EntityType:   entityType,
		EntityID:     id,
		Locales:      locales,
		Translations: rows,
	})
}

func (s *Server) getTranslation(w http.ResponseWriter, r *http.Request) {
	entityType, id, err := entityKey(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	row, err := s.translations.Get(r.Context(), entityType, id, chi.URLParam(r, "locale"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// putTranslation replaces the override of one locale. Rows written here are
// manual and are protected from batch runs without force.
func (s *Server) putTranslation(w http.ResponseWriter, r *http.Request) {
	entityType, id, err := entityKey(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req translationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid JSON payload: "+err.Error())
		return
	}
	row, err := s.translations.Save(r.Context(), translations.SaveRequest{
		EntityType: entityType,
		EntityID:   id,
		Locale:     chi.URLParam(r, "locale"),
		Fields:     req.Fields,
		Source:     translations.SourceManual,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.loggerFor(r).Info("http.translations.saved",
		"entity_type", entityType.String(), "entity_id", id.String(), "locale", row.Locale, "fields", len(row.Fields))
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) deleteTranslation(w http.ResponseWriter, r *http.Request) {
	entityType, id, err := entityKey(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	locale := chi.URLParam(r, "locale")
	if err := s.translations.Delete(r.Context(), entityType, id, locale); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.loggerFor(r).Info("http.translations.deleted",
		"entity_type", entityType.String(), "entity_id", id.String(), "locale", locale)
	w.WriteHeader(http.StatusNoContent)
}

// runJob executes a batch translation synchronously and returns its report.
func (s *Server) runJob(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:   "unavailable",
			Message: "batch translation is not configured",
		})
		return
	}
	var cmd translatecmd.TranslateEntitiesCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		badRequest(w, "invalid JSON payload: "+err.Error())
		return
	}
	report := &batch.Report{}
	cmd.Report = report
	if err := s.jobs.Execute(r.Context(), cmd); err != nil {
		s.loggerFor(r).Warn("http.translations.job_failed", "entity_type", cmd.EntityType, "error", err)
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	entityType, err := domain.ParseEntityType(chi.URLParam(r, "type"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	counts, err := s.translations.Stats(r.Context(), entityType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	total := 0
	for _, count := range counts {
		total += count.Count
	}
	if counts == nil {
		counts = []translations.LocaleCount{}
	}
	writeJSON(w, http.StatusOK, statsResponse{EntityType: entityType, Total: total, Locales: counts})
}
