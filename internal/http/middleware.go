package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

type localeKey struct{}

func requestLogger(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())
			ctx := logging.ContextWithFields(r.Context(), map[string]any{"request_id": requestID})

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			entry := logging.WithFields(logger, map[string]any{
				"request_id":  requestID,
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if status >= http.StatusInternalServerError {
				entry.Error("http.request")
				return
			}
			entry.Info("http.request")
		})
	}
}

// resolveLocale picks the response locale from ?lang=, then Accept-Language,
// then the base locale, and advertises it in Content-Language.
func (s *Server) resolveLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := s.localeFor(r)
		w.Header().Set("Content-Language", locale)
		w.Header().Add("Vary", "Accept-Language")
		ctx := context.WithValue(r.Context(), localeKey{}, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) localeFor(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		resolved, _ := s.registry.Resolve(lang)
		return resolved
	}
	return s.registry.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
}

func (s *Server) requestLocale(r *http.Request) string {
	if locale, ok := r.Context().Value(localeKey{}).(string); ok && locale != "" {
		return locale
	}
	return s.registry.Base()
}

func (s *Server) loggerFor(r *http.Request) interfaces.Logger {
	return logging.FromContext(r.Context(), s.logger)
}
