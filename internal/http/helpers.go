package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-padel/internal/batch"
	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/translations"
	"github.com/goliatone/go-padel/internal/validation"
	"github.com/google/uuid"
)

const maxRequestBody = 1 << 20

var errUUIDRequired = errors.New("uuid required")

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err onto a status and JSON body. Server errors are logged
// and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		s.loggerFor(r).Error("http.request.failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, payload)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if catalog.IsNotFound(err) || translations.IsNotFound(err) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	if errors.Is(err, translations.ErrManualOverride) || errors.Is(err, catalog.ErrSlugExists) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, validation.ErrSchemaValidation) || errors.Is(err, validation.ErrSchemaInvalid) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  validation.Issues(err),
		}
	}

	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: "request validation failed",
			Issues:  ozzoIssues(fieldErrs),
		}
	}

	if translations.IsClientError(err) ||
		errors.Is(err, batch.ErrTargetLocalesRequired) ||
		errors.Is(err, batch.ErrTranslatorRequired) ||
		goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: "internal server error",
	}
}

func ozzoIssues(errs ozzo.Errors) []validation.ValidationIssue {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	issues := make([]validation.ValidationIssue, 0, len(keys))
	for _, key := range keys {
		issues = append(issues, validation.ValidationIssue{
			Location: "/" + key,
			Message:  errs[key].Error(),
		})
	}
	return issues
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errUUIDRequired
	}
	return uuid.Parse(trimmed)
}

// parseIntQuery reads a non-negative integer query parameter.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return value, nil
}
