package transport

import (
	"errors"
	"net/http"
	"strconv"

	"product-catalog/internal/domain"
	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// decodeRequest decodes and validates the request body. On failure it writes
// the 400 response and returns false.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}, logger *zap.Logger) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID reads the {id} URL parameter. Malformed ids cannot match a record,
// so they are reported as not found.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

// respondWithServiceError maps service and repository errors to HTTP statuses
func respondWithServiceError(w http.ResponseWriter, err error, logger *zap.Logger, action string) {
	switch {
	case errors.Is(err, domain.ErrNonPositivePrice):
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "validation failed", map[string]interface{}{
			"validation_errors": []middleware.ValidationError{{Field: "price", Message: err.Error()}},
		})
	case errors.Is(err, repository.ErrInvalidReference),
		errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, repository.ErrInvalidValue),
		errors.Is(err, service.ErrInvalidAttributes):
		logger.Debug(action+" rejected", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error(action+" failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// query is a small reader for list filters. The first malformed value is kept
// in err and reported as a validation failure.
type query struct {
	r   *http.Request
	err *middleware.ValidationError
}

func (q *query) String(key string) string {
	return q.r.URL.Query().Get(key)
}

func (q *query) Bool(key string) *bool {
	raw := q.r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(key, "Must be true or false")
		return nil
	}
	return &v
}

func (q *query) UUID(key string) *uuid.UUID {
	raw := q.r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}

	v, err := uuid.Parse(raw)
	if err != nil {
		q.fail(key, "Must be a valid UUID")
		return nil
	}
	return &v
}

func (q *query) fail(key, message string) {
	if q.err == nil {
		q.err = &middleware.ValidationError{Field: key, Message: message}
	}
}

// ok writes the validation response when a filter was malformed
func (q *query) ok(w http.ResponseWriter) bool {
	if q.err != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{*q.err})
		return false
	}
	return true
}
