package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"sporthive/internal/delivery/http/helpers"
	"sporthive/internal/delivery/http/middleware"
	"sporthive/internal/domain"
)

// writeServiceError maps a service error kind to its HTTP status and error code.
// Errors without a known kind are logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := http.StatusInternalServerError, helpers.ErrCodeInternalError
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		status, code = http.StatusForbidden, helpers.ErrCodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, helpers.ErrCodeNotFound
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, helpers.ErrCodeConflict
	case errors.Is(err, domain.ErrInvalidTimeRange),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidInput):
		status, code = http.StatusBadRequest, helpers.ErrCodeBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"method", r.Method,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"err", err,
		)
		helpers.WriteJSONError(w, status, code, "internal server error")
		return
	}
	helpers.WriteJSONError(w, status, code, err.Error())
}

// requireUser returns the authenticated caller or writes 401.
func requireUser(w http.ResponseWriter, r *http.Request) (*domain.AuthUser, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}
