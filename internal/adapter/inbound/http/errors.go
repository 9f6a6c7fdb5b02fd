package http

import (
	"errors"
	"net/http"

	"github.com/atelier-store/atelier/internal/domain/catalog"
	"github.com/atelier-store/atelier/internal/domain/user"
)

// respondDomainError maps a domain error onto the HTTP status taxonomy and
// writes the response. Unrecognized errors are logged with full detail and
// surface as a generic 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := LoggerFromContext(r.Context())

	switch {
	case errors.Is(err, user.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		logger.Warn("resource not found", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, user.ErrExists), errors.Is(err, catalog.ErrURLExists),
		errors.Is(err, user.ErrPasswordUnchanged):
		logger.Warn("conflicting request", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrOldPasswordMismatch),
		errors.Is(err, user.ErrUnknownRole), errors.Is(err, user.ErrUnknownGender):
		logger.Warn("request rejected", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
