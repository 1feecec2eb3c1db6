package httpx

import (
	"errors"
	"net/http"

	"github.com/sentra-auth/sentra/internal/shared"
)

// Authentication failures collapse into a single generic 401 regardless of
// cause, so callers cannot probe which part of a credential was wrong.
const authFailedDetail = "authentication failed"

// RespondError maps domain errors to HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", authFailedDetail)
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// Unauthorized sends the generic authentication failure response.
func Unauthorized(w http.ResponseWriter) {
	Problem(w, http.StatusUnauthorized, "Unauthorized", authFailedDetail)
}

// Forbidden sends the authorization denial response, distinct from 401 so
// clients can tell "who are you" from "you can't do that".
func Forbidden(w http.ResponseWriter) {
	Problem(w, http.StatusForbidden, "Forbidden", "access denied")
}
