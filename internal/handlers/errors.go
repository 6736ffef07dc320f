package handlers

import (
	"errors"
	"net/http"

	"github.com/shahzebali977/lostandfounddevops/internal/models"
	pkghttp "github.com/shahzebali977/lostandfounddevops/pkg/http"
)

// writeServiceError maps service-layer sentinel errors onto the JSON
// error envelope. The 4xx family echoes the error text since services
// attach intentional, user-facing messages; 5xx responses never leak
// internals.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteValidationError(w, err.Error())
	case errors.Is(err, models.ErrInvalidOperation):
		pkghttp.WriteInvalidOperation(w, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Authentication failed")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "You do not have access to this resource")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, err.Error())
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, err.Error())
	case errors.Is(err, models.ErrUploadFailed):
		pkghttp.WriteBadGateway(w, "Image upload failed, please try again")
	case errors.Is(err, models.ErrTransient):
		pkghttp.WriteServiceUnavailable(w, "Service temporarily unavailable, please retry")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
