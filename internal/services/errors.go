package services

import (
	"errors"

	"github.com/shahzebali977/lostandfounddevops/internal/models"
)

// domainSentinels are the errors callers branch on; anything else coming
// out of a repository is collapsed to ErrInternalServer so storage
// details never leak upward.
var domainSentinels = []error{
	models.ErrNotFound,
	models.ErrConflict,
	models.ErrValidation,
	models.ErrInvalidOperation,
	models.ErrForbidden,
	models.ErrUnauthorized,
	models.ErrTransient,
	models.ErrUploadFailed,
	models.ErrAccountDeactivated,
}

func coerceStoreError(err error) error {
	for _, sentinel := range domainSentinels {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return models.ErrInternalServer
}
