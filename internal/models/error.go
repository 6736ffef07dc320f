package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("resource already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrValidation       = errors.New("invalid input")
	ErrInvalidOperation = errors.New("operation not allowed in current state")
	ErrUploadFailed     = errors.New("image upload failed")
	ErrTransient        = errors.New("temporarily unavailable")
	ErrInternalServer   = errors.New("internal server error")

	// Account state errors
	ErrAccountDeactivated = errors.New("account is deactivated")
)
