package models

import "errors"

// Business logic errors surfaced to callers as stable kinds.
// Controllers map these onto HTTP status codes with errors.Is.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidState     = errors.New("invalid state for operation")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
)
