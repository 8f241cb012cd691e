package utils

import "errors"

// Error classes shared by usecases and handlers. Wrap them with
// fmt.Errorf("%w: detail", ErrX) so handlers can map with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
