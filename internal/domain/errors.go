package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrSKUConflict signals a duplicate SKU on create or update.
	ErrSKUConflict = errors.New("sku already exists")
	// ErrInvalidRequest signals a request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSearchFailed signals that the catalog store could not serve a search.
	ErrSearchFailed = errors.New("search failed")
	// ErrInferenceUnavailable signals that no language-model backend is configured.
	ErrInferenceUnavailable = errors.New("inference backend not configured")
	// ErrInferenceFailed signals a language-model transport or provider failure.
	ErrInferenceFailed = errors.New("inference backend error")
)

// ValidationError wraps ErrInvalidRequest with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRequest.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
