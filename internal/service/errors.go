package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is classification across the service layer.
// The concrete error types below carry the context (offending id, expected
// vs. actual length) callers need for user-facing messages.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// NotFoundError reports a referenced resource that does not exist. It is
// deliberately distinct from validation errors so the API layer can map it
// to a 404 rather than a 422.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports caller-supplied input that fails a precondition,
// such as a vector of the wrong length. Never silently coerced.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidWeightError reports a non-positive rating weight encountered during
// profile aggregation. Weights must be strictly positive.
type InvalidWeightError struct {
	Index  int
	Weight float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("invalid rating weight %g at index %d: weights must be positive", e.Weight, e.Index)
}

func (e *InvalidWeightError) Is(target error) bool {
	return target == ErrValidation
}

// ProviderError reports an embedding provider that is unreachable or returned
// malformed output. The service performs no retries itself; retry policy
// belongs to the provider client or the caller.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
