package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIngestion indicates the uploaded material could not be turned
	// into indexable text (unsupported format, empty or corrupt input).
	ErrIngestion = errors.New("ingestion failed")

	// ErrIndex indicates a vector index failure such as a dimension
	// mismatch or an unknown collection.
	ErrIndex = errors.New("vector index error")

	// ErrRetrieval is reserved for catastrophic index failure during
	// retrieval. An empty corpus is not an error; it is a valid empty
	// result.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrValidation indicates a malformed request shape.
	ErrValidation = errors.New("invalid request")

	// ErrProvider indicates a model provider failure. Use ProviderError
	// to distinguish transient from permanent failures.
	ErrProvider = errors.New("provider error")
)

// ProviderError wraps a model provider failure with enough structure
// for the orchestrator to decide whether to retry.
type ProviderError struct {
	// Op names the provider operation that failed ("embed",
	// "complete", "render").
	Op string

	// Transient is true for failures worth retrying: timeouts,
	// rate limits and 5xx responses. Auth, quota and malformed-request
	// failures are permanent.
	Transient bool

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("provider %s failed (%s): %v", e.Op, kind, e.Err)
}

// Unwrap exposes the underlying cause and the ErrProvider sentinel.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrProvider) match any ProviderError.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// NewTransientProviderError wraps err as a retryable provider failure.
func NewTransientProviderError(op string, err error) *ProviderError {
	return &ProviderError{Op: op, Transient: true, Err: err}
}

// NewPermanentProviderError wraps err as a non-retryable provider failure.
func NewPermanentProviderError(op string, err error) *ProviderError {
	return &ProviderError{Op: op, Transient: false, Err: err}
}

// IsTransient reports whether err is a provider failure worth retrying.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Transient
}
