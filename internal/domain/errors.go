package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotLoaded signals that a vectorizer or classifier artifact is absent.
	ErrModelNotLoaded = errors.New("model not loaded")
	// ErrInvalidArtifact signals a model artifact that failed to parse or validate.
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmptyDocument signals a document without extractable text.
	ErrEmptyDocument = errors.New("empty document")
	// ErrInvalidRequest signals malformed scoring input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrBatchTooLarge signals a batch above the configured size limit.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrUnsupportedFormat signals an upload with an unsupported file extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmbeddingProviderError signals a remote embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// DimensionError wraps ErrVectorDimMismatch with the offending sizes.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", ErrVectorDimMismatch.Error(), e.Want, e.Got)
}

func (e *DimensionError) Unwrap() error { return ErrVectorDimMismatch }

// NewDimensionError creates a dimension mismatch error.
func NewDimensionError(want, got int) error {
	return &DimensionError{Want: want, Got: got}
}
