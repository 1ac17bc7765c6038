package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("resource not found")
	ErrNoActivePeriod       = fmt.Errorf("no active scoring period: %w", ErrNotFound)
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrScoringInProgress    = errors.New("scoring run already in progress")
)

// BatchError reports a failed scoring batch. Batches before it stay committed.
type BatchError struct {
	Batch     int
	Processed int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("scoring batch %d failed after %d processed rows: %v", e.Batch, e.Processed, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
