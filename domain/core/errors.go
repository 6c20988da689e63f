package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors
	ErrInvalidWidth       = errors.New("bit width outside supported range")
	ErrInvalidSampleCount = errors.New("sample count outside supported range")
	ErrEmptySampleSet     = errors.New("sample set is empty")
	ErrTableMismatch      = errors.New("frequency table does not match sample set")

	// Source errors
	ErrSourceFailure = errors.New("bit source failed")

	// Lookup errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)
)

// NewWidthError reports an out-of-range width with its bounds
func NewWidthError(width, min, max int) error {
	return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidWidth, width, min, max)
}

// NewSampleCountError reports an out-of-range sample count
func NewSampleCountError(count, min, max int) error {
	return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidSampleCount, count, min, max)
}

// NewSourceError wraps a bit-source failure so the run aborts as a whole
func NewSourceError(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceFailure, source, err)
}

// IsInvalidInput reports whether err is any input-validation error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidWidth) ||
		errors.Is(err, ErrInvalidSampleCount) ||
		errors.Is(err, ErrEmptySampleSet) ||
		errors.Is(err, ErrTableMismatch)
}

// IsSourceFailure reports whether err originated in the bit source
func IsSourceFailure(err error) bool {
	return errors.Is(err, ErrSourceFailure)
}

// IsNotFoundError reports whether err is a lookup miss
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
