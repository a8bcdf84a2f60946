package execution

import (
	"errors"
	"fmt"
	"strings"
)

// ChainErrorCode categorizes facade construction failures.
type ChainErrorCode string

const (
	// ErrCodeDuplicateLocalID indicates two definitions (or two descriptors)
	// share a local identifier.
	ErrCodeDuplicateLocalID ChainErrorCode = "DUPLICATE_LOCAL_ID"

	// ErrCodeCycleDetected indicates a measure reaches itself through its
	// derived master or arithmetic operands.
	ErrCodeCycleDetected ChainErrorCode = "CYCLE_DETECTED"

	// ErrCodeInvalidDocument indicates a facade document that cannot be
	// decoded.
	ErrCodeInvalidDocument ChainErrorCode = "INVALID_DOCUMENT"
)

// ChainError reports an execution definition that cannot back a Facade.
type ChainError struct {
	Code    ChainErrorCode
	Message string

	// LocalID is the offending local identifier, when there is one.
	LocalID string

	// Path is the cycle path for ErrCodeCycleDetected: ["m1", "m2", "m1"].
	Path []string
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	switch {
	case len(e.Path) > 0:
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, strings.Join(e.Path, " -> "))
	case e.LocalID != "":
		return fmt.Sprintf("%s: %s (localId=%s)", e.Code, e.Message, e.LocalID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsCycleError reports whether err is a measure cycle error.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	var ce *ChainError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeCycleDetected
	}
	return false
}

// IsDuplicateError reports whether err is a duplicate local identifier error.
func IsDuplicateError(err error) bool {
	var ce *ChainError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeDuplicateLocalID
	}
	return false
}
