package model

import (
	"errors"
	"fmt"
)

// HeaderErrorCode categorizes header accessor failures.
type HeaderErrorCode string

const (
	// ErrCodeUnknownHeaderKind indicates a value that is not one of the
	// MappingHeader variants (including nil).
	ErrCodeUnknownHeaderKind HeaderErrorCode = "UNKNOWN_HEADER_KIND"

	// ErrCodeNoLocalIdentifier indicates a header kind that carries no local
	// identifier of its own (result attribute items, totals).
	ErrCodeNoLocalIdentifier HeaderErrorCode = "NO_LOCAL_IDENTIFIER"

	// ErrCodeNoIdentifier indicates a header kind that carries no stable
	// metadata identifier.
	ErrCodeNoIdentifier HeaderErrorCode = "NO_IDENTIFIER"
)

// HeaderError is returned when an accessor is asked for an identity the
// header cannot provide. It signals a malformed result structure and is not
// meant to be recovered from.
type HeaderError struct {
	Code    HeaderErrorCode
	Kind    HeaderKind
	Message string
}

// Error implements the error interface.
func (e *HeaderError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s (kind=%s)", e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newHeaderError(code HeaderErrorCode, h MappingHeader, msg string) *HeaderError {
	return &HeaderError{Code: code, Kind: Kind(h), Message: msg}
}

// IsUnknownHeaderKind reports whether err is a header error for an
// unrecognized header shape. Uses errors.As to handle wrapped errors.
func IsUnknownHeaderKind(err error) bool {
	return hasHeaderCode(err, ErrCodeUnknownHeaderKind)
}

// IsNoLocalIdentifier reports whether err is a missing-local-identifier error.
func IsNoLocalIdentifier(err error) bool {
	return hasHeaderCode(err, ErrCodeNoLocalIdentifier)
}

// IsNoIdentifier reports whether err is a missing-identifier error.
func IsNoIdentifier(err error) bool {
	return hasHeaderCode(err, ErrCodeNoIdentifier)
}

func hasHeaderCode(err error, code HeaderErrorCode) bool {
	var he *HeaderError
	if errors.As(err, &he) {
		return he.Code == code
	}
	return false
}
