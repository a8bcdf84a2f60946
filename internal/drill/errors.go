package drill

import (
	"errors"
	"fmt"
)

// DrillErrorCode classifies drill dispatch errors.
type DrillErrorCode string

const (
	// ErrCodeUnknownVisType means the visualization type has no clickable
	// element.
	ErrCodeUnknownVisType DrillErrorCode = "UNKNOWN_VIS_TYPE"

	// ErrCodeNoPoint means a chart click carried no point.
	ErrCodeNoPoint DrillErrorCode = "NO_POINT"
)

// DrillError is returned when a click cannot be turned into a drill event.
type DrillError struct {
	Code    DrillErrorCode
	VisType string
	Message string
}

func (e *DrillError) Error() string {
	return fmt.Sprintf("%s: %s (type=%q)", e.Code, e.Message, e.VisType)
}

func newUnknownVisType(visType string) *DrillError {
	return &DrillError{Code: ErrCodeUnknownVisType, VisType: visType, Message: "unknown visualization type"}
}

// IsUnknownVisType reports whether err is an unknown visualization type.
func IsUnknownVisType(err error) bool {
	var de *DrillError
	return errors.As(err, &de) && de.Code == ErrCodeUnknownVisType
}
