package qerrors

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

var (
	// Course errors
	ErrCourseNotFound = errors.New("course not found")

	// Assignment errors
	ErrAssignmentNotFound = errors.New("assignment not found")

	// Request errors
	ErrInvalidID     = errors.New("the provided id is not valid")
	ErrEmptyResponse = errors.New("the server returned no body")

	// Signal errors
	ErrSignalClosed = errors.New("change signal closed")
)

// NetworkError is a transport-level failure: no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the remote API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, body)
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when a required local field is missing. It is raised before
// any network call is issued.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(flds ...FieldError) error {
	return &ValidationError{Fields: flds}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(pkgerrors.Cause(err), &ne) || errors.As(err, &ne)
}

func IsAPI(err error) bool {
	var ae *APIError
	return errors.As(pkgerrors.Cause(err), &ae) || errors.As(err, &ae)
}

// StatusCode returns the HTTP status carried by an APIError, or 0.
func StatusCode(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(pkgerrors.Cause(err), &ve) || errors.As(err, &ve)
}
