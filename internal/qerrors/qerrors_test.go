package qerrors

import (
	"errors"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestClassification(t *testing.T) {
	netErr := &NetworkError{Op: "GET /courses", Err: errors.New("connection refused")}
	apiErr := &APIError{Status: http.StatusInternalServerError, Body: "boom"}
	valErr := NewValidationError(FieldError{Field: "name", Error: "this field is required"})

	tests := []struct {
		name       string
		err        error
		network    bool
		api        bool
		validation bool
	}{
		{name: "network", err: netErr, network: true},
		{name: "wrapped network", err: pkgerrors.Wrap(netErr, "loading courses"), network: true},
		{name: "api", err: apiErr, api: true},
		{name: "wrapped api", err: pkgerrors.Wrap(apiErr, "toggling"), api: true},
		{name: "validation", err: valErr, validation: true},
		{name: "sentinel", err: ErrCourseNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetwork(tt.err); got != tt.network {
				t.Errorf("IsNetwork() = %v, want %v", got, tt.network)
			}
			if got := IsAPI(tt.err); got != tt.api {
				t.Errorf("IsAPI() = %v, want %v", got, tt.api)
			}
			if got := IsValidation(tt.err); got != tt.validation {
				t.Errorf("IsValidation() = %v, want %v", got, tt.validation)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	err := pkgerrors.Wrap(&APIError{Status: 404, Body: "not found"}, "deleting")
	if got := StatusCode(err); got != 404 {
		t.Errorf("StatusCode() = %d, want 404", got)
	}
	if got := StatusCode(errors.New("other")); got != 0 {
		t.Errorf("StatusCode() = %d, want 0", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError(
		FieldError{Field: "name", Error: "this field is required"},
		FieldError{Field: "due_date", Error: "this field is required"},
	)
	want := "validation failed: name: this field is required, due_date: this field is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
