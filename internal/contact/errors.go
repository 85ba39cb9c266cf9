package contact

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrSubmissionInProgress is returned when Submit is called while a previous call is pending.
var ErrSubmissionInProgress = errors.New("submission already in progress")

// ValidationError reports a draft that is not ready to be sent.
type ValidationError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Tag)
}

// newValidationError converts validator output into a ValidationError naming the first field.
func newValidationError(err error) *ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Tag: verrs[0].Tag()}
	}
	return &ValidationError{Field: "draft", Tag: "invalid"}
}

// RelayError represents a failure talking to the relay endpoint.
type RelayError struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *RelayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("relay error for %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("relay error for %s: %s", e.Endpoint, e.Message)
}

func (e *RelayError) Unwrap() error {
	return e.Cause
}
