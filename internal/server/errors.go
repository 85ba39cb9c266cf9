// Package server provides the HTTP surface of the portfolio site: the page, the contact
// endpoints and the admin API over stored submissions.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/portfolio-site/internal/contact"
)

// ErrInvalidCredentials indicates a wrong admin password
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid password"
}

// ErrAdminDisabled indicates the admin API is not configured
type ErrAdminDisabled struct{}

func (e *ErrAdminDisabled) Error() string {
	return "admin API is not enabled"
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		credentials *ErrInvalidCredentials
		disabled    *ErrAdminDisabled
		notFound    *ErrNotFound
		validation  *ErrValidation
		draft       *contact.ValidationError
	)
	switch {
	case errors.As(err, &credentials):
		return http.StatusUnauthorized
	case errors.As(err, &disabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &draft):
		return http.StatusBadRequest
	case errors.Is(err, contact.ErrSubmissionInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
