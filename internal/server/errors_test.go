package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/stretchr/testify/assert"
)

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "invalid password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "contact message", ID: "42"}
	assert.Equal(t, "contact message not found: 42", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"ErrInvalidCredentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"ErrAdminDisabled", &ErrAdminDisabled{}, http.StatusServiceUnavailable},
		{"ErrNotFound", &ErrNotFound{Resource: "x", ID: "y"}, http.StatusNotFound},
		{"ErrValidation", &ErrValidation{Field: "f", Message: "m"}, http.StatusBadRequest},
		{"draft validation", &contact.ValidationError{Field: "Email", Tag: "email"}, http.StatusBadRequest},
		{"wrapped draft validation", fmt.Errorf("submit: %w", &contact.ValidationError{Field: "Name", Tag: "required"}), http.StatusBadRequest},
		{"submission in progress", contact.ErrSubmissionInProgress, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
