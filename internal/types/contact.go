package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContactDraft is the in-progress contents of the contact form.
type ContactDraft struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" form:"phone"`
	Message string `json:"message" form:"message" validate:"required"`
}

// Validate validates the ContactDraft using the validator.
func (d *ContactDraft) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

// Normalize trims surrounding whitespace from every field.
func (d *ContactDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Message = strings.TrimSpace(d.Message)
}

// Clear empties the draft after a successful submission.
func (d *ContactDraft) Clear() {
	*d = ContactDraft{}
}

// IsEmpty reports whether no field has been filled in.
func (d ContactDraft) IsEmpty() bool {
	return d == ContactDraft{}
}
