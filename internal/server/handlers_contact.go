package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/jonathan/portfolio-site/internal/rendering"
	"github.com/jonathan/portfolio-site/internal/types"
)

// maxContactBody bounds the size of a submission body.
const maxContactBody = 64 << 10

// contactRedirect lands the browser on the contact section after a no-JS submission.
const contactRedirect = "/?section=contact#contact"

// outcomeInvalid is reported when the draft never reached the relay.
const outcomeInvalid = "invalid"

// ContactResponse is the JSON result of a submission.
type ContactResponse struct {
	Outcome string `json:"outcome"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// handleContactForm accepts the form-encoded submission of the no-JS page.
// The result dialog and, on failure, the draft are shown by the page after the redirect.
func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	if err := r.ParseForm(); err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "body", Message: "invalid form"})
		return
	}

	draft := types.ContactDraft{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Message: r.PostFormValue("message"),
	}

	outcome, err := s.contact.Submit(r.Context(), draft)

	var flash *rendering.Flash
	switch {
	case err == nil:
		flash = rendering.FlashFromOutcome(outcome)
		if !outcome.KeepDraft() {
			draft = types.ContactDraft{}
		}
	case isDraftInvalid(err):
		flash = &rendering.Flash{Title: "Error!", Message: contact.ValidationIncomplete}
	default:
		s.errorFromErr(w, err)
		return
	}

	setFlashCookie(w, s.flashes.put(flash, draft))
	http.Redirect(w, r, contactRedirect, http.StatusSeeOther)
}

// handleContactAPI accepts a JSON submission from the page script.
func (s *Server) handleContactAPI(w http.ResponseWriter, r *http.Request) {
	var draft types.ContactDraft
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody)).Decode(&draft); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	outcome, err := s.contact.Submit(r.Context(), draft)
	if err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			s.jsonResponse(w, http.StatusBadRequest, ContactResponse{
				Outcome: outcomeInvalid,
				Title:   "Error!",
				Message: contact.ValidationIncomplete,
				Field:   verr.Field,
			})
			return
		}
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, outcomeStatus(outcome), ContactResponse{
		Outcome: outcome.Kind.String(),
		Title:   outcome.Title(),
		Message: outcome.UserMessage(),
	})
}

// outcomeStatus maps a relay outcome to the HTTP status of the JSON response.
func outcomeStatus(o contact.Outcome) int {
	switch o.Kind {
	case contact.Success:
		return http.StatusOK
	case contact.Rejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func isDraftInvalid(err error) bool {
	var verr *contact.ValidationError
	return errors.As(err, &verr)
}
