package contact

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/portfolio-site/internal/types"
)

// Form is the client-side contact form: the draft plus the in-flight guard.
type Form struct {
	relay Relay

	mu       sync.Mutex
	draft    types.ContactDraft
	inFlight bool
}

// NewForm creates a Form with an empty draft.
func NewForm(relay Relay) *Form {
	return &Form{relay: relay}
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() types.ContactDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetDraft replaces the whole draft.
func (f *Form) SetDraft(d types.ContactDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

// SetField updates one field by its form name (name, email, phone, message).
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case "name":
		f.draft.Name = value
	case "email":
		f.draft.Email = value
	case "phone":
		f.draft.Phone = value
	case "message":
		f.draft.Message = value
	default:
		return fmt.Errorf("unknown contact field %q", name)
	}
	return nil
}

// Submitting reports whether a submission is outstanding.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Submit sends the draft once. While a call is outstanding further calls fail with
// ErrSubmissionInProgress and issue no request. An incomplete draft fails with a
// *ValidationError before anything is sent. The draft is cleared only on Success.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return Outcome{}, ErrSubmissionInProgress
	}
	snapshot := f.draft
	if err := snapshot.Validate(); err != nil {
		f.mu.Unlock()
		return Outcome{}, newValidationError(err)
	}
	f.inFlight = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	outcome := f.relay.Send(ctx, snapshot)
	if outcome.Kind == Success {
		f.mu.Lock()
		f.draft.Clear()
		f.mu.Unlock()
	}
	return outcome, nil
}
