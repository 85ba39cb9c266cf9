// Package contact forwards contact-form drafts to an external form relay and classifies
// the result into exactly three user-visible outcomes.
package contact

// Kind is one of the three possible results of a submission.
type Kind int

const (
	// Success means the relay accepted the message.
	Success Kind = iota
	// Rejected means the relay was reached but reported an application-level failure.
	Rejected
	// Unreachable means the call itself failed (DNS, timeout, offline, undecodable reply).
	Unreachable
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	default:
		return "unreachable"
	}
}

// User-visible texts.
const (
	SuccessMessage       = "Your message has been sent successfully."
	GenericFailure       = "Submission failed."
	NetworkErrorMessage  = "Network error. Please try again later."
	InProgressMessage    = "Your message is already being sent."
	ValidationIncomplete = "Please fill in your name, email and message."
)

// Outcome is the result of one submission attempt.
type Outcome struct {
	Kind Kind
	// Message is the relay-provided text for Rejected outcomes; it may be empty.
	Message string
	// Err is the transport failure behind an Unreachable outcome.
	Err error
}

// Succeeded builds a Success outcome.
func Succeeded() Outcome {
	return Outcome{Kind: Success}
}

// RejectedWith builds a Rejected outcome carrying the relay's message.
func RejectedWith(message string) Outcome {
	return Outcome{Kind: Rejected, Message: message}
}

// UnreachableBecause builds an Unreachable outcome.
func UnreachableBecause(err error) Outcome {
	return Outcome{Kind: Unreachable, Err: err}
}

// UserMessage is the text shown in the result dialog.
func (o Outcome) UserMessage() string {
	switch o.Kind {
	case Success:
		return SuccessMessage
	case Rejected:
		if o.Message != "" {
			return o.Message
		}
		return GenericFailure
	default:
		return NetworkErrorMessage
	}
}

// Title is the heading of the result dialog.
func (o Outcome) Title() string {
	if o.Kind == Success {
		return "Success!"
	}
	return "Error!"
}

// KeepDraft reports whether the draft must be retained for resubmission.
func (o Outcome) KeepDraft() bool {
	return o.Kind != Success
}
