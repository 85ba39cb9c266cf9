package contact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"

	"github.com/jonathan/portfolio-site/internal/types"
	"golang.org/x/sync/singleflight"
)

// Recorder persists submissions. status is the outcome kind, detail the user-visible text.
type Recorder interface {
	RecordContactMessage(ctx context.Context, draft types.ContactDraft, status, detail string) error
}

// Service is the server-side entry point for submissions arriving over HTTP.
type Service struct {
	relay    Relay
	recorder Recorder
	group    singleflight.Group
}

// NewService creates a Service. recorder may be nil.
func NewService(relay Relay, recorder Recorder) *Service {
	return &Service{relay: relay, recorder: recorder}
}

// Submit normalizes and validates the draft, then relays it. Identical drafts submitted
// concurrently share a single relay call.
func (s *Service) Submit(ctx context.Context, draft types.ContactDraft) (Outcome, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return Outcome{}, newValidationError(err)
	}

	// The relay call outlives a single caller's cancellation since others may share it.
	callCtx := context.WithoutCancel(ctx)
	v, _, shared := s.group.Do(fingerprint(draft), func() (any, error) {
		outcome := s.relay.Send(callCtx, draft)
		s.record(callCtx, draft, outcome)
		return outcome, nil
	})
	if shared {
		log.Printf("[contact] Duplicate submission from %s collapsed into one relay call", draft.Email)
	}
	return v.(Outcome), nil
}

func (s *Service) record(ctx context.Context, draft types.ContactDraft, outcome Outcome) {
	switch outcome.Kind {
	case Unreachable:
		log.Printf("[contact] Relay unreachable: %v", outcome.Err)
	case Rejected:
		log.Printf("[contact] Relay rejected submission: %s", outcome.UserMessage())
	}
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordContactMessage(ctx, draft, outcome.Kind.String(), outcome.UserMessage()); err != nil {
		log.Printf("[contact] Failed to record submission: %v", err)
	}
}

// fingerprint identifies a draft for duplicate suppression.
func fingerprint(d types.ContactDraft) string {
	h := sha256.New()
	for _, part := range []string{d.Name, d.Email, d.Phone, d.Message} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
