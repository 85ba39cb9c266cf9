package contact

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRelay returns a fixed outcome and counts calls.
type stubRelay struct {
	outcome Outcome
	calls   atomic.Int32
	seen    []types.ContactDraft
	mu      sync.Mutex
}

func (s *stubRelay) Send(_ context.Context, d types.ContactDraft) Outcome {
	s.calls.Add(1)
	s.mu.Lock()
	s.seen = append(s.seen, d)
	s.mu.Unlock()
	return s.outcome
}

// blockingRelay holds every call until release is closed.
type blockingRelay struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newBlockingRelay() *blockingRelay {
	return &blockingRelay{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (b *blockingRelay) Send(context.Context, types.ContactDraft) Outcome {
	b.calls.Add(1)
	b.started <- struct{}{}
	<-b.release
	return Succeeded()
}

func TestForm_OutcomesAndDraftRetention(t *testing.T) {
	draft := types.ContactDraft{Name: "A", Email: "a@b.com", Message: "hi"}

	tests := []struct {
		name      string
		outcome   Outcome
		wantKind  Kind
		wantText  string
		wantDraft types.ContactDraft
	}{
		{
			name:      "success clears the draft",
			outcome:   Succeeded(),
			wantKind:  Success,
			wantText:  SuccessMessage,
			wantDraft: types.ContactDraft{},
		},
		{
			name:      "rejected keeps the draft",
			outcome:   RejectedWith("Invalid email"),
			wantKind:  Rejected,
			wantText:  "Invalid email",
			wantDraft: draft,
		},
		{
			name:      "unreachable keeps the draft",
			outcome:   UnreachableBecause(errors.New("dial tcp: no such host")),
			wantKind:  Unreachable,
			wantText:  NetworkErrorMessage,
			wantDraft: draft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := &stubRelay{outcome: tt.outcome}
			form := NewForm(relay)
			form.SetDraft(draft)

			outcome, err := form.Submit(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, outcome.Kind)
			assert.Equal(t, tt.wantText, outcome.UserMessage())
			assert.Equal(t, tt.wantDraft, form.Draft())
			assert.False(t, form.Submitting(), "in-flight flag is cleared on every path")
			assert.Equal(t, int32(1), relay.calls.Load())
		})
	}
}

func TestForm_RejectedScenarioLeavesFieldsUnchanged(t *testing.T) {
	relay := &stubRelay{outcome: RejectedWith("Invalid email")}
	form := NewForm(relay)
	require.NoError(t, form.SetField("name", "A"))
	require.NoError(t, form.SetField("email", "a@b.com"))
	require.NoError(t, form.SetField("message", "hi"))

	outcome, err := form.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Rejected, outcome.Kind)
	assert.Equal(t, "Invalid email", outcome.UserMessage())
	assert.Equal(t, types.ContactDraft{Name: "A", Email: "a@b.com", Message: "hi"}, form.Draft())
	assert.Equal(t, "", relay.seen[0].Phone)
}

func TestForm_ValidationBlocksSubmission(t *testing.T) {
	relay := &stubRelay{outcome: Succeeded()}
	form := NewForm(relay)
	require.NoError(t, form.SetField("name", "A"))

	_, err := form.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email", verr.Field)
	assert.Equal(t, int32(0), relay.calls.Load())
	assert.False(t, form.Submitting())
	assert.Equal(t, "A", form.Draft().Name)
}

func TestForm_ReentrancyGuard(t *testing.T) {
	relay := newBlockingRelay()
	form := NewForm(relay)
	form.SetDraft(types.ContactDraft{Name: "A", Email: "a@b.com", Message: "hi"})

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()

	<-relay.started
	assert.True(t, form.Submitting())

	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(relay.release)
	require.NoError(t, <-done)

	assert.Equal(t, int32(1), relay.calls.Load())
	assert.False(t, form.Submitting())
}

func TestForm_SetFieldUnknown(t *testing.T) {
	form := NewForm(&stubRelay{})
	assert.Error(t, form.SetField("company", "Acme"))
	assert.NoError(t, form.SetField("phone", "123"))
	assert.Equal(t, "123", form.Draft().Phone)
}
