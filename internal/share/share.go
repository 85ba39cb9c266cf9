// Package share shares the portfolio link through a native share capability, falling back
// to the clipboard.
package share

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Messages shown to the user.
const (
	CopiedMessage = "Portfolio link copied to clipboard!"
	FailedMessage = "Could not share or copy the portfolio link."
)

// Data is the payload offered to the native share capability.
type Data struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Sharer is the host's native share capability.
type Sharer interface {
	// CanShare reports whether data can be shared natively.
	CanShare(data Data) bool
	Share(ctx context.Context, data Data) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(message string)
}

// Result says how the link ended up being shared.
type Result int

const (
	// Shared means the native share capability accepted the link.
	Shared Result = iota
	// Copied means the link was copied to the clipboard instead.
	Copied
	// Failed means neither path worked.
	Failed
)

func (r Result) String() string {
	switch r {
	case Shared:
		return "shared"
	case Copied:
		return "copied"
	default:
		return "failed"
	}
}

// ErrUnavailable is reported when no native share capability exists.
var ErrUnavailable = errors.New("native share unavailable")

// Error is returned when both sharing and the clipboard fallback fail.
type Error struct {
	ShareErr     error
	ClipboardErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("share failed: %v; clipboard fallback failed: %v", e.ShareErr, e.ClipboardErr)
}

func (e *Error) Unwrap() error {
	return e.ClipboardErr
}

// Service shares links using the configured collaborators. Sharer and Notifier may be nil.
type Service struct {
	Sharer    Sharer
	Clipboard Clipboard
	Notifier  Notifier
}

// Share offers data natively when possible; otherwise, or when that fails, it copies
// data.URL to the clipboard and notifies the user. A clipboard failure is logged and
// surfaced as a final failure notice.
func (s *Service) Share(ctx context.Context, data Data) (Result, error) {
	shareErr := ErrUnavailable
	if s.Sharer != nil && s.Sharer.CanShare(data) {
		shareErr = s.Sharer.Share(ctx, data)
		if shareErr == nil {
			return Shared, nil
		}
	}

	if s.Clipboard == nil {
		return s.fail(shareErr, errors.New("clipboard unavailable"))
	}
	if err := s.Clipboard.WriteText(data.URL); err != nil {
		return s.fail(shareErr, err)
	}

	s.notify(CopiedMessage)
	return Copied, nil
}

func (s *Service) fail(shareErr, clipErr error) (Result, error) {
	err := &Error{ShareErr: shareErr, ClipboardErr: clipErr}
	log.Printf("[share] Failed to share or copy link: %v", err)
	s.notify(FailedMessage)
	return Failed, err
}

func (s *Service) notify(msg string) {
	if s.Notifier != nil {
		s.Notifier.Notify(msg)
	}
}

// ErrClipboardUnsupported is reported when the platform has no clipboard utility.
var ErrClipboardUnsupported = errors.New("clipboard unsupported on this platform")
