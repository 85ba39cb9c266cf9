package db

import (
	"time"

	"github.com/google/uuid"
)

// Contact message statuses, matching the relay outcome kinds
const (
	StatusSuccess     = "success"
	StatusRejected    = "rejected"
	StatusUnreachable = "unreachable"
)

// ValidStatuses lists every status a contact message may carry
var ValidStatuses = []string{StatusSuccess, StatusRejected, StatusUnreachable}

// IsValidStatus reports whether s is a known status
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ContactMessage represents a stored contact form submission
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactMessageFilters holds optional filters for listing contact messages
type ContactMessageFilters struct {
	Status string
	Email  string
	Limit  int
	Offset int
}

// DefaultListLimit caps list queries when no limit is given
const DefaultListLimit = 50

// MaxListLimit is the largest page a caller may request
const MaxListLimit = 200

// normalize applies the paging defaults
func (f ContactMessageFilters) normalize() ContactMessageFilters {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
