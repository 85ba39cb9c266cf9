package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-site/internal/rendering"
	"github.com/jonathan/portfolio-site/internal/types"
)

// flashCookie carries the id of a pending result dialog across the post/redirect/get hop.
const flashCookie = "contact_flash"

// flashTTL bounds how long a result waits for the redirected page view.
const flashTTL = 2 * time.Minute

type flashEntry struct {
	flash   *rendering.Flash
	draft   types.ContactDraft
	expires time.Time
}

// flashStore holds contact results between the form POST and the page GET.
// Drafts stay on the server so the message body never travels in a cookie.
type flashStore struct {
	mu      sync.Mutex
	entries map[string]flashEntry
	ttl     time.Duration
	now     func() time.Time
}

func newFlashStore(ttl time.Duration) *flashStore {
	return &flashStore{
		entries: make(map[string]flashEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// put stores a result and returns its id. Expired entries are swept on every put.
func (f *flashStore) put(flash *rendering.Flash, draft types.ContactDraft) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	for id, e := range f.entries {
		if now.After(e.expires) {
			delete(f.entries, id)
		}
	}

	id := uuid.NewString()
	f.entries[id] = flashEntry{flash: flash, draft: draft, expires: now.Add(f.ttl)}
	return id
}

// take returns and forgets the result stored under id.
func (f *flashStore) take(id string) (*rendering.Flash, types.ContactDraft, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[id]
	if !ok {
		return nil, types.ContactDraft{}, false
	}
	delete(f.entries, id)
	if f.now().After(e.expires) {
		return nil, types.ContactDraft{}, false
	}
	return e.flash, e.draft, true
}

func (f *flashStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func setFlashCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearFlashCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
