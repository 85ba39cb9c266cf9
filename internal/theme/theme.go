// Package theme models the light/dark preference and its persistence in the host.
package theme

import (
	"net/http"
	"strings"
	"time"
)

// Preference is the active colour scheme.
type Preference string

const (
	Light Preference = "light"
	Dark  Preference = "dark"
)

// Default is used when nothing has been stored yet.
const Default = Light

// Parse maps a stored value to a Preference, falling back to Default.
func Parse(raw string) Preference {
	if Preference(strings.ToLower(strings.TrimSpace(raw))) == Dark {
		return Dark
	}
	return Default
}

// Toggle returns the opposite preference.
func (p Preference) Toggle() Preference {
	if p == Dark {
		return Light
	}
	return Dark
}

func (p Preference) String() string {
	return string(p)
}

// Store is the host-provided preference storage.
type Store interface {
	Get() Preference
	Set(Preference) error
}

// Flip reads the stored preference, writes its opposite and returns it.
func Flip(s Store) (Preference, error) {
	next := s.Get().Toggle()
	if err := s.Set(next); err != nil {
		return s.Get(), err
	}
	return next, nil
}

// CookieName is the cookie holding the preference.
const CookieName = "theme"

// cookieMaxAge keeps the preference across reloads for a year.
const cookieMaxAge = 365 * 24 * time.Hour

// CookieStore persists the preference in a cookie for one request/response pair.
type CookieStore struct {
	w http.ResponseWriter
	r *http.Request

	written *Preference
}

// NewCookieStore binds a Store to an HTTP exchange.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r}
}

// Get returns the preference set during this exchange, or the one sent by the client.
func (c *CookieStore) Get() Preference {
	if c.written != nil {
		return *c.written
	}
	if c.r == nil {
		return Default
	}
	cookie, err := c.r.Cookie(CookieName)
	if err != nil {
		return Default
	}
	return Parse(cookie.Value)
}

// Set writes the preference cookie.
func (c *CookieStore) Set(p Preference) error {
	p = Parse(string(p))
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookieName,
		Value:    p.String(),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
	c.written = &p
	return nil
}

// MemoryStore keeps the preference in memory. Useful for tests and the CLI.
type MemoryStore struct {
	value Preference
}

// Get returns the stored preference or Default.
func (m *MemoryStore) Get() Preference {
	if m.value == "" {
		return Default
	}
	return m.value
}

// Set stores p.
func (m *MemoryStore) Set(p Preference) error {
	m.value = Parse(string(p))
	return nil
}
