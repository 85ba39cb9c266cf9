// Package overlay keeps at most one full-screen overlay visible and suspends page scrolling
// while it is.
package overlay

import (
	"strings"
	"sync"

	"github.com/jonathan/portfolio-site/internal/navigation"
)

// Kind identifies which overlay, if any, is visible.
type Kind int

const (
	// None means the base page is visible and scrollable.
	None Kind = iota
	// Drawer is the mobile navigation drawer.
	Drawer
	// Modal is the resume preview modal.
	Modal
)

func (k Kind) String() string {
	switch k {
	case Drawer:
		return "drawer"
	case Modal:
		return "resume"
	default:
		return "none"
	}
}

// ParseKind maps a query value ("drawer", "menu", "resume", "modal") to a Kind.
func ParseKind(raw string) Kind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "drawer", "menu":
		return Drawer
	case "resume", "modal":
		return Modal
	default:
		return None
	}
}

// ScrollLock suspends and restores page-level scrolling.
// Unlock resets to the default style rather than a remembered one.
type ScrollLock interface {
	Lock()
	Unlock()
}

// EscapeKey is the key name that closes the resume modal.
const EscapeKey = "Escape"

// Controller owns the overlay state. Scroll is locked exactly when an overlay is open.
type Controller struct {
	mu      sync.Mutex
	current Kind
	lock    ScrollLock
}

// NewController creates a Controller with no overlay open. The lock is left untouched.
func NewController(lock ScrollLock) *Controller {
	return &Controller{lock: lock}
}

// Current returns the visible overlay.
func (c *Controller) Current() Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// IsOpen reports whether kind is the visible overlay.
func (c *Controller) IsOpen(kind Kind) bool {
	return kind != None && c.Current() == kind
}

// AnyOpen reports whether any overlay is visible.
func (c *Controller) AnyOpen() bool {
	return c.Current() != None
}

// Open shows kind, replacing any other visible overlay.
func (c *Controller) Open(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transition(kind)
}

// Close hides kind if it is the visible overlay. Closing anything else is a no-op.
func (c *Controller) Close(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if kind != None && c.current == kind {
		c.transition(None)
	}
}

// Toggle closes kind when it is visible and opens it otherwise.
func (c *Controller) Toggle(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == kind {
		c.transition(None)
		return
	}
	c.transition(kind)
}

// HandleKey closes the resume modal on Escape. Returns true when the key was consumed.
func (c *Controller) HandleKey(key string) bool {
	if key != EscapeKey {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != Modal {
		return false
	}
	c.transition(None)
	return true
}

// SelectNavTarget closes the drawer and moves the navigation highlight to id.
func (c *Controller) SelectNavTarget(id string, nav *navigation.State) bool {
	c.Close(Drawer)
	if nav == nil {
		return false
	}
	return nav.ScrollTo(id)
}

// Teardown closes whatever is open and always restores scrolling, even if nothing was open.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = None
	if c.lock != nil {
		c.lock.Unlock()
	}
}

// transition moves to next, touching the lock only on none<->open edges.
// Callers must hold c.mu.
func (c *Controller) transition(next Kind) {
	prev := c.current
	c.current = next
	if c.lock == nil {
		return
	}
	switch {
	case prev == None && next != None:
		c.lock.Lock()
	case prev != None && next == None:
		c.lock.Unlock()
	}
}
