package overlay

import "sync"

// OverflowHidden is the style value that suspends scrolling.
const OverflowHidden = "hidden"

// StyleLock is a ScrollLock that records the overflow style of the root and body elements.
// The zero value is unlocked. Renderers read Root and Body to emit inline styles.
type StyleLock struct {
	mu   sync.Mutex
	root string
	body string
}

// Lock hides overflow on both the root element and the body; some browsers need both.
func (l *StyleLock) Lock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root = OverflowHidden
	l.body = OverflowHidden
}

// Unlock resets both elements to the default (empty) overflow style.
func (l *StyleLock) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root = ""
	l.body = ""
}

// Root returns the overflow style of the root element.
func (l *StyleLock) Root() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.root
}

// Body returns the overflow style of the body element.
func (l *StyleLock) Body() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.body
}

// Locked reports whether scrolling is suspended.
func (l *StyleLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.root == OverflowHidden || l.body == OverflowHidden
}
