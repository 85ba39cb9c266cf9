package navigation

// State is the navigation half of the page's UI state: the highlighted section.
// It is owned by a single UI session and is not safe for concurrent use.
type State struct {
	ids          []string
	active       string
	headerOffset int
}

// NewState creates a State over the given ordered section ids.
// With no ids it falls back to DefaultSectionIDs. The first id is active initially.
func NewState(ids ...string) *State {
	if len(ids) == 0 {
		ids = DefaultSectionIDs
	}
	owned := make([]string, len(ids))
	copy(owned, ids)
	return &State{
		ids:          owned,
		active:       owned[0],
		headerOffset: HeaderOffset,
	}
}

// WithHeaderOffset overrides the lookahead used when probing the scroll position.
func (s *State) WithHeaderOffset(offset int) *State {
	s.headerOffset = offset
	return s
}

// Active returns the currently highlighted section id.
func (s *State) Active() string {
	return s.active
}

// IDs returns the ordered section ids.
func (s *State) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// HeaderOffset returns the probe lookahead.
func (s *State) HeaderOffset() int {
	return s.headerOffset
}

// IsKnown reports whether id is one of the registered sections.
func (s *State) IsKnown(id string) bool {
	_, ok := ParseSection(id, s.ids)
	return ok
}

// Observe recomputes the active section from an absolute scroll offset and a layout snapshot.
// Sections are probed in registration order regardless of the snapshot's order; entries
// whose id is not registered are ignored. Returns the (possibly unchanged) active id.
func (s *State) Observe(scrollOffset int, layout []Section) string {
	byID := make(map[string]Section, len(layout))
	for _, sec := range layout {
		if _, seen := byID[sec.ID]; !seen {
			byID[sec.ID] = sec
		}
	}
	ordered := make([]Section, 0, len(s.ids))
	for _, id := range s.ids {
		if sec, ok := byID[id]; ok {
			ordered = append(ordered, sec)
		}
	}
	s.active = ResolveActiveSection(scrollOffset, ordered, s.headerOffset, s.active)
	return s.active
}

// ScrollTo highlights id immediately, ahead of the scroll events the jump produces.
// Unknown ids are ignored and false is returned.
func (s *State) ScrollTo(id string) bool {
	known, ok := ParseSection(id, s.ids)
	if !ok {
		return false
	}
	s.active = known
	return true
}
