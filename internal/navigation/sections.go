// Package navigation tracks which page section is active for navigation highlighting.
package navigation

import "strings"

// HeaderOffset compensates for the fixed top navigation bar when probing the scroll position.
const HeaderOffset = 100

// Section identifiers in page order.
const (
	SectionHome         = "home"
	SectionProjects     = "projects"
	SectionInternship   = "internship"
	SectionSkills       = "skills"
	SectionCertificates = "certificates"
	SectionEducation    = "education"
	SectionContact      = "contact"
)

// DefaultSectionIDs is the fixed, ordered set of sections rendered on the page.
var DefaultSectionIDs = []string{
	SectionHome,
	SectionProjects,
	SectionInternship,
	SectionSkills,
	SectionCertificates,
	SectionEducation,
	SectionContact,
}

// Section is a measured, vertically stacked region of the page.
type Section struct {
	ID     string `json:"id"`
	Top    int    `json:"top"`
	Height int    `json:"height"`
}

// Contains reports whether probe falls inside [Top, Top+Height).
func (s Section) Contains(probe int) bool {
	return probe >= s.Top && probe < s.Top+s.Height
}

// ResolveActiveSection returns the first section containing scrollOffset+headerOffset.
// When nothing matches (above the first section or in a gap) current is returned unchanged.
func ResolveActiveSection(scrollOffset int, sections []Section, headerOffset int, current string) string {
	probe := scrollOffset + headerOffset
	for _, s := range sections {
		if s.Contains(probe) {
			return s.ID
		}
	}
	return current
}

// ParseSection maps a raw query or fragment value to a known section id.
// The second result is false when raw names no section in ids.
func ParseSection(raw string, ids []string) (string, bool) {
	id := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "#")))
	for _, known := range ids {
		if id == known {
			return known, true
		}
	}
	return "", false
}
