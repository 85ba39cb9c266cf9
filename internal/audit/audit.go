package audit

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jonathan/portfolio-site/internal/navigation"
)

// Check is one observation compared against the expected state.
type Check struct {
	Name     string `json:"name"`
	Offset   int    `json:"offset,omitempty"`
	Expected string `json:"expected"`
	Observed string `json:"observed"`
	OK       bool   `json:"ok"`
}

// Report collects the checks of one audit run.
type Report struct {
	URL          string               `json:"url"`
	HeaderOffset int                  `json:"header_offset"`
	Sections     []navigation.Section `json:"sections,omitempty"`
	Checks       []Check              `json:"checks"`
}

// Passed reports whether every check succeeded.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Failures returns the failed checks.
func (r *Report) Failures() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.OK {
			out = append(out, c)
		}
	}
	return out
}

func (r *Report) add(name string, offset int, expected, observed string) {
	r.Checks = append(r.Checks, Check{
		Name:     name,
		Offset:   offset,
		Expected: expected,
		Observed: observed,
		OK:       expected == observed,
	})
}

// ServerRendered fetches the page once per section and once per overlay and checks that
// the server rendered the requested highlight, overlay and scroll lock.
func ServerRendered(ctx context.Context, siteURL string, opts *Options) (*Report, error) {
	html, err := FetchPage(ctx, siteURL, opts)
	if err != nil {
		return nil, err
	}
	base, err := ParsePageState(html)
	if err != nil {
		return nil, &Error{URL: siteURL, Message: "unreadable page", Cause: err}
	}

	report := &Report{URL: siteURL, HeaderOffset: base.HeaderOffset}
	if len(base.Sections) == 0 {
		return nil, &Error{URL: siteURL, Message: "page declares no sections"}
	}
	report.add("default section", 0, base.Sections[0], base.ActiveSection)
	report.add("default overlay", 0, "none", base.Overlay)

	for _, id := range base.Sections {
		state, err := fetchState(ctx, siteURL, url.Values{"section": {id}}, opts)
		if err != nil {
			return nil, err
		}
		report.add("section "+id, 0, id, state.ActiveSection)
		report.add("nav highlight "+id, 0, id, single(state.HighlightedLinks))
	}

	for _, kind := range []string{"drawer", "resume"} {
		state, err := fetchState(ctx, siteURL, url.Values{"overlay": {kind}}, opts)
		if err != nil {
			return nil, err
		}
		report.add("overlay "+kind, 0, kind, state.Overlay)
		report.add("scroll lock "+kind, 0, "locked", lockLabel(state.ScrollLocked))
	}

	return report, nil
}

func fetchState(ctx context.Context, siteURL string, params url.Values, opts *Options) (*PageState, error) {
	target, err := withQuery(siteURL, params)
	if err != nil {
		return nil, &Error{URL: siteURL, Message: "invalid URL", Cause: err}
	}
	html, err := FetchPage(ctx, target, opts)
	if err != nil {
		return nil, err
	}
	state, err := ParsePageState(html)
	if err != nil {
		return nil, &Error{URL: target, Message: "unreadable page", Cause: err}
	}
	return state, nil
}

// single renders a highlight list as one id, or a marker when zero or several are active.
func single(ids []string) string {
	switch len(ids) {
	case 0:
		return "(none)"
	case 1:
		return ids[0]
	default:
		return fmt.Sprintf("%v", ids)
	}
}

func lockLabel(locked bool) string {
	if locked {
		return "locked"
	}
	return "unlocked"
}

// Driver controls a browser tab showing the site.
type Driver interface {
	// Layout returns the header offset and the measured sections in declaration order.
	Layout(ctx context.Context) (int, []navigation.Section, error)
	// ScrollTo scrolls the window and returns the offset actually reached (the browser clamps
	// at the end of the document) and the page HTML once scroll handlers have run.
	ScrollTo(ctx context.Context, offset int) (int, string, error)
}

// DefaultOffsets probes each section at its top edge, its middle, and one pixel before
// the next section, all measured from the window top.
func DefaultOffsets(sections []navigation.Section, headerOffset int) []int {
	var offsets []int
	for _, s := range sections {
		for _, probe := range []int{s.Top, s.Top + s.Height/2, s.Top + s.Height - 1} {
			if offset := probe - headerOffset; offset >= 0 {
				offsets = append(offsets, offset)
			}
		}
	}
	return offsets
}

// Scroll walks the given offsets in order and checks the highlighted section after each
// scroll against ResolveActiveSection fed with the same history.
func Scroll(ctx context.Context, d Driver, siteURL string, offsets []int) (*Report, error) {
	headerOffset, sections, err := d.Layout(ctx)
	if err != nil {
		return nil, &Error{URL: siteURL, Message: "failed to measure sections", Cause: err}
	}
	if len(sections) == 0 {
		return nil, &Error{URL: siteURL, Message: "page declares no sections"}
	}
	if len(offsets) == 0 {
		offsets = DefaultOffsets(sections, headerOffset)
	}

	report := &Report{URL: siteURL, HeaderOffset: headerOffset, Sections: sections}

	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	expected := navigation.NewState(ids...).WithHeaderOffset(headerOffset)

	for _, offset := range offsets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		reached, html, err := d.ScrollTo(ctx, offset)
		if err != nil {
			return report, &Error{URL: siteURL, Message: fmt.Sprintf("failed to scroll to %d", offset), Cause: err}
		}
		state, err := ParsePageState(html)
		if err != nil {
			return report, &Error{URL: siteURL, Message: "unreadable page", Cause: err}
		}

		want := expected.Observe(reached, sections)
		report.add("scroll", reached, want, state.ActiveSection)
		report.add("nav highlight", reached, want, single(state.HighlightedLinks))
	}

	return report, nil
}
