package audit

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/jonathan/portfolio-site/internal/content"
	"github.com/jonathan/portfolio-site/internal/navigation"
	"github.com/jonathan/portfolio-site/internal/rendering"
	"github.com/jonathan/portfolio-site/internal/server"
	"github.com/jonathan/portfolio-site/internal/server/ratelimit"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderPage(t *testing.T, req rendering.PageRequest) string {
	t.Helper()
	r, err := rendering.New()
	require.NoError(t, err)
	p, err := content.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, p, req))
	return buf.String()
}

func TestParsePageState(t *testing.T) {
	state, err := ParsePageState(renderPage(t, rendering.PageRequest{Section: "skills", Overlay: "resume", Theme: "dark"}))
	require.NoError(t, err)

	assert.Equal(t, "skills", state.ActiveSection)
	assert.Equal(t, []string{"skills"}, state.HighlightedLinks)
	assert.Equal(t, "resume", state.Overlay)
	assert.Equal(t, navigation.HeaderOffset, state.HeaderOffset)
	assert.Equal(t, navigation.DefaultSectionIDs, state.Sections)
	assert.True(t, state.ScrollLocked)
	assert.Equal(t, "dark", state.Theme)
}

func TestParsePageState_Unlocked(t *testing.T) {
	state, err := ParsePageState(renderPage(t, rendering.PageRequest{}))
	require.NoError(t, err)

	assert.Equal(t, "home", state.ActiveSection)
	assert.Equal(t, "none", state.Overlay)
	assert.False(t, state.ScrollLocked)
}

func TestParsePageState_BadAttributes(t *testing.T) {
	_, err := ParsePageState(`<html><body data-header-offset="tall"></body></html>`)
	assert.Error(t, err)

	_, err = ParsePageState(`<html><body data-sections="{"></body></html>`)
	assert.Error(t, err)
}

func TestHidesOverflow(t *testing.T) {
	assert.True(t, hidesOverflow("overflow: hidden"))
	assert.True(t, hidesOverflow("color: red; overflow:hidden;"))
	assert.False(t, hidesOverflow("overflow-x: hidden"))
	assert.False(t, hidesOverflow(""))
}

func TestFetchPage_Errors(t *testing.T) {
	_, err := FetchPage(context.Background(), "not a url", nil)
	var auditErr *Error
	require.ErrorAs(t, err, &auditErr)
	assert.Contains(t, err.Error(), "invalid URL")

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err = FetchPage(context.Background(), srv.URL, nil)
	require.ErrorAs(t, err, &auditErr)
	assert.Contains(t, err.Error(), "404")
}

type okRelay struct{}

func (okRelay) Send(context.Context, types.ContactDraft) contact.Outcome { return contact.Succeeded() }

func TestServerRendered(t *testing.T) {
	p, err := content.Default()
	require.NoError(t, err)
	s, err := server.New(server.Config{
		Content:   content.NewStore(p, ""),
		Contact:   contact.NewService(okRelay{}, nil),
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	report, err := ServerRendered(context.Background(), srv.URL+"/", nil)
	require.NoError(t, err)

	assert.True(t, report.Passed(), "failures: %+v", report.Failures())
	// default + per section + per overlay
	assert.Len(t, report.Checks, 2+2*len(navigation.DefaultSectionIDs)+2*2)
}

// fakeBrowser emulates the page script over a fixed layout.
type fakeBrowser struct {
	t            *testing.T
	headerOffset int
	sections     []navigation.Section
	maxScroll    int
	active       string
	// stuck makes the highlight ignore scrolling.
	stuck bool
}

func (f *fakeBrowser) Layout(context.Context) (int, []navigation.Section, error) {
	return f.headerOffset, f.sections, nil
}

func (f *fakeBrowser) ScrollTo(_ context.Context, offset int) (int, string, error) {
	if offset > f.maxScroll {
		offset = f.maxScroll
	}
	if !f.stuck {
		probe := offset + f.headerOffset
		for _, s := range f.sections {
			if probe >= s.Top && probe < s.Top+s.Height {
				f.active = s.ID
				break
			}
		}
	}
	return offset, renderPage(f.t, rendering.PageRequest{Section: f.active}), nil
}

func layoutWithGap() []navigation.Section {
	return []navigation.Section{
		{ID: "home", Top: 0, Height: 800},
		{ID: "projects", Top: 800, Height: 1200},
		{ID: "internship", Top: 2000, Height: 600},
		{ID: "skills", Top: 2700, Height: 500}, // 100px gap before skills
		{ID: "certificates", Top: 3200, Height: 900},
		{ID: "education", Top: 4100, Height: 500},
		{ID: "contact", Top: 4600, Height: 700},
	}
}

func TestScroll_MatchingBrowserPasses(t *testing.T) {
	b := &fakeBrowser{t: t, headerOffset: 100, sections: layoutWithGap(), maxScroll: 4500, active: "home"}

	// 2550 probes the gap and must keep internship.
	report, err := Scroll(context.Background(), b, "http://site", []int{0, 1000, 2100, 2550, 2650, 9999})
	require.NoError(t, err)

	assert.True(t, report.Passed(), "failures: %+v", report.Failures())
	require.Len(t, report.Checks, 12)
	assert.Equal(t, "internship", report.Checks[6].Expected)
	assert.Equal(t, "skills", report.Checks[8].Expected)
	assert.Equal(t, 4500, report.Checks[10].Offset, "clamped offset is reported")
	assert.Equal(t, "contact", report.Checks[10].Expected)
}

func TestScroll_DefaultOffsets(t *testing.T) {
	b := &fakeBrowser{t: t, headerOffset: 100, sections: layoutWithGap(), maxScroll: 1 << 20, active: "home"}

	report, err := Scroll(context.Background(), b, "http://site", nil)
	require.NoError(t, err)

	assert.True(t, report.Passed(), "failures: %+v", report.Failures())
	assert.Len(t, report.Checks, 2*len(DefaultOffsets(layoutWithGap(), 100)))
}

func TestScroll_StuckHighlightFails(t *testing.T) {
	b := &fakeBrowser{t: t, headerOffset: 100, sections: layoutWithGap(), maxScroll: 4500, active: "home", stuck: true}

	report, err := Scroll(context.Background(), b, "http://site", []int{0, 1000})
	require.NoError(t, err)

	assert.False(t, report.Passed())
	failures := report.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "projects", failures[0].Expected)
	assert.Equal(t, "home", failures[0].Observed)
}

type brokenBrowser struct{}

func (brokenBrowser) Layout(context.Context) (int, []navigation.Section, error) {
	return 0, nil, errors.New("devtools closed")
}

func (brokenBrowser) ScrollTo(context.Context, int) (int, string, error) {
	return 0, "", errors.New("unreachable")
}

func TestScroll_LayoutError(t *testing.T) {
	_, err := Scroll(context.Background(), brokenBrowser{}, "http://site", nil)

	var auditErr *Error
	require.ErrorAs(t, err, &auditErr)
	assert.Contains(t, err.Error(), "devtools closed")
}

func TestDefaultOffsets(t *testing.T) {
	offsets := DefaultOffsets([]navigation.Section{{ID: "a", Top: 0, Height: 400}, {ID: "b", Top: 400, Height: 200}}, 100)
	// a: top edge is above the window, so only middle and last pixel
	assert.Equal(t, []int{100, 299, 300, 400, 499}, offsets)
}
