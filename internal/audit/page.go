// Package audit checks a running portfolio site: it fetches server-rendered states over HTTP
// and drives a headless browser to confirm the section highlight follows scrolling.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for audit requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; PortfolioAudit/1.0)"

// maxPageBytes bounds how much of a page is read.
const maxPageBytes = 8 << 20

// Error represents an error while auditing a URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("audit error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("audit error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// PageState is the UI state a rendered page reports through its markup.
type PageState struct {
	// ActiveSection is the body's data-active-section.
	ActiveSection string
	// HighlightedLinks are the section ids of desktop nav links marked active.
	HighlightedLinks []string
	// Overlay is the body's data-overlay.
	Overlay string
	// HeaderOffset is the body's data-header-offset.
	HeaderOffset int
	// Sections is the declared section order from data-sections.
	Sections []string
	// ScrollLocked reports an overflow:hidden style on both html and body.
	ScrollLocked bool
	Theme        string
}

// ParsePageState extracts the UI state from page HTML.
func ParsePageState(html string) (*PageState, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return nil, fmt.Errorf("page has no body")
	}

	state := &PageState{
		ActiveSection: body.AttrOr("data-active-section", ""),
		Overlay:       body.AttrOr("data-overlay", ""),
		Theme:         doc.Find("html").AttrOr("data-theme", ""),
	}

	if raw := body.AttrOr("data-header-offset", ""); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid data-header-offset %q: %w", raw, err)
		}
		state.HeaderOffset = offset
	}
	if raw := body.AttrOr("data-sections", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &state.Sections); err != nil {
			return nil, fmt.Errorf("invalid data-sections: %w", err)
		}
	}

	doc.Find("[data-section-link].nav-link.active").Each(func(_ int, s *goquery.Selection) {
		state.HighlightedLinks = append(state.HighlightedLinks, s.AttrOr("data-section-link", ""))
	})

	state.ScrollLocked = hidesOverflow(doc.Find("html").AttrOr("style", "")) &&
		hidesOverflow(body.AttrOr("style", ""))

	return state, nil
}

// hidesOverflow reports whether an inline style sets overflow to hidden.
func hidesOverflow(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(name) == "overflow" && strings.TrimSpace(value) == "hidden" {
			return true
		}
	}
	return false
}

// Options configures page fetching.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// FetchPage retrieves the HTML of a page.
func FetchPage(ctx context.Context, pageURL string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: pageURL, Message: "invalid URL", Cause: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "failed to create request", Cause: err}
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", &Error{URL: pageURL, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: pageURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return string(body), nil
}

// withQuery returns base with the given query parameters replaced.
func withQuery(base string, params url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String(), nil
}
