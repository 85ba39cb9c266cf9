package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/jonathan/portfolio-site/internal/content"
	"github.com/jonathan/portfolio-site/internal/server/ratelimit"
	"github.com/jonathan/portfolio-site/internal/theme"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRelay returns a fixed outcome and records what it was sent.
type stubRelay struct {
	mu      sync.Mutex
	outcome contact.Outcome
	drafts  []types.ContactDraft
}

func (r *stubRelay) Send(_ context.Context, d types.ContactDraft) contact.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts = append(r.drafts, d)
	return r.outcome
}

func (r *stubRelay) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

// newTestServer builds a server over the built-in content with rate limiting disabled.
func newTestServer(t *testing.T, relay *stubRelay, opts ...func(*Config)) *Server {
	t.Helper()

	p, err := content.Default()
	require.NoError(t, err)

	cfg := Config{
		Port:      0,
		SiteURL:   "https://portfolio.example",
		Content:   content.NewStore(p, ""),
		Contact:   contact.NewService(relay, nil),
		RateLimit: &ratelimit.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func parseDoc(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{Contact: contact.NewService(&stubRelay{}, nil)})
	assert.Error(t, err)

	p, err := content.Default()
	require.NoError(t, err)
	_, err = New(Config{Content: content.NewStore(p, "")})
	assert.Error(t, err)
}

// TestHealthEndpoint tests the /health endpoint
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	w := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestPage_Default(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	w := do(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc := parseDoc(t, w)
	body := doc.Find("body")
	assert.Equal(t, "home", body.AttrOr("data-active-section", ""))
	assert.Equal(t, "none", body.AttrOr("data-overlay", ""))
	assert.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
	assert.Equal(t, 0, doc.Find("#contact-dialog").Length())
	assert.Equal(t, "https://portfolio.example", doc.Find("#share-button").AttrOr("data-share-url", ""))
}

func TestPage_QueryState(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	w := do(s, httptest.NewRequest(http.MethodGet, "/?section=skills&overlay=drawer", nil))
	require.Equal(t, http.StatusOK, w.Code)

	doc := parseDoc(t, w)
	body := doc.Find("body")
	assert.Equal(t, "skills", body.AttrOr("data-active-section", ""))
	assert.Equal(t, "drawer", body.AttrOr("data-overlay", ""))
	assert.Contains(t, body.AttrOr("style", ""), "overflow: hidden")
	assert.True(t, doc.Find("#drawer").HasClass("open"))
}

func TestPage_UnknownPathIs404(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	w := do(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPage_ThemeCookie(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: theme.CookieName, Value: "dark"})
	doc := parseDoc(t, do(s, req))

	assert.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))
	assert.Equal(t, "light", doc.Find("#theme-toggle").AttrOr("data-next-theme", ""))
}

func TestTheme_FlipsCookieAndRedirects(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.Header.Set("Referer", "http://example.com/?section=projects")
	req.Host = "example.com"
	w := do(s, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?section=projects", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, theme.CookieName, cookies[0].Name)
	assert.Equal(t, "dark", cookies[0].Value)
}

func TestTheme_JSON(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: theme.CookieName, Value: "dark"})
	w := do(s, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"light"}`, w.Body.String())
}

func TestLocalReferer(t *testing.T) {
	tests := []struct {
		name    string
		referer string
		want    string
	}{
		{"empty", "", "/"},
		{"same host", "http://example.com/?overlay=resume", "/?overlay=resume"},
		{"other host", "http://evil.test/phish", "/"},
		{"relative", "/?section=contact#contact", "/?section=contact#contact"},
		{"protocol relative", "//evil.test/x", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/theme", nil)
			req.Host = "example.com"
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			assert.Equal(t, tt.want, localReferer(req))
		})
	}
}

func TestResume_ServedInline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))

	s := newTestServer(t, &stubRelay{}, func(c *Config) { c.ResumeFile = path })

	w := do(s, httptest.NewRequest(http.MethodGet, "/resume.pdf", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "inline"))
	assert.Equal(t, "%PDF-1.4 test", w.Body.String())
}

func TestResume_Missing(t *testing.T) {
	s := newTestServer(t, &stubRelay{}, func(c *Config) { c.ResumeFile = filepath.Join(t.TempDir(), "missing.pdf") })

	w := do(s, httptest.NewRequest(http.MethodGet, "/resume.pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	s = newTestServer(t, &stubRelay{})
	w = do(s, httptest.NewRequest(http.MethodGet, "/resume.pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	w := do(s, httptest.NewRequest(http.MethodGet, "/static/site.js", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/contact")

	w = do(s, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSectionsEndpoint(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	w := do(s, httptest.NewRequest(http.MethodGet, "/api/sections", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp SectionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"home", "projects", "internship", "skills", "certificates", "education", "contact"}, resp.Sections)
	assert.Equal(t, 100, resp.HeaderOffset)
}

func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	w := do(s, httptest.NewRequest(http.MethodGet, "/api/sections", nil))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), "pages carry no CORS headers")
}

func TestCORSMiddleware_OPTIONS(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	w := do(s, httptest.NewRequest(http.MethodOptions, "/api/contact", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimit_ContactEndpoint(t *testing.T) {
	relay := &stubRelay{outcome: contact.Succeeded()}
	s := newTestServer(t, relay, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  100,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/api/contact", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
			},
		}
	})

	body := `{"name":"A","email":"a@b.com","message":"hi"}`
	w := do(s, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = do(s, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, 1, relay.calls(), "limited request must not reach the relay")

	// Page views use the default tier.
	w = do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractClientID(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	assert.Equal(t, "203.0.113.7", s.extractClientID(req))

	req.RemoteAddr = "not-an-addr"
	assert.Equal(t, "not-an-addr", s.extractClientID(req))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
