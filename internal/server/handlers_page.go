package server

import (
	"bytes"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/jonathan/portfolio-site/internal/navigation"
	"github.com/jonathan/portfolio-site/internal/rendering"
	"github.com/jonathan/portfolio-site/internal/theme"
)

// SectionsResponse describes the page layout for the page script.
type SectionsResponse struct {
	Sections     []string `json:"sections"`
	HeaderOffset int      `json:"header_offset"`
}

// handlePage renders the page in the state described by the query string.
// ?section=<id> selects the highlighted nav item and ?overlay=drawer|resume opens an overlay.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	req := rendering.PageRequest{
		Section: r.URL.Query().Get("section"),
		Overlay: r.URL.Query().Get("overlay"),
		Theme:   theme.NewCookieStore(w, r).Get(),
		SiteURL: s.siteURL,
	}

	if cookie, err := r.Cookie(flashCookie); err == nil {
		clearFlashCookie(w)
		if flash, draft, ok := s.flashes.take(cookie.Value); ok {
			req.Flash = flash
			req.Draft = draft
		}
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, s.content.Get(), req); err != nil {
		log.Printf("Failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write page: %v", err)
	}
}

// handleResume serves the resume document inline so browsers preview it.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if s.resumeFile == "" {
		s.errorFromErr(w, &ErrNotFound{Resource: "resume", ID: "resume.pdf"})
		return
	}

	f, err := os.Open(s.resumeFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.errorFromErr(w, &ErrNotFound{Resource: "resume", ID: "resume.pdf"})
			return
		}
		s.errorFromErr(w, err)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="resume.pdf"`)
	http.ServeContent(w, r, "resume.pdf", info.ModTime(), f)
}

// handleTheme flips the theme cookie and sends the browser back where it came from.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	store := theme.NewCookieStore(w, r)
	next, err := theme.Flip(store)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		s.jsonResponse(w, http.StatusOK, map[string]string{"theme": next.String()})
		return
	}
	http.Redirect(w, r, localReferer(r), http.StatusSeeOther)
}

// handleSections returns the section ids and header offset used for scroll tracking.
func (s *Server) handleSections(w http.ResponseWriter, _ *http.Request) {
	nav := navigation.NewState()
	s.jsonResponse(w, http.StatusOK, SectionsResponse{
		Sections:     nav.IDs(),
		HeaderOffset: nav.HeaderOffset(),
	})
}

// localReferer returns the path and query of a same-host Referer, or "/".
func localReferer(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	target := url.URL{Path: ref.Path, RawQuery: ref.RawQuery, Fragment: ref.Fragment}
	return target.String()
}
