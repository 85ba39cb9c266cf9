package rendering

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"strings"

	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/jonathan/portfolio-site/internal/content"
	"github.com/jonathan/portfolio-site/internal/navigation"
	"github.com/jonathan/portfolio-site/internal/overlay"
	"github.com/jonathan/portfolio-site/internal/theme"
	"github.com/jonathan/portfolio-site/internal/types"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// ResumeZoom is appended to the resume path so the preview fits the modal width.
const ResumeZoom = "#zoom=page-width"

// Share texts offered to the native share sheet.
const (
	ShareText = "Check out my portfolio showcasing full-stack development projects and skills."
)

// Flash is the dialog shown after a no-JS contact submission.
type Flash struct {
	Title   string
	Message string
	Success bool
}

// FlashFromOutcome builds the dialog for a relay outcome.
func FlashFromOutcome(o contact.Outcome) *Flash {
	return &Flash{
		Title:   o.Title(),
		Message: o.UserMessage(),
		Success: o.Kind == contact.Success,
	}
}

// PageRequest is the UI state a page is rendered in.
// Section and Overlay are raw query values; unknown values fall back to defaults.
type PageRequest struct {
	Section string
	Overlay string
	Theme   theme.Preference
	Flash   *Flash
	Draft   types.ContactDraft
	SiteURL string
}

// Renderer renders the page from embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"dict": dict,
		"tel":  telHref,
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse templates", Cause: err}
	}
	return &Renderer{tmpl: tmpl}, nil
}

// StaticFS returns the css/js assets, rooted so that "site.css" is at the top.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

type navItem struct {
	ID     string
	Label  string
	Active bool
	// DrawerHref closes the drawer and jumps to the section without JS.
	DrawerHref string
}

type projectView struct {
	types.Project
	Body template.HTML
}

type pageData struct {
	Profile      types.Profile
	Summary      template.HTML
	Projects     []projectView
	Internships  []types.Internship
	SkillGroups  []types.SkillGroup
	Achievements []types.Certificate
	Courses      []types.Certificate
	Hackathons   []types.Certificate
	Education    []types.Education

	Nav          []navItem
	Active       string
	HeaderOffset int
	SectionsJSON string

	Overlay    string
	DrawerOpen bool
	ResumeOpen bool
	RootStyle  string
	BodyStyle  string
	ResumeSrc  string

	Theme     string
	NextTheme string

	Flash *Flash
	Draft types.ContactDraft

	ShareTitle string
	ShareText  string
	ShareURL   string
}

// Render writes the page for p in the UI state described by req.
func (r *Renderer) Render(w io.Writer, p *types.Portfolio, req PageRequest) error {
	data, err := r.buildPageData(p, req)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page.html", data); err != nil {
		return &TemplateError{Message: "failed to execute page template", Cause: err}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return &RenderError{Message: "failed to write page", Cause: err}
	}
	return nil
}

func (r *Renderer) buildPageData(p *types.Portfolio, req PageRequest) (*pageData, error) {
	if p == nil {
		return nil, &RenderError{Message: "no portfolio content"}
	}

	nav := navigation.NewState()
	if id, ok := navigation.ParseSection(req.Section, nav.IDs()); ok {
		nav.ScrollTo(id)
	}

	lock := &overlay.StyleLock{}
	ctrl := overlay.NewController(lock)
	defer ctrl.Teardown()
	ctrl.Open(overlay.ParseKind(req.Overlay))

	summary, err := content.Markdown(p.Profile.Summary)
	if err != nil {
		return nil, &RenderError{Message: "failed to render summary", Cause: err}
	}
	projects := make([]projectView, 0, len(p.Projects))
	for _, proj := range p.Projects {
		body, err := content.Markdown(proj.Description)
		if err != nil {
			return nil, &RenderError{Message: "failed to render project " + proj.Title, Cause: err}
		}
		projects = append(projects, projectView{Project: proj, Body: body})
	}

	items := make([]navItem, 0, len(nav.IDs()))
	for _, id := range nav.IDs() {
		items = append(items, navItem{
			ID:         id,
			Label:      sectionLabel(id),
			Active:     id == nav.Active(),
			DrawerHref: "/?" + url.Values{"section": {id}}.Encode() + "#" + id,
		})
	}
	sectionsJSON, err := json.Marshal(nav.IDs())
	if err != nil {
		return nil, &RenderError{Message: "failed to encode sections", Cause: err}
	}

	pref := req.Theme
	if pref == "" {
		pref = theme.Default
	}

	shareURL := req.SiteURL
	if shareURL == "" {
		shareURL = p.Profile.SiteURL
	}

	return &pageData{
		Profile:      p.Profile,
		Summary:      summary,
		Projects:     projects,
		Internships:  p.Internships,
		SkillGroups:  p.SkillGroups,
		Achievements: p.CertificatesByCategory(types.CategoryAchievement),
		Courses:      p.CertificatesByCategory(types.CategoryCourse),
		Hackathons:   p.CertificatesByCategory(types.CategoryHackathon),
		Education:    p.Education,

		Nav:          items,
		Active:       nav.Active(),
		HeaderOffset: nav.HeaderOffset(),
		SectionsJSON: string(sectionsJSON),

		Overlay:    ctrl.Current().String(),
		DrawerOpen: ctrl.IsOpen(overlay.Drawer),
		ResumeOpen: ctrl.IsOpen(overlay.Modal),
		RootStyle:  overflowStyle(lock.Root()),
		BodyStyle:  overflowStyle(lock.Body()),
		ResumeSrc:  p.Profile.ResumePath + ResumeZoom,

		Theme:     pref.String(),
		NextTheme: pref.Toggle().String(),

		Flash: req.Flash,
		Draft: req.Draft,

		ShareTitle: p.Profile.Name + " - " + p.Profile.Headline + " Portfolio",
		ShareText:  ShareText,
		ShareURL:   shareURL,
	}, nil
}

// dict builds a map from alternating keys and values, for passing several values to a sub-template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

// telHref builds a tel: link. html/template rejects the scheme unless it is marked safe.
func telHref(phone string) template.URL {
	var b strings.Builder
	for _, r := range phone {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return template.URL("tel:" + b.String()) //nolint:gosec // digits and '+' only
}

func overflowStyle(v string) string {
	if v == "" {
		return ""
	}
	return "overflow: " + v
}

// sectionLabel turns a section id into its navigation label.
func sectionLabel(id string) string {
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
