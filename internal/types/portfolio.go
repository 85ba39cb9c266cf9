// Package types provides type definitions for structured data used throughout the portfolio site.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Portfolio is the full content of the one-page site.
type Portfolio struct {
	Profile      Profile       `json:"profile"`
	Projects     []Project     `json:"projects"`
	Internships  []Internship  `json:"internships"`
	SkillGroups  []SkillGroup  `json:"skill_groups"`
	Certificates []Certificate `json:"certificates"`
	Education    []Education   `json:"education"`
}

// Profile is the biographical data shown in the hero and contact sections.
type Profile struct {
	Name       string       `json:"name"`
	Headline   string       `json:"headline"`
	Summary    string       `json:"summary"` // markdown
	Location   string       `json:"location,omitempty"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone,omitempty"`
	ImagePath  string       `json:"image_path,omitempty"`
	ResumePath string       `json:"resume_path"`
	SiteURL    string       `json:"site_url,omitempty"`
	Socials    []SocialLink `json:"socials,omitempty"`
}

// SocialLink is an external profile link (GitHub, LinkedIn, ...).
type SocialLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Project is a showcase card linking to an externally hosted demo.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"` // markdown
	Tech        []string `json:"tech"`
	LiveURL     string   `json:"live_url,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
	ImagePath   string   `json:"image_path,omitempty"`
}

// Internship is one entry of the internship timeline.
type Internship struct {
	Company        string   `json:"company"`
	Role           string   `json:"role"`
	Period         string   `json:"period"`
	Mode           string   `json:"mode,omitempty"`
	Highlights     []string `json:"highlights"`
	CompanyURL     string   `json:"company_url,omitempty"`
	CertificateURL string   `json:"certificate_url,omitempty"`
}

// SkillGroup is a titled list of skill tags.
type SkillGroup struct {
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}

// CertificateCategory groups certificates on the page.
type CertificateCategory string

const (
	CategoryAchievement CertificateCategory = "achievement"
	CategoryCourse      CertificateCategory = "course"
	CategoryHackathon   CertificateCategory = "hackathon"
)

// Certificate is an achievement, course or hackathon certificate.
type Certificate struct {
	Title    string              `json:"title"`
	Issuer   string              `json:"issuer,omitempty"`
	Detail   string              `json:"detail,omitempty"`
	URL      string              `json:"url,omitempty"`
	Category CertificateCategory `json:"category"`
}

// Education is one entry of the education summary.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Period      string `json:"period"`
	Score       string `json:"score,omitempty"`
	Location    string `json:"location,omitempty"`
}

// CertificatesByCategory returns the certificates of one category, in content order.
func (p *Portfolio) CertificatesByCategory(c CertificateCategory) []Certificate {
	var out []Certificate
	for _, cert := range p.Certificates {
		if cert.Category == c {
			out = append(out, cert)
		}
	}
	return out
}
