package catalog

import "encoding/json"

// SourceEntry is one server description as served by the remote directory.
// Optional scalars are pointers so absent and empty values stay distinct.
type SourceEntry struct {
	Name                 string                  `json:"name" yaml:"name"`
	ShortDescription     *string                 `json:"short_description,omitempty" yaml:"short_description,omitempty"`
	SourceCodeURL        *string                 `json:"source_code_url,omitempty" yaml:"source_code_url,omitempty"`
	PackageRegistry      *string                 `json:"package_registry,omitempty" yaml:"package_registry,omitempty"`
	PackageName          *string                 `json:"package_name,omitempty" yaml:"package_name,omitempty"`
	PackageDownloadCount *int64                  `json:"package_download_count,omitempty" yaml:"package_download_count,omitempty"`
	GitHubStars          *int64                  `json:"github_stars,omitempty" yaml:"github_stars,omitempty"`
	ExternalURL          *string                 `json:"external_url,omitempty" yaml:"external_url,omitempty"`
	InstallInstructions  []SourceInstruction     `json:"install_instructions,omitempty" yaml:"install_instructions,omitempty"`
	AIGeneratedDesc      *string                 `json:"EXPERIMENTAL_ai_generated_description,omitempty" yaml:"ai_generated_description,omitempty"`
	APIDocumentation     *SourceAPIDocumentation `json:"api_documentation,omitempty" yaml:"api_documentation,omitempty"`
}

// SourceInstruction is an install instruction supplied by the directory.
type SourceInstruction struct {
	Platform       string  `json:"platform" yaml:"platform"`
	IconURL        *string `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
	InstallCommand string  `json:"install_command" yaml:"install_command"`
}

// SourceAPIDocumentation carries the opaque endpoint and example lists.
type SourceAPIDocumentation struct {
	Endpoints json.RawMessage `json:"endpoints,omitempty" yaml:"-"`
	Examples  json.RawMessage `json:"examples,omitempty" yaml:"-"`
}

// Description returns the short description or "" when absent.
func (e *SourceEntry) Description() string {
	if e.ShortDescription == nil {
		return ""
	}
	return *e.ShortDescription
}

// Page is one page of the remote directory.
type Page struct {
	Servers []SourceEntry `json:"servers"`
	Next    *string       `json:"next"`
}

// HasNext reports whether the page points at a following page.
func (p *Page) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr returns a pointer to n.
func Int64Ptr(n int64) *int64 {
	return &n
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
