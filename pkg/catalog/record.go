package catalog

import (
	"encoding/json"

	"github.com/agentstation/utc"
)

// Record is a row of the servers table.
type Record struct {
	ID                   string           `json:"id" yaml:"id" db:"id"`
	Name                 string           `json:"name" yaml:"name" db:"name"`
	Description          string           `json:"description" yaml:"description" db:"description"`
	Category             Category         `json:"category" yaml:"category" db:"category"`
	Tags                 []string         `json:"tags" yaml:"tags" db:"-"`
	PackageRegistry      *string          `json:"package_registry,omitempty" yaml:"package_registry,omitempty" db:"package_registry"`
	PackageName          *string          `json:"package_name,omitempty" yaml:"package_name,omitempty" db:"package_name"`
	PackageDownloadCount *int64           `json:"package_download_count,omitempty" yaml:"package_download_count,omitempty" db:"package_download_count"`
	GitHubURL            *string          `json:"github_url,omitempty" yaml:"github_url,omitempty" db:"github_url"`
	GitHubStars          *int64           `json:"github_stars,omitempty" yaml:"github_stars,omitempty" db:"github_stars"`
	ExternalURL          *string          `json:"external_url,omitempty" yaml:"external_url,omitempty" db:"external_url"`
	APIDocumentation     APIDocumentation `json:"api_documentation" yaml:"api_documentation" db:"-"`
	CreatedAt            utc.Time         `json:"created_at" yaml:"created_at" db:"-"`
	UpdatedAt            utc.Time         `json:"updated_at" yaml:"updated_at" db:"-"`
}

// RecordFields is the mutable subset of a Record written on update.
// It deliberately has no CreatedAt.
type RecordFields struct {
	Name                 string
	Description          string
	Category             Category
	Tags                 []string
	PackageRegistry      *string
	PackageName          *string
	PackageDownloadCount *int64
	GitHubURL            *string
	GitHubStars          *int64
	ExternalURL          *string
	APIDocumentation     APIDocumentation
	UpdatedAt            utc.Time
}

// Fields returns the update payload for r.
func (r *Record) Fields() RecordFields {
	return RecordFields{
		Name:                 r.Name,
		Description:          r.Description,
		Category:             r.Category,
		Tags:                 r.Tags,
		PackageRegistry:      r.PackageRegistry,
		PackageName:          r.PackageName,
		PackageDownloadCount: r.PackageDownloadCount,
		GitHubURL:            r.GitHubURL,
		GitHubStars:          r.GitHubStars,
		ExternalURL:          r.ExternalURL,
		APIDocumentation:     r.APIDocumentation,
		UpdatedAt:            r.UpdatedAt,
	}
}

// Apply copies f onto r, leaving ID and CreatedAt untouched.
func (r *Record) Apply(f RecordFields) {
	r.Name = f.Name
	r.Description = f.Description
	r.Category = f.Category
	r.Tags = f.Tags
	r.PackageRegistry = f.PackageRegistry
	r.PackageName = f.PackageName
	r.PackageDownloadCount = f.PackageDownloadCount
	r.GitHubURL = f.GitHubURL
	r.GitHubStars = f.GitHubStars
	r.ExternalURL = f.ExternalURL
	r.APIDocumentation = f.APIDocumentation
	r.UpdatedAt = f.UpdatedAt
}

// APIDocumentation is the structured document stored with every record.
type APIDocumentation struct {
	Description string          `json:"description" yaml:"description"`
	Endpoints   json.RawMessage `json:"endpoints" yaml:"-"`
	Examples    json.RawMessage `json:"examples" yaml:"-"`
	Methods     json.RawMessage `json:"methods" yaml:"-"`
	Meta        APIDocMeta      `json:"meta" yaml:"meta"`
}

// APIDocMeta records where and when the documentation block was produced.
type APIDocMeta struct {
	GeneratedAt utc.Time `json:"generated_at" yaml:"generated_at"`
	Source      string   `json:"source" yaml:"source"`
	Version     string   `json:"version" yaml:"version"`
}
