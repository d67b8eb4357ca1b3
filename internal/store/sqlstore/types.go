package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/mcpsync/pkg/catalog"
)

// jsonText holds a JSON document stored in a JSONB or TEXT column.
type jsonText []byte

// Value implements driver.Valuer.
func (j jsonText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "null", nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner.
func (j *jsonText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = jsonText(v)
	default:
		return fmt.Errorf("cannot scan %T into json column", src)
	}
	return nil
}

// timeLayouts are tried in order when a driver returns timestamps as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

// dbTime scans timestamps from TIMESTAMPTZ or TEXT columns.
type dbTime struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

type serverRow struct {
	ID                   string   `db:"id"`
	Name                 string   `db:"name"`
	Description          string   `db:"description"`
	Category             string   `db:"category"`
	Tags                 jsonText `db:"tags"`
	PackageRegistry      *string  `db:"package_registry"`
	PackageName          *string  `db:"package_name"`
	PackageDownloadCount *int64   `db:"package_download_count"`
	GitHubURL            *string  `db:"github_url"`
	GitHubStars          *int64   `db:"github_stars"`
	ExternalURL          *string  `db:"external_url"`
	APIDocumentation     jsonText `db:"api_documentation"`
	CreatedAt            dbTime   `db:"created_at"`
	UpdatedAt            dbTime   `db:"updated_at"`
}

func (r *serverRow) record() (*catalog.Record, error) {
	rec := &catalog.Record{
		ID:                   r.ID,
		Name:                 r.Name,
		Description:          r.Description,
		Category:             catalog.Category(r.Category),
		PackageRegistry:      r.PackageRegistry,
		PackageName:          r.PackageName,
		PackageDownloadCount: r.PackageDownloadCount,
		GitHubURL:            r.GitHubURL,
		GitHubStars:          r.GitHubStars,
		ExternalURL:          r.ExternalURL,
		CreatedAt:            utc.Time{Time: r.CreatedAt.Time},
		UpdatedAt:            utc.Time{Time: r.UpdatedAt.Time},
	}
	if err := decodeJSON(r.Tags, &rec.Tags); err != nil {
		return nil, err
	}
	if err := decodeJSON(r.APIDocumentation, &rec.APIDocumentation); err != nil {
		return nil, err
	}
	return rec, nil
}

type instructionRow struct {
	ServerID       string  `db:"server_id"`
	Platform       string  `db:"platform"`
	IconURL        *string `db:"icon_url"`
	InstallCommand string  `db:"install_command"`
	SortOrder      int     `db:"sort_order"`
}

func (r instructionRow) instruction() catalog.InstallInstruction {
	return catalog.InstallInstruction{
		ServerID:       r.ServerID,
		Platform:       r.Platform,
		IconURL:        r.IconURL,
		InstallCommand: r.InstallCommand,
		SortOrder:      r.SortOrder,
	}
}
