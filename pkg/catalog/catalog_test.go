package catalog_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync/pkg/catalog"
)

const pageJSON = `{
  "servers": [
    {
      "name": "Demo Auth",
      "short_description": "OAuth login helper",
      "source_code_url": "https://github.com/Acme/Demo-Auth.git",
      "package_registry": "npm",
      "package_name": "demo-auth",
      "github_stars": 42,
      "EXPERIMENTAL_ai_generated_description": "Generated text",
      "install_instructions": [{"platform": "Docker", "install_command": "docker run demo"}],
      "api_documentation": {"endpoints": [{"path": "/login"}]}
    },
    {"name": "Bare"}
  ],
  "next": "https://api.example.com/servers?page=2"
}`

func TestPageDecoding(t *testing.T) {
	var page catalog.Page
	require.NoError(t, json.Unmarshal([]byte(pageJSON), &page))

	require.Len(t, page.Servers, 2)
	assert.True(t, page.HasNext())

	demo := page.Servers[0]
	assert.Equal(t, "Demo Auth", demo.Name)
	assert.Equal(t, "OAuth login helper", demo.Description())
	assert.Equal(t, "npm", catalog.Deref(demo.PackageRegistry))
	require.NotNil(t, demo.GitHubStars)
	assert.Equal(t, int64(42), *demo.GitHubStars)
	assert.Nil(t, demo.PackageDownloadCount)
	assert.Equal(t, "Generated text", catalog.Deref(demo.AIGeneratedDesc))
	require.Len(t, demo.InstallInstructions, 1)
	assert.Nil(t, demo.InstallInstructions[0].IconURL)
	require.NotNil(t, demo.APIDocumentation)
	assert.JSONEq(t, `[{"path":"/login"}]`, string(demo.APIDocumentation.Endpoints))

	bare := page.Servers[1]
	assert.Equal(t, "", bare.Description())
	assert.Nil(t, bare.SourceCodeURL)
}

func TestPageWithoutNext(t *testing.T) {
	var page catalog.Page
	require.NoError(t, json.Unmarshal([]byte(`{"servers": [], "next": null}`), &page))
	assert.False(t, page.HasNext())

	empty := ""
	page.Next = &empty
	assert.False(t, page.HasNext())
}

func TestRecordFieldsExcludesCreatedAt(t *testing.T) {
	created := utc.Time{Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	updated := utc.Time{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}

	rec := catalog.Record{ID: "acme/demo", Name: "Demo", CreatedAt: created, UpdatedAt: created}
	fields := rec.Fields()
	fields.Name = "Demo v2"
	fields.UpdatedAt = updated

	rec.Apply(fields)
	assert.Equal(t, "acme/demo", rec.ID)
	assert.Equal(t, "Demo v2", rec.Name)
	assert.True(t, rec.CreatedAt.Time.Equal(created.Time))
	assert.True(t, rec.UpdatedAt.Time.Equal(updated.Time))
}

func TestCategories(t *testing.T) {
	assert.Len(t, catalog.Categories(), 6)
	assert.True(t, catalog.CategoryAuth.IsValid())
	assert.False(t, catalog.Category("misc").IsValid())
	assert.Equal(t, "web", catalog.CategoryWeb.String())
}
