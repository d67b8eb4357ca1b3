package classify_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/classify"
	"github.com/agentstation/mcpsync/pkg/constants"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name        string
		server      string
		description string
		want        catalog.Category
	}{
		{"auth in name", "OAuth Proxy", "", catalog.CategoryAuth},
		{"auth in description", "Gatekeeper", "auth for apps", catalog.CategoryAuth},
		{"login in description", "Gatekeeper", "Single sign-on login flows", catalog.CategoryAuth},
		{"login in name only", "login-helper", "", catalog.CategoryOther},
		{"database only", "Keeper", "A database connector", catalog.CategoryDatabase},
		{"storage", "Keeper", "Object storage access", catalog.CategoryDatabase},
		{"db in name", "mongodb-server", "", catalog.CategoryDatabase},
		{"db in description only", "Keeper", "duckdb", catalog.CategoryOther},
		{"llm", "Router", "Routes LLM prompts", catalog.CategoryAI},
		{"language model", "Router", "Talk to a language model", catalog.CategoryAI},
		{"ai substring", "Mailer", "Send email", catalog.CategoryAI},
		{"document", "Reader", "Parse PDF documents", catalog.CategoryFiles},
		{"http", "Fetcher", "HTTP fetch tool", catalog.CategoryWeb},
		{"nothing", "Weather", "Current conditions", catalog.CategoryOther},
		{"empty", "", "", catalog.CategoryOther},
		{"auth beats database", "Vault", "auth tokens in a database", catalog.CategoryAuth},
		{"database beats ai", "Vault", "database with llm search", catalog.CategoryDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify.Category(tt.server, tt.description))
		})
	}
}

func TestTags(t *testing.T) {
	tags := classify.Tags("Demo Auth", "auth for apps")
	assert.Equal(t, []string{"demo", "auth", "apps"}, tags)
}

func TestTagsOrderAndDedupe(t *testing.T) {
	tags := classify.Tags("GitHub-Issues", "Manage GitHub issues and pull requests from the CLI")
	assert.Equal(t, []string{"github", "issues", "manage", "pull", "requests", "cli"}, tags)
}

func TestTagsNeverExceedCapOrContainStopWords(t *testing.T) {
	desc := "the and for with that this has are from alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"
	tags := classify.Tags("Name", desc)

	assert.Len(t, tags, constants.MaxTags)
	assert.Equal(t, "name", tags[0])
	for _, tag := range tags {
		assert.False(t, classify.IsStopWord(tag), "stop word %q in tags", tag)
		assert.Greater(t, len(tag), constants.MinTagLength)
	}
}

func TestTagsEmpty(t *testing.T) {
	assert.Empty(t, classify.Tags("", ""))
	assert.Empty(t, classify.Tags("a b", "to of"))
}

func ExampleCategory() {
	fmt.Println(classify.Category("Demo Auth", "auth for apps"))
	fmt.Println(classify.Category("Weather", "Current conditions"))
	// Output:
	// auth
	// other
}
