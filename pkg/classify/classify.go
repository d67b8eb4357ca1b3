// Package classify assigns heuristic categories and keyword tags to
// directory entries from their free-text name and description.
package classify

import (
	"regexp"
	"slices"
	"strings"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/constants"
)

// rule matches when any of its keywords occurs in the lowercased name or
// description. Matching is by substring, so "email" triggers "ai".
type rule struct {
	category    catalog.Category
	nameOrDesc  []string
	description []string
	name        []string
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{category: catalog.CategoryAuth, nameOrDesc: []string{"auth"}, description: []string{"login"}},
	{category: catalog.CategoryDatabase, description: []string{"database", "storage"}, name: []string{"db"}},
	{category: catalog.CategoryAI, description: []string{"ai", "llm", "language model"}},
	{category: catalog.CategoryFiles, description: []string{"file", "document"}},
	{category: catalog.CategoryWeb, description: []string{"web", "http"}},
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {},
	"this": {}, "has": {}, "are": {}, "from": {},
}

var tokenSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Category returns the first category whose rule matches.
func Category(name, description string) catalog.Category {
	name = strings.ToLower(name)
	description = strings.ToLower(description)

	for _, r := range rules {
		if containsAny(name, r.nameOrDesc) || containsAny(description, r.nameOrDesc) ||
			containsAny(description, r.description) || containsAny(name, r.name) {
			return r.category
		}
	}
	return catalog.CategoryOther
}

// Tags tokenizes name and description into lowercase alphanumeric runs and
// returns up to constants.MaxTags distinct tokens in first-seen order,
// skipping stop words and tokens of constants.MinTagLength characters or fewer.
func Tags(name, description string) []string {
	text := strings.ToLower(name + " " + description)
	tags := make([]string, 0, constants.MaxTags)

	for _, token := range tokenSeparator.Split(text, -1) {
		if len(tags) == constants.MaxTags {
			break
		}
		if len(token) <= constants.MinTagLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if slices.Contains(tags, token) {
			continue
		}
		tags = append(tags, token)
	}
	return tags
}

// IsStopWord reports whether word is excluded from tags.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
