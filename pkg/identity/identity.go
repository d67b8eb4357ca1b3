// Package identity derives stable record identifiers for directory entries.
//
// An entry whose source code URL points at GitHub is identified by its
// lowercased owner/repo pair, so renames in the directory keep the same
// record. Every other entry is identified by a slug of its display name.
// Two entries deriving the same identifier are treated as one record and
// the later write wins.
package identity

import (
	"regexp"
	"strings"

	"github.com/agentstation/mcpsync/pkg/errors"
)

var (
	repoPattern     = regexp.MustCompile(`github\.com[/:]([\w.-]+)/([\w.-]+)`)
	repoUnsafeChars = regexp.MustCompile(`[^a-z0-9/-]`)
	nameUnsafeRuns  = regexp.MustCompile(`[^a-z0-9]+`)
	alphanumeric    = regexp.MustCompile(`[a-z0-9]`)
)

// Derive returns the identifier for an entry with the given display name
// and optional source code URL. It is pure and deterministic.
func Derive(name string, repoURL *string) (string, error) {
	if repoURL != nil {
		if id, ok := FromRepoURL(*repoURL); ok {
			return id, nil
		}
	}

	id := FromName(name)
	if !alphanumeric.MatchString(id) {
		return "", errors.NewValidationError("name", name, "cannot derive identifier from empty name without a repository URL")
	}
	return id, nil
}

// FromRepoURL extracts owner/repo from a GitHub URL. It reports false when
// the URL does not reference a GitHub repository.
func FromRepoURL(repoURL string) (string, bool) {
	m := repoPattern.FindStringSubmatch(repoURL)
	if m == nil {
		return "", false
	}

	owner, repo := m[1], strings.TrimSuffix(m[2], ".git")
	if repo == "" {
		return "", false
	}

	id := strings.ToLower(owner + "/" + repo)
	return repoUnsafeChars.ReplaceAllString(id, "-"), true
}

// FromName slugs a display name: lowercased, with every run of characters
// outside [a-z0-9] collapsed to one dash.
func FromName(name string) string {
	return nameUnsafeRuns.ReplaceAllString(strings.ToLower(name), "-")
}
