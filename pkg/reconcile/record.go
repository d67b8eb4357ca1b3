package reconcile

import (
	"encoding/json"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/classify"
	"github.com/agentstation/mcpsync/pkg/constants"
)

var (
	emptyList   = json.RawMessage(`[]`)
	emptyObject = json.RawMessage(`{}`)
)

// BuildRecord maps a directory entry to the record persisted under id.
// Both timestamps are set to now; Reconcile keeps CreatedAt of existing
// records.
func BuildRecord(entry catalog.SourceEntry, id string, now time.Time) catalog.Record {
	ts := utc.Time{Time: now.UTC()}
	description := entry.Description()

	return catalog.Record{
		ID:                   id,
		Name:                 entry.Name,
		Description:          description,
		Category:             classify.Category(entry.Name, description),
		Tags:                 classify.Tags(entry.Name, description),
		PackageRegistry:      entry.PackageRegistry,
		PackageName:          entry.PackageName,
		PackageDownloadCount: entry.PackageDownloadCount,
		GitHubURL:            entry.SourceCodeURL,
		GitHubStars:          entry.GitHubStars,
		ExternalURL:          entry.ExternalURL,
		APIDocumentation:     BuildAPIDocumentation(entry, now),
		CreatedAt:            ts,
		UpdatedAt:            ts,
	}
}

// BuildAPIDocumentation returns the documentation block for entry. The
// description prefers the generated description over the short one.
func BuildAPIDocumentation(entry catalog.SourceEntry, now time.Time) catalog.APIDocumentation {
	doc := catalog.APIDocumentation{
		Description: entry.Description(),
		Endpoints:   emptyList,
		Examples:    emptyList,
		Methods:     emptyObject,
		Meta: catalog.APIDocMeta{
			GeneratedAt: utc.Time{Time: now.UTC()},
			Source:      constants.SourceName,
			Version:     constants.APIDocVersion,
		},
	}

	if entry.AIGeneratedDesc != nil && *entry.AIGeneratedDesc != "" {
		doc.Description = *entry.AIGeneratedDesc
	}
	if src := entry.APIDocumentation; src != nil {
		if isJSONValue(src.Endpoints) {
			doc.Endpoints = src.Endpoints
		}
		if isJSONValue(src.Examples) {
			doc.Examples = src.Examples
		}
	}
	return doc
}

func isJSONValue(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
