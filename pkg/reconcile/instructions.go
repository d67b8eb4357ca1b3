package reconcile

import (
	"context"
	"strings"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/store"
)

// Platform icons used by the registry defaults.
const (
	IconNode   = "https://nodejs.org/static/images/logos/nodejs-new-pantone-black.svg"
	IconYarn   = "https://yarnpkg.com/favicon.svg"
	IconPython = "https://www.python.org/static/favicon.ico"
	IconRust   = "https://www.rust-lang.org/favicon.ico"
	IconGo     = "https://go.dev/favicon.ico"
)

type defaultTemplate struct {
	platform string
	icon     string
	command  string
}

var registryDefaults = map[string][]defaultTemplate{
	"npm": {
		{platform: "Node.js", icon: IconNode, command: "npm install "},
		{platform: "Yarn", icon: IconYarn, command: "yarn add "},
	},
	"pip":   {{platform: "Python", icon: IconPython, command: "pip install "}},
	"pypi":  {{platform: "Python", icon: IconPython, command: "pip install "}},
	"cargo": {{platform: "Rust", icon: IconRust, command: "cargo add "}},
	"go":    {{platform: "Go", icon: IconGo, command: "go get "}},
}

// DefaultInstructions returns the registry default instructions for a
// package. It returns nil unless both registry and package are set and the
// registry is known. Registry matching is case-insensitive.
func DefaultInstructions(serverID string, registry, pkg *string) []catalog.InstallInstruction {
	if registry == nil || pkg == nil || *registry == "" || *pkg == "" {
		return nil
	}

	templates := registryDefaults[strings.ToLower(*registry)]
	if len(templates) == 0 {
		return nil
	}

	out := make([]catalog.InstallInstruction, 0, len(templates))
	for i, tpl := range templates {
		out = append(out, catalog.InstallInstruction{
			ServerID:       serverID,
			Platform:       tpl.platform,
			IconURL:        catalog.StringPtr(tpl.icon),
			InstallCommand: tpl.command + *pkg,
			SortOrder:      i,
		})
	}
	return out
}

// SuppliedInstructions converts the directory-supplied instructions for
// serverID, using list position as sort order.
func SuppliedInstructions(serverID string, supplied []catalog.SourceInstruction) []catalog.InstallInstruction {
	out := make([]catalog.InstallInstruction, 0, len(supplied))
	for i, s := range supplied {
		out = append(out, catalog.InstallInstruction{
			ServerID:       serverID,
			Platform:       s.Platform,
			IconURL:        s.IconURL,
			InstallCommand: s.InstallCommand,
			SortOrder:      i,
		})
	}
	return out
}

// SyncInstructions deletes every instruction of recordID and writes the
// entry's supplied instructions, or the registry defaults when the entry
// supplies none. It returns the instructions written.
func SyncInstructions(ctx context.Context, st store.Store, recordID string, entry catalog.SourceEntry) ([]catalog.InstallInstruction, error) {
	if _, err := st.DeleteInstructions(ctx, recordID); err != nil {
		return nil, err
	}

	var instructions []catalog.InstallInstruction
	if len(entry.InstallInstructions) > 0 {
		instructions = SuppliedInstructions(recordID, entry.InstallInstructions)
	} else {
		instructions = DefaultInstructions(recordID, entry.PackageRegistry, entry.PackageName)
	}

	for _, ins := range instructions {
		if err := st.InsertInstruction(ctx, ins); err != nil {
			return nil, err
		}
	}
	return instructions, nil
}
