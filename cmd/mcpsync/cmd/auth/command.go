// Package auth provides the credential status command.
package auth

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mcpsync/cmd/application"
	"github.com/agentstation/mcpsync/internal/auth"
	"github.com/agentstation/mcpsync/internal/cmd/emoji"
	"github.com/agentstation/mcpsync/internal/cmd/output"
)

// NewCommand creates the auth command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "auth",
		GroupID: "management",
		Short:   "Show the directory credential status",
		Long: `Display whether a PulseMCP bearer credential is configured.

The token is never printed in full: only its first 10 and last 5
characters are shown. When the token is a JWT its role claim is shown
too. No network calls are made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := app.Credential()
			format := output.DetectFormat(app.OutputFormat())
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), status)
			}
			return output.NewFormatter(output.FormatTable).Format(cmd.OutOrStdout(), StatusToTableData(status))
		},
	}
}

// StatusToTableData converts a credential status to a key-value table.
func StatusToTableData(status *auth.Status) output.Data {
	rows := [][]string{
		{"Status", symbol(status.State) + " " + status.State.String()},
		{"Summary", status.Summary},
	}
	if d := status.Details; d != nil {
		rows = append(rows, []string{"Variable", d.EnvVar})
		if d.IsSet {
			rows = append(rows,
				[]string{"Token", d.Masked},
				[]string{"Source", d.Source},
			)
		}
		if d.Role != "" {
			rows = append(rows, []string{"Role", d.Role})
		}
	}
	return output.Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

func symbol(state auth.State) string {
	switch state {
	case auth.StateConfigured:
		return emoji.Success
	case auth.StateOptional:
		return emoji.Optional
	case auth.StateInvalid:
		return emoji.Warning
	default:
		return emoji.Error
	}
}
