// Package status provides the status command.
package status

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mcpsync/cmd/application"
	"github.com/agentstation/mcpsync/internal/cmd/output"
)

// NewCommand creates the status command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "management",
		Short:   "Show row counts of the local store",
		Args:    cobra.NoArgs,
		Example: `  mcpsync status
  mcpsync status -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := app.Client(ctx)
			if err != nil {
				return err
			}

			counts, err := client.Status(ctx)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.FormatStatus(cmd.OutOrStdout(), format, counts)
		},
	}
}
