// Package migrate provides the migrate command.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/mcpsync/cmd/application"
	"github.com/agentstation/mcpsync/internal/cmd/emoji"
)

// NewCommand creates the migrate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		GroupID: "management",
		Short:   "Create or upgrade the database schema",
		Long: `Migrate creates the servers and server_install_instructions tables and
applies any pending schema changes. Running it again is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}

			applied, err := client.Migrate(cmd.Context())
			if err != nil {
				return err
			}

			if applied == 0 {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s Schema is up to date\n", emoji.Success)
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s Applied %d migration(s)\n", emoji.Success, applied)
			return err
		},
	}
}
