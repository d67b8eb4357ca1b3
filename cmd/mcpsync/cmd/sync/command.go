// Package sync provides the sync command.
package sync

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/mcpsync/cmd/application"
)

// Flags holds the sync command flags.
type Flags struct {
	Migrate bool
	Timeout time.Duration
}

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Reconcile the PulseMCP directory into the local store",
		Args:    cobra.NoArgs,
		Long: `Sync pages through the PulseMCP server directory and reconciles every
entry into the local store:

• Derive a stable server ID from the GitHub repository or the name
• Classify the server into a category and extract search tags
• Insert new servers and update existing ones
• Replace the install instructions of every server written

Entries that fail are counted and reported; a page that cannot be fetched
ends the run with the statistics gathered so far. Ctrl-C stops the run
before the next page or entry and exits with status 130.`,
		Example: `  mcpsync sync                          # Sync into the configured database
  mcpsync sync --migrate                # Create or upgrade the schema first
  mcpsync sync -o json                  # Print the report as JSON
  PULSEMCP_API_KEY=... mcpsync sync     # Authenticate against the directory`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&flags.Migrate, "migrate", false, "apply pending schema migrations before syncing")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "abort the run after this long (0 uses sync.timeout)")

	return cmd
}
