package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/mcpsync/cmd/mcpsync/cmd/auth"
	"github.com/agentstation/mcpsync/cmd/mcpsync/cmd/migrate"
	"github.com/agentstation/mcpsync/cmd/mcpsync/cmd/status"
	synccmd "github.com/agentstation/mcpsync/cmd/mcpsync/cmd/sync"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(synccmd.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(status.NewCommand(a))
	rootCmd.AddCommand(migrate.NewCommand(a))
	rootCmd.AddCommand(auth.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "mcpsync %s\n  commit: %s\n  built:  %s\n  by:     %s\n",
				a.version, a.commit, a.date, a.builtBy)
			return err
		},
	}
}
