// Package application provides the application interface for mcpsync commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client(cmd.Context())
//	            if err != nil {
//	                return err
//	            }
//	            counts, err := client.Status(cmd.Context())
//	            // ... print counts
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    ClientFunc: func(context.Context) (application.Client, error) {
//	        return fakeClient, nil
//	    },
//	}
//	cmd := status.NewCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync"
	"github.com/agentstation/mcpsync/internal/auth"
	"github.com/agentstation/mcpsync/pkg/store"
	"github.com/agentstation/mcpsync/pkg/sync"
)

// Client is the part of *mcpsync.Client that commands use.
type Client interface {
	Sync(ctx context.Context, opts ...sync.Option) (*mcpsync.Report, error)
	Status(ctx context.Context) (store.Counts, error)
	Migrate(ctx context.Context) (int, error)
}

var _ Client = (*mcpsync.Client)(nil)

// Application provides the application interface that commands need.
// The App struct from cmd/mcpsync/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the sync client, opening the configured store on first use.
	Client(ctx context.Context) (Client, error)

	// Credential reports the state of the directory credential without exposing it.
	Credential() *auth.Status

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the output format from global flags (table, json, yaml).
	OutputFormat() string

	// ErrorDisplayLimit is how many entry errors a summary prints.
	ErrorDisplayLimit() int

	// AutoMigrate reports whether sync brings the schema up to date first.
	AutoMigrate() bool

	// WriteMetrics writes the run metrics to the configured textfile, if any.
	WriteMetrics() error

	// Version returns the application version.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
